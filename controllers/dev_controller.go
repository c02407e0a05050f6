package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mealplanner/utils"
)

// DevController issues tokens for local runs against the postgres store.
// It is only routed in gin debug mode.
type DevController struct {
	Secret []byte
}

func NewDevController(secret []byte) *DevController {
	return &DevController{Secret: secret}
}

type devTokenReq struct {
	UserID uint   `json:"user_id" binding:"required"`
	Email  string `json:"email"`
}

func (d *DevController) Token(c *gin.Context) {
	var req devTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tok, err := utils.GenerateJWT(d.Secret, req.UserID, req.Email, 24*time.Hour)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}
