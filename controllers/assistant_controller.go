package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealplanner/services"
)

type AssistantController struct {
	Assistant *services.AssistantService
}

func NewAssistantController(a *services.AssistantService) *AssistantController {
	return &AssistantController{Assistant: a}
}

// POST /api/assistant  { "question": "...", "client_id": 1, "speak": false }
func (ac *AssistantController) Ask(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	var req services.AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}
	out, err := ac.Assistant.Ask(c.Request.Context(), cred, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/assistant/history
func (ac *AssistantController) Forget(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	ac.Assistant.Forget(cred.UserID)
	c.Status(http.StatusNoContent)
}
