package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mealplanner/services"
	"mealplanner/utils/apperr"
)

type MealPlanController struct {
	Plans *services.MealPlanService
}

func NewMealPlanController(plans *services.MealPlanService) *MealPlanController {
	return &MealPlanController{Plans: plans}
}

// GET /api/meal-plans/:id/html
func (pc *MealPlanController) HTML(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	html, err := pc.Plans.ExportHTML(c.Request.Context(), cred, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GET /api/meal-plans/:id/pdf
func (pc *MealPlanController) PDF(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	pdf, err := pc.Plans.ExportPDF(c.Request.Context(), cred, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="meal-plan-%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// POST /api/meal-plans/:id/share  { "email": "optional@override" }
func (pc *MealPlanController) Share(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Email string `json:"email" binding:"omitempty,email"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
			return
		}
	}
	out, err := pc.Plans.Share(c.Request.Context(), cred, id, req.Email)
	if err != nil && out != nil {
		// uploaded but not mailed
		c.JSON(http.StatusBadGateway, gin.H{"url": out.URL, "error": err.Error(), "kind": apperr.KindOf(err).String()})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
