package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealplanner/services"
)

type RecipeController struct {
	Recipes *services.RecipeService
}

func NewRecipeController(r *services.RecipeService) *RecipeController {
	return &RecipeController{Recipes: r}
}

type uploadImageRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// POST /api/recipes/:id/image
func (rc *RecipeController) UploadImage(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req uploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	recipe, err := rc.Recipes.AttachImage(c.Request.Context(), cred, id, req.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}
