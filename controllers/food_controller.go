package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealplanner/services"
)

type FoodController struct {
	Food   *services.FoodService
	Edamam *services.EdamamService
}

func NewFoodController(food *services.FoodService, eda *services.EdamamService) *FoodController {
	return &FoodController{Food: food, Edamam: eda}
}

// GET /api/food/search?q=apple
func (fc *FoodController) Search(c *gin.Context) {
	out, err := fc.Food.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/food/recognize  { "image_base64": "data:image/jpeg;base64,…" }
func (fc *FoodController) Recognize(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	out, err := fc.Food.Recognize(c.Request.Context(), req.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/food/analyze  { "food_id": "...", "measure_uri": "...", "quantity": 100 }
func (fc *FoodController) Analyze(c *gin.Context) {
	var req struct {
		FoodID     string  `json:"food_id" binding:"required"`
		MeasureURI string  `json:"measure_uri" binding:"required"`
		Quantity   float64 `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "food_id, measure_uri and positive quantity are required"})
		return
	}
	out, err := fc.Food.AnalyzePreview(c.Request.Context(), req.FoodID, req.MeasureURI, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/recipes/search?q=oats
func (fc *FoodController) SearchRecipes(c *gin.Context) {
	out, err := fc.Edamam.SearchRecipes(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
