package models

import (
	"strings"
	"time"

	"mealplanner/utils/apperr"
)

// Ingredient is a measured Edamam food, optionally attached to a recipe.
type Ingredient struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	RecipeID   *uint     `gorm:"index" json:"recipe_id,omitempty"`
	FoodID     string    `gorm:"type:varchar(255);not null" json:"food_id"` // EdamamFoodID
	Label      string    `json:"label"`
	Quantity   float64   `json:"quantity"`
	MeasureURI string    `json:"measure_uri"` // e.g. "http://www.edamam.com/ontologies/edamam.owl#Measure_gram"
	Nutrients  Nutrients `gorm:"serializer:json" json:"nutrients"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (i Ingredient) GetID() uint { return i.ID }

func (i *Ingredient) SetID(id uint) { i.ID = id }

func (i *Ingredient) SetOwner(userID uint) { i.UserID = userID }

func (i *Ingredient) Validate() error {
	if strings.TrimSpace(i.FoodID) == "" {
		return apperr.Validation("ingredient", "food_id is required")
	}
	if i.Quantity <= 0 {
		return apperr.Validation("ingredient", "quantity must be positive")
	}
	return nil
}
