package models

import (
	"strings"
	"time"

	"mealplanner/utils/apperr"
)

// Recipe is either saved from an Edamam search hit or written by hand.
type Recipe struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	Label           string    `gorm:"not null" json:"label"`
	Source          string    `json:"source"`
	URL             string    `json:"url"`
	Image           string    `json:"image"`
	Yield           float64   `json:"yield"`
	IngredientLines []string  `gorm:"serializer:json" json:"ingredient_lines"`
	Instructions    string    `gorm:"type:text" json:"instructions"` // may carry markup
	Nutrients       Nutrients `gorm:"serializer:json" json:"nutrients"`
	EdamamURI       string    `gorm:"index" json:"edamam_uri,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (r Recipe) GetID() uint { return r.ID }

func (r *Recipe) SetID(id uint) { r.ID = id }

func (r *Recipe) SetOwner(userID uint) { r.UserID = userID }

func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Label) == "" {
		return apperr.Validation("recipe", "label is required")
	}
	if r.Yield < 0 {
		return apperr.Validation("recipe", "yield must not be negative")
	}
	return nil
}
