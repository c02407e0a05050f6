package models

import (
	"strings"
	"time"

	"mealplanner/utils/apperr"
)

// Meal types accepted for a Meal.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// Meal is one eating occasion for a client, with its nutrition snapshot.
type Meal struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	ClientID   uint      `gorm:"index" json:"client_id"`
	MealPlanID *uint     `gorm:"index" json:"meal_plan_id,omitempty"`
	RecipeID   *uint     `json:"recipe_id,omitempty"`
	Name       string    `gorm:"not null" json:"name"`
	Type       string    `gorm:"size:16" json:"type"` // breakfast|lunch|dinner|snack
	Date       time.Time `gorm:"index;not null" json:"date"`
	Servings   float64   `json:"servings"`
	Nutrients  Nutrients `gorm:"serializer:json" json:"nutrients"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (m Meal) GetID() uint { return m.ID }

func (m *Meal) SetID(id uint) { m.ID = id }

func (m *Meal) SetOwner(userID uint) { m.UserID = userID }

func (m *Meal) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return apperr.Validation("meal", "name is required")
	}
	if m.Date.IsZero() {
		return apperr.Validation("meal", "date is required")
	}
	m.Type = strings.ToLower(strings.TrimSpace(m.Type))
	switch m.Type {
	case "", MealBreakfast, MealLunch, MealDinner, MealSnack:
	default:
		return apperr.Validation("meal", "unknown meal type %q", m.Type)
	}
	if m.Servings < 0 {
		return apperr.Validation("meal", "servings must not be negative")
	}
	return nil
}
