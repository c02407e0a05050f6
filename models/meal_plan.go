package models

import (
	"strings"
	"time"

	"mealplanner/utils/apperr"
)

// MealPlan groups a client's meals over a date range.
type MealPlan struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	ClientID  uint      `gorm:"index" json:"client_id"`
	Name      string    `gorm:"not null" json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p MealPlan) GetID() uint { return p.ID }

func (p *MealPlan) SetID(id uint) { p.ID = id }

func (p *MealPlan) SetOwner(userID uint) { p.UserID = userID }

func (p *MealPlan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Validation("meal plan", "name is required")
	}
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return apperr.Validation("meal plan", "end_date must be on/after start_date")
	}
	return nil
}
