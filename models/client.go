package models

import (
	"strings"
	"time"

	"mealplanner/utils/apperr"
)

// Client is a person whose meals are planned by the account owner.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Sex       string    `gorm:"size:16" json:"sex"`
	HeightCm  float64   `json:"height_cm"`
	WeightKg  float64   `json:"weight_kg"`
	Goals     string    `gorm:"type:text" json:"goals"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Client) GetID() uint { return c.ID }

func (c *Client) SetID(id uint) { c.ID = id }

func (c *Client) SetOwner(userID uint) { c.UserID = userID }

func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperr.Validation("client", "name is required")
	}
	if c.Age < 0 {
		return apperr.Validation("client", "age must not be negative")
	}
	return nil
}
