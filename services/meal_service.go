package services

import (
	"context"
	"time"

	"mealplanner/models"
	"mealplanner/utils"
)

// MealService adds per-day reporting on top of meal CRUD.
type MealService struct {
	*CrudService[models.Meal]
	clients *CrudService[models.Client]
}

func NewMealService(meals *CrudService[models.Meal], clients *CrudService[models.Client]) *MealService {
	return &MealService{CrudService: meals, clients: clients}
}

type DailySummary struct {
	ClientID  uint                 `json:"client_id"`
	Date      string               `json:"date"`
	MealCount int                  `json:"meal_count"`
	Meals     []models.Meal        `json:"meals"`
	Totals    utils.NutrientTotals `json:"totals"`
	Summary   utils.MacroSummary   `json:"summary"`
	Warnings  []utils.Warning      `json:"warnings"`
	Body      *utils.BodyMetrics   `json:"body,omitempty"`
}

// ListForClient returns the client's meals in stored order.
func (s *MealService) ListForClient(ctx context.Context, cred utils.Credentials, clientID uint) ([]models.Meal, error) {
	all, err := s.List(ctx, cred)
	if err != nil {
		return nil, err
	}
	out := make([]models.Meal, 0, len(all))
	for _, m := range all {
		if m.ClientID == clientID {
			out = append(out, m)
		}
	}
	return out, nil
}

// DailySummary totals a client's meals on day's calendar day.
func (s *MealService) DailySummary(ctx context.Context, cred utils.Credentials, clientID uint, day time.Time) (*DailySummary, error) {
	client, err := s.clients.Get(ctx, cred, clientID)
	if err != nil {
		return nil, err
	}
	meals, err := s.ListForClient(ctx, cred, clientID)
	if err != nil {
		return nil, err
	}

	todays := utils.MealsOn(meals, day)
	totals := utils.AggregateNutrients(todays, day)
	return &DailySummary{
		ClientID:  clientID,
		Date:      day.Format("2006-01-02"),
		MealCount: len(todays),
		Meals:     todays,
		Totals:    totals,
		Summary:   totals.Summary(),
		Warnings:  utils.DailyGuidance(totals, client),
		Body:      utils.ClientBodyMetrics(client),
	}, nil
}
