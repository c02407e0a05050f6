package services

import (
	"context"
	"time"

	"mealplanner/utils"
)

type DayOverview struct {
	Date      string             `json:"date"`
	MealCount int                `json:"meal_count"`
	Summary   utils.MacroSummary `json:"summary"`
}

type WeeklyOverview struct {
	ClientID  uint               `json:"client_id"`
	WeekStart string             `json:"week_start"`
	Days      []DayOverview      `json:"days"`
	Average   utils.MacroSummary `json:"average"` // over days with meals
}

// StartOfWeek returns the Monday on or before t, at midnight in t's location.
func StartOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return utils.DayStart(t).AddDate(0, 0, -(wd - 1))
}

// WeeklyOverview totals each of the seven days starting at the Monday of
// weekStart's week.
func (s *MealService) WeeklyOverview(ctx context.Context, cred utils.Credentials, clientID uint, weekStart time.Time) (*WeeklyOverview, error) {
	if _, err := s.clients.Get(ctx, cred, clientID); err != nil {
		return nil, err
	}
	meals, err := s.ListForClient(ctx, cred, clientID)
	if err != nil {
		return nil, err
	}

	from := StartOfWeek(weekStart)
	out := &WeeklyOverview{ClientID: clientID, WeekStart: from.Format("2006-01-02")}
	sum := utils.NutrientTotals{}
	active := 0
	for i := 0; i < 7; i++ {
		d := from.AddDate(0, 0, i)
		day := utils.MealsOn(meals, d)
		totals := utils.AggregateNutrients(day, d)
		out.Days = append(out.Days, DayOverview{
			Date:      d.Format("2006-01-02"),
			MealCount: len(day),
			Summary:   totals.Summary(),
		})
		if len(day) == 0 {
			continue
		}
		active++
		for tag, v := range totals {
			sum[tag] += v
		}
	}
	if active > 0 {
		for tag := range sum {
			sum[tag] /= float64(active)
		}
	}
	out.Average = sum.Summary()
	return out, nil
}
