package utils

import (
	"math"
	"time"

	"mealplanner/models"
)

// NutrientTotals is the per-tag sum over a set of meals.
type NutrientTotals map[string]float64

// MacroSummary projects the commonly shown tags out of a totals map.
type MacroSummary struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Sodium   float64 `json:"sodium"`
	Sugar    float64 `json:"sugar"`
	Fiber    float64 `json:"fiber"`
}

// Summary reads the macro tags; missing tags read as zero.
func (t NutrientTotals) Summary() MacroSummary {
	return MacroSummary{
		Calories: round2(t["ENERC_KCAL"]),
		Protein:  round2(t["PROCNT"]),
		Carbs:    round2(t["CHOCDF"]),
		Fat:      round2(t["FAT"]),
		Sodium:   round2(t["NA"]),
		Sugar:    round2(t["SUGAR"]),
		Fiber:    round2(t["FIBTG"]),
	}
}

// SameDay reports whether a and b fall on the same calendar day in ref's
// location.
func SameDay(a, ref time.Time) bool {
	a = a.In(ref.Location())
	ay, am, ad := a.Date()
	ry, rm, rd := ref.Date()
	return ay == ry && am == rm && ad == rd
}

// AggregateNutrients sums the nutrients of every meal dated on day's calendar
// day. No matching meals yields an empty, non-nil map.
func AggregateNutrients(meals []models.Meal, day time.Time) NutrientTotals {
	totals := NutrientTotals{}
	for _, m := range meals {
		if !SameDay(m.Date, day) {
			continue
		}
		for tag, v := range m.Nutrients {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			totals[tag] += v
		}
	}
	return totals
}

// MealsOn filters meals to those on day's calendar day, keeping order.
func MealsOn(meals []models.Meal, day time.Time) []models.Meal {
	out := make([]models.Meal, 0, len(meals))
	for _, m := range meals {
		if SameDay(m.Date, day) {
			out = append(out, m)
		}
	}
	return out
}

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
