package utils

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"mealplanner/models"
)

//go:embed templates/meal_plan.html
var templateFS embed.FS

// PlanDocument is everything printed for one meal plan.
type PlanDocument struct {
	Title      string
	ClientName string
	StartDate  time.Time
	EndDate    time.Time
	Notes      string
	Days       []PlanDay
	Recipes    []models.Recipe
}

// PlanDay holds the meals of one calendar day and their summed nutrients.
type PlanDay struct {
	Date   time.Time
	Meals  []models.Meal
	Totals NutrientTotals
}

type recipeView struct {
	Label           string
	Source          string
	Yield           float64
	IngredientLines []string
	Instructions    template.HTML
}

type nutrientRow struct {
	Label  string
	Amount string
	Unit   string
}

var (
	planTmplOnce sync.Once
	planTmpl     *template.Template
	planTmplErr  error

	// UGC policy drops <script>, on* attributes and javascript: URLs.
	instructionsPolicy = bluemonday.UGCPolicy()
)

func planTemplate() (*template.Template, error) {
	planTmplOnce.Do(func() {
		planTmpl, planTmplErr = template.New("meal_plan.html").Funcs(template.FuncMap{
			"date":         func(t time.Time) string { return t.Format("2 Jan 2006") },
			"longDate":     func(t time.Time) string { return t.Format("Monday, 2 January 2006") },
			"num":          formatAmount,
			"nutrientRows": nutrientRows,
		}).ParseFS(templateFS, "templates/meal_plan.html")
	})
	return planTmpl, planTmplErr
}

// BuildPlanDocument groups meals by calendar day (in each meal's own
// location), oldest first, and totals each day.
func BuildPlanDocument(plan models.MealPlan, clientName string, meals []models.Meal, recipes []models.Recipe) PlanDocument {
	sorted := make([]models.Meal, len(meals))
	copy(sorted, meals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})

	var days []PlanDay
	for _, m := range sorted {
		if n := len(days); n > 0 && SameDay(m.Date, days[n-1].Date) {
			days[n-1].Meals = append(days[n-1].Meals, m)
			continue
		}
		days = append(days, PlanDay{Date: DayStart(m.Date), Meals: []models.Meal{m}})
	}
	for i := range days {
		days[i].Totals = AggregateNutrients(days[i].Meals, days[i].Date)
	}

	rs := make([]models.Recipe, len(recipes))
	copy(rs, recipes)
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })

	return PlanDocument{
		Title:      plan.Name,
		ClientName: clientName,
		StartDate:  plan.StartDate,
		EndDate:    plan.EndDate,
		Notes:      plan.Notes,
		Days:       days,
		Recipes:    rs,
	}
}

// RenderPlanHTML renders doc to a standalone HTML page with no scripts or
// event handlers. Equal documents render to identical output.
func RenderPlanHTML(doc PlanDocument) (string, error) {
	tmpl, err := planTemplate()
	if err != nil {
		return "", fmt.Errorf("load meal plan template: %w", err)
	}

	recipes := make([]recipeView, 0, len(doc.Recipes))
	for _, r := range doc.Recipes {
		recipes = append(recipes, recipeView{
			Label:           r.Label,
			Source:          r.Source,
			Yield:           r.Yield,
			IngredientLines: r.IngredientLines,
			Instructions:    template.HTML(instructionsPolicy.Sanitize(r.Instructions)),
		})
	}

	data := struct {
		Title      string
		ClientName string
		StartDate  time.Time
		EndDate    time.Time
		Notes      string
		Days       []PlanDay
		Recipes    []recipeView
	}{doc.Title, doc.ClientName, doc.StartDate, doc.EndDate, doc.Notes, doc.Days, recipes}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render meal plan: %w", err)
	}
	return buf.String(), nil
}

func nutrientRows(totals NutrientTotals) []nutrientRow {
	tags := OrderedTags(totals)
	rows := make([]nutrientRow, 0, len(tags))
	for _, tag := range tags {
		info := LookupNutrient(tag)
		rows = append(rows, nutrientRow{Label: info.Label, Amount: formatAmount(totals[tag]), Unit: info.Unit})
	}
	return rows
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}
