package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplanner/middlewares"
	"mealplanner/models"
	"mealplanner/services"
)

type stubPDF struct{}

func (stubPDF) RenderPDF(context.Context, string) ([]byte, error) { return []byte("%PDF-1.4"), nil }

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, prefix, name, ext, _ string, _ []byte) (string, error) {
	return "https://cdn.example.com/" + prefix + "/" + name + ext, nil
}

type stubMailer struct{ err error }

func (m stubMailer) SendMealPlan(context.Context, string, string, string, string) error { return m.err }

func planEngine(mailer services.PlanMailer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	planID := uint(9)

	clients := services.NewCrudService[models.Client]("clients", newMapStore[models.Client, *models.Client](
		models.Client{ID: 1, Name: "Ada", Email: "ada@example.com"},
	), nil)
	meals := services.NewCrudService[models.Meal]("meals", newMapStore[models.Meal, *models.Meal](
		models.Meal{ID: 1, ClientID: 1, MealPlanID: &planID, Name: "Oats", Type: "breakfast", Date: day.Add(8 * time.Hour)},
	), nil)
	plans := services.NewMealPlanService(services.MealPlanDeps{
		Plans: services.NewCrudService[models.MealPlan]("meal-plans", newMapStore[models.MealPlan, *models.MealPlan](
			models.MealPlan{ID: planID, ClientID: 1, Name: "Week 23", StartDate: day, EndDate: day.AddDate(0, 0, 6)},
		), nil),
		Clients:  clients,
		Meals:    services.NewMealService(meals, clients),
		Recipes:  services.NewCrudService[models.Recipe]("recipes", newMapStore[models.Recipe, *models.Recipe](), nil),
		PDF:      stubPDF{},
		Uploader: stubUploader{},
		Mailer:   mailer,
	})
	pc := NewMealPlanController(plans)

	r := gin.New()
	g := r.Group("/api", middlewares.AuthMiddleware(secret))
	g.POST("/meal-plans/:id/share", pc.Share)
	return r
}

func TestMealPlanController_Share(t *testing.T) {
	w := httptest.NewRecorder()
	planEngine(stubMailer{}).ServeHTTP(w, authed(t, http.MethodPost, "/api/meal-plans/9/share", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out services.ShareResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "https://cdn.example.com/meal-plans/7/plan-9.pdf", out.URL)
	assert.Equal(t, "ada@example.com", out.Email)
}

func TestMealPlanController_ShareMailFailureKeepsLink(t *testing.T) {
	w := httptest.NewRecorder()
	planEngine(stubMailer{err: errors.New("throttled")}).ServeHTTP(w, authed(t, http.MethodPost, "/api/meal-plans/9/share", nil))
	require.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://cdn.example.com/meal-plans/7/plan-9.pdf", body["url"])
	assert.Equal(t, "upstream", body["kind"])
	assert.NotEmpty(t, body["error"])
}
