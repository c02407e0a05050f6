package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplanner/middlewares"
	"mealplanner/models"
	"mealplanner/services"
	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

var secret = []byte("controller-secret")

type mapStore[T models.Entity, PT models.Record[T]] struct {
	next  uint
	items map[uint]T
}

func newMapStore[T models.Entity, PT models.Record[T]](seed ...T) *mapStore[T, PT] {
	s := &mapStore[T, PT]{items: map[uint]T{}}
	for _, it := range seed {
		s.items[it.GetID()] = it
		if it.GetID() > s.next {
			s.next = it.GetID()
		}
	}
	return s
}

func (s *mapStore[T, PT]) List(context.Context, utils.Credentials) ([]T, error) {
	out := make([]T, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetID() < out[j].GetID() })
	return out, nil
}

func (s *mapStore[T, PT]) Get(_ context.Context, _ utils.Credentials, id uint) (T, error) {
	it, ok := s.items[id]
	if !ok {
		return it, apperr.NotFound("test", id)
	}
	return it, nil
}

func (s *mapStore[T, PT]) Save(_ context.Context, cred utils.Credentials, item T) (T, error) {
	p := PT(&item)
	p.SetOwner(cred.UserID)
	if item.GetID() == 0 {
		s.next++
		p.SetID(s.next)
	} else if _, ok := s.items[item.GetID()]; !ok {
		return item, apperr.NotFound("test", item.GetID())
	}
	s.items[item.GetID()] = item
	return item, nil
}

func (s *mapStore[T, PT]) Delete(_ context.Context, _ utils.Credentials, id uint) error {
	if _, ok := s.items[id]; !ok {
		return apperr.NotFound("test", id)
	}
	delete(s.items, id)
	return nil
}

func authed(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	tok, err := utils.GenerateJWT(secret, 7, "coach@example.com", time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func mealEngine(seed ...models.Meal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := services.NewCrudService[models.Meal]("meals", newMapStore[models.Meal, *models.Meal](seed...), nil)
	cc := NewCrudController[models.Meal, *models.Meal](svc)

	r := gin.New()
	g := r.Group("/api", middlewares.AuthMiddleware(secret))
	g.GET("/meals", cc.List)
	g.POST("/meals", cc.Create)
	g.POST("/meals/sync", cc.Sync)
	g.GET("/meals/:id", cc.Get)
	g.PUT("/meals/:id", cc.Update)
	g.DELETE("/meals/:id", cc.Delete)
	return r
}

func TestCrudController_Lifecycle(t *testing.T) {
	r := mealEngine()
	day := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodPost, "/api/meals", gin.H{"id": 99, "name": "Oats", "type": "breakfast", "date": day}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Meal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.EqualValues(t, 1, created.ID)
	assert.EqualValues(t, 7, created.UserID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodPut, "/api/meals/1", gin.H{"name": "Oats and honey", "date": day}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodGet, "/api/meals/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Oats and honey")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodDelete, "/api/meals/1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodGet, "/api/meals/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCrudController_Errors(t *testing.T) {
	r := mealEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodPost, "/api/meals", gin.H{"name": ""}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"validation"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodGet, "/api/meals/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodPut, "/api/meals/5", gin.H{"name": "Ghost", "date": time.Now()}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCrudController_Sync(t *testing.T) {
	day := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	seed := models.Meal{ID: 1, UserID: 7, Name: "Toast", Date: day}
	r := mealEngine(seed)

	// absent collection plus an upsert yields just the stored item
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodPost, "/api/meals/sync", gin.H{
		"action": gin.H{"kind": "upsert", "item": gin.H{"name": "Soup", "date": day}},
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Items []models.Meal `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Items, 1)
	assert.EqualValues(t, 2, out.Items[0].ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodPost, "/api/meals/sync", gin.H{
		"items":  []models.Meal{seed, out.Items[0]},
		"action": gin.H{"kind": "delete", "item": gin.H{"id": 1}},
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Items, 1)
	assert.EqualValues(t, 2, out.Items[0].ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodPost, "/api/meals/sync", gin.H{
		"items":  []models.Meal{},
		"action": gin.H{"kind": "merge", "item": gin.H{"id": 1}},
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMealController_DailySummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	clients := services.NewCrudService[models.Client]("clients", newMapStore[models.Client, *models.Client](
		models.Client{ID: 1, Name: "Ada"},
	), nil)
	meals := services.NewCrudService[models.Meal]("meals", newMapStore[models.Meal, *models.Meal](
		models.Meal{ID: 1, ClientID: 1, Name: "Oats", Date: day.Add(8 * time.Hour), Nutrients: models.Nutrients{"ENERC_KCAL": 320}},
		models.Meal{ID: 2, ClientID: 1, Name: "Late snack", Date: day.Add(23*time.Hour + 30*time.Minute), Nutrients: models.Nutrients{"ENERC_KCAL": 150}},
	), nil)
	mc := NewMealController(services.NewMealService(meals, clients))

	r := gin.New()
	r.GET("/api/clients/:id/summary", middlewares.AuthMiddleware(secret), mc.DailySummary)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodGet, "/api/clients/1/summary?date=2024-05-01", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sum services.DailySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, 2, sum.MealCount)
	assert.Equal(t, 470.0, sum.Summary.Calories)

	// 23:30 UTC is already 2 May in Kolkata
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodGet, "/api/clients/1/summary?date=2024-05-01&tz=Asia/Kolkata", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, 1, sum.MealCount)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodGet, "/api/clients/1/summary?date=May-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authed(t, http.MethodGet, "/api/clients/9/summary", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[error]int{
		apperr.Validation("x", "bad"):                  http.StatusBadRequest,
		apperr.NotFound("meals", 1):                    http.StatusNotFound,
		apperr.Upstream("edamam", 503, errors.New("")): http.StatusBadGateway,
		apperr.Unauthorized("nope"):                    http.StatusUnauthorized,
		errors.New("boom"):                             http.StatusInternalServerError,
	}
	for err, want := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(c, err)
		assert.Equal(t, want, w.Code, err.Error())
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, errors.New("pq: password authentication failed"))
	assert.NotContains(t, w.Body.String(), "password")
}
