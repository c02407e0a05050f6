package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mealplanner/services"
)

type MealController struct {
	Meals *services.MealService
	now   func() time.Time
}

func NewMealController(meals *services.MealService) *MealController {
	return &MealController{Meals: meals, now: time.Now}
}

// GET /api/clients/:id/summary?date=2024-05-01
// The date is read in the timezone given by ?tz= (IANA name), UTC otherwise.
func (mc *MealController) DailySummary(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	clientID, ok := idParam(c, "id")
	if !ok {
		return
	}

	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tz"})
			return
		}
		loc = l
	}
	day := mc.now().In(loc)
	if d := c.Query("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	out, err := mc.Meals.DailySummary(c.Request.Context(), cred, clientID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/clients/:id/weekly?week_start=2024-06-03
func (mc *MealController) WeeklyOverview(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	clientID, ok := idParam(c, "id")
	if !ok {
		return
	}
	weekStart := mc.now().UTC()
	if v := c.Query("week_start"); v != "" {
		ws, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start"})
			return
		}
		weekStart = ws
	}
	out, err := mc.Meals.WeeklyOverview(c.Request.Context(), cred, clientID, weekStart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
