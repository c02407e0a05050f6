package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealplanner/controllers"
	"mealplanner/metrics"
	"mealplanner/middlewares"
	"mealplanner/models"
)

// Route names every endpoint group the router serves.
type Route int

const (
	RouteHealth Route = iota
	RouteMetrics
	RouteDevToken
	RouteClients
	RouteMeals
	RouteMealPlans
	RouteRecipes
	RouteIngredients
	RouteClientSummary
	RouteClientWeekly
	RouteFoodSearch
	RouteFoodRecognize
	RouteFoodAnalyze
	RouteRecipeSearch
	RouteRecipeImage
	RouteMealPlanHTML
	RouteMealPlanPDF
	RouteMealPlanShare
	RouteAssistant
	RouteAssistantHistory
	RouteRealtime
	routeCount
)

var routePaths = [routeCount]string{
	RouteHealth:           "/healthz",
	RouteMetrics:          "/metrics",
	RouteDevToken:         "/dev/token",
	RouteClients:          "/api/clients",
	RouteMeals:            "/api/meals",
	RouteMealPlans:        "/api/meal-plans",
	RouteRecipes:          "/api/recipes",
	RouteIngredients:      "/api/ingredients",
	RouteClientSummary:    "/api/clients/:id/summary",
	RouteClientWeekly:     "/api/clients/:id/weekly",
	RouteFoodSearch:       "/api/food/search",
	RouteFoodRecognize:    "/api/food/recognize",
	RouteFoodAnalyze:      "/api/food/analyze",
	RouteRecipeSearch:     "/api/recipes/search",
	RouteRecipeImage:      "/api/recipes/:id/image",
	RouteMealPlanHTML:     "/api/meal-plans/:id/html",
	RouteMealPlanPDF:      "/api/meal-plans/:id/pdf",
	RouteMealPlanShare:    "/api/meal-plans/:id/share",
	RouteAssistant:        "/api/assistant",
	RouteAssistantHistory: "/api/assistant/history",
	RouteRealtime:         "/api/ws",
}

// Path returns the route's URL pattern.
func (r Route) Path() string {
	if r < 0 || r >= routeCount {
		return ""
	}
	return routePaths[r]
}

// Handlers bundles the controllers the router mounts.
type Handlers struct {
	Clients     *controllers.CrudController[models.Client, *models.Client]
	Meals       *controllers.CrudController[models.Meal, *models.Meal]
	MealPlans   *controllers.CrudController[models.MealPlan, *models.MealPlan]
	Recipes     *controllers.CrudController[models.Recipe, *models.Recipe]
	Ingredients *controllers.CrudController[models.Ingredient, *models.Ingredient]

	Summary   *controllers.MealController
	Food      *controllers.FoodController
	Recipe    *controllers.RecipeController
	Plan      *controllers.MealPlanController
	Assistant *controllers.AssistantController
	Realtime  *controllers.RealtimeController
	Dev       *controllers.DevController // nil outside debug mode
}

// crudRoutes is the handler set shared by every stored resource.
type crudRoutes interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
	Sync(*gin.Context)
}

func mountCrud(g *gin.RouterGroup, path string, h crudRoutes) {
	g.GET(path, h.List)
	g.POST(path, h.Create)
	g.POST(path+"/sync", h.Sync)
	g.GET(path+"/:id", h.Get)
	g.PUT(path+"/:id", h.Update)
	g.DELETE(path+"/:id", h.Delete)
}

func SetupRouter(h Handlers, secret []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestID(), middlewares.Logger())

	r.GET(RouteHealth.Path(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET(RouteMetrics.Path(), gin.WrapH(metrics.Handler()))
	if h.Dev != nil {
		r.POST(RouteDevToken.Path(), h.Dev.Token)
	}

	api := r.Group("")
	api.Use(middlewares.AuthMiddleware(secret))
	{
		mountCrud(api, RouteClients.Path(), h.Clients)
		mountCrud(api, RouteMeals.Path(), h.Meals)
		mountCrud(api, RouteMealPlans.Path(), h.MealPlans)
		mountCrud(api, RouteRecipes.Path(), h.Recipes)
		mountCrud(api, RouteIngredients.Path(), h.Ingredients)

		api.GET(RouteClientSummary.Path(), h.Summary.DailySummary)
		api.GET(RouteClientWeekly.Path(), h.Summary.WeeklyOverview)

		api.GET(RouteFoodSearch.Path(), h.Food.Search)
		api.POST(RouteFoodRecognize.Path(), h.Food.Recognize)
		api.POST(RouteFoodAnalyze.Path(), h.Food.Analyze)
		api.GET(RouteRecipeSearch.Path(), h.Food.SearchRecipes)
		api.POST(RouteRecipeImage.Path(), h.Recipe.UploadImage)

		api.GET(RouteMealPlanHTML.Path(), h.Plan.HTML)
		api.GET(RouteMealPlanPDF.Path(), h.Plan.PDF)
		api.POST(RouteMealPlanShare.Path(), h.Plan.Share)

		api.POST(RouteAssistant.Path(), h.Assistant.Ask)
		api.DELETE(RouteAssistantHistory.Path(), h.Assistant.Forget)

		api.GET(RouteRealtime.Path(), h.Realtime.Changes)
	}
	return r
}
