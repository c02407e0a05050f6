package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"gorm.io/gorm"

	"mealplanner/config"
	"mealplanner/controllers"
	"mealplanner/models"
	"mealplanner/routes"
	"mealplanner/services"
	"mealplanner/utils"
)

// storeFactory builds the Store for a resource from the configured driver.
type storeFactory struct {
	db      *gorm.DB
	backend *services.BackendClient
}

func newStore[T models.Entity, PT models.Record[T]](f storeFactory, resource string) services.Store[T] {
	if f.db != nil {
		return services.NewGormStore[T, PT](f.db, resource)
	}
	return services.NewBackendStore[T](f.backend, resource)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	config.InitLogger(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	retry := cfg.Retry.Utils()

	var stores storeFactory
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := config.InitDB(cfg.DB)
		if err != nil {
			log.WithError(err).Fatal("connect database")
		}
		stores.db = db
	default:
		stores.backend = services.NewBackendClient(cfg.BackendURL, nil, retry)
	}

	var cache services.Cache = services.NewMemoryCache()
	if cfg.RedisURL != "" {
		rc, err := services.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, caching in memory")
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	var uploader services.Uploader
	if cfg.S3Bucket != "" {
		up, err := utils.NewS3UploaderFromEnv(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.CloudFrontURL)
		if err != nil {
			log.WithError(err).Warn("S3 disabled")
		} else {
			uploader = up
		}
	}
	var mailer services.PlanMailer
	if cfg.SESEmail != "" {
		m, err := utils.NewMailerFromEnv(ctx, cfg.AWSRegion, cfg.SESEmail)
		if err != nil {
			log.WithError(err).Warn("SES disabled")
		} else {
			mailer = m
		}
	}
	rek, err := services.NewRekognitionServiceFromEnv(ctx, cfg.AWSRegion)
	if err != nil {
		log.WithError(err).Warn("image recognition disabled")
		rek = nil
	}

	var llm llms.Model
	if cfg.Assistant.LLMToken != "" {
		m, err := openai.New(
			openai.WithBaseURL(cfg.Assistant.LLMBaseURL),
			openai.WithToken(cfg.Assistant.LLMToken),
			openai.WithModel(cfg.Assistant.LLMModel),
		)
		if err != nil {
			log.WithError(err).Warn("assistant disabled")
		} else {
			llm = m
		}
	}
	var speech services.SpeechSynthesizer
	if cfg.Assistant.SpeechAPIKey != "" {
		speech = services.NewSpeechClient(cfg.Assistant, retry)
	}

	hub := services.NewRealtimeHub()
	clients := services.NewCrudService("clients", newStore[models.Client, *models.Client](stores, "clients"), hub)
	meals := services.NewMealService(
		services.NewCrudService("meals", newStore[models.Meal, *models.Meal](stores, "meals"), hub),
		clients,
	)
	recipes := services.NewRecipeService(
		services.NewCrudService("recipes", newStore[models.Recipe, *models.Recipe](stores, "recipes"), hub),
		uploader,
	)
	edamam := services.NewEdamamService(cfg.Edamam, retry, cache, cfg.CacheTTL)
	ingredients := services.NewIngredientService(
		services.NewCrudService("ingredients", newStore[models.Ingredient, *models.Ingredient](stores, "ingredients"), hub),
		edamam,
	)
	plans := services.NewMealPlanService(services.MealPlanDeps{
		Plans:    services.NewCrudService("meal-plans", newStore[models.MealPlan, *models.MealPlan](stores, "meal-plans"), hub),
		Clients:  clients,
		Meals:    meals,
		Recipes:  recipes.CrudService,
		PDF:      services.NewChromePDFRenderer(cfg.ChromeWSURL),
		Uploader: uploader,
		Mailer:   mailer,
	})
	assistant := services.NewAssistantService(llm, meals, speech)

	h := routes.Handlers{
		Clients:     controllers.NewCrudController[models.Client, *models.Client](clients),
		Meals:       controllers.NewCrudController[models.Meal, *models.Meal](meals),
		MealPlans:   controllers.NewCrudController[models.MealPlan, *models.MealPlan](plans),
		Recipes:     controllers.NewCrudController[models.Recipe, *models.Recipe](recipes),
		Ingredients: controllers.NewCrudController[models.Ingredient, *models.Ingredient](ingredients),
		Summary:     controllers.NewMealController(meals),
		Food:        controllers.NewFoodController(services.NewFoodService(edamam, rek), edamam),
		Recipe:      controllers.NewRecipeController(recipes),
		Plan:        controllers.NewMealPlanController(plans),
		Assistant:   controllers.NewAssistantController(assistant),
		Realtime:    controllers.NewRealtimeController(hub),
	}
	if gin.Mode() == gin.DebugMode {
		h.Dev = controllers.NewDevController([]byte(cfg.JWTSecret))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(h, []byte(cfg.JWTSecret)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithFields(log.Fields{"addr": srv.Addr, "store": cfg.StoreDriver}).Info("meal planner listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
