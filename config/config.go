package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mealplanner/models"
	"mealplanner/utils"
)

// Store drivers.
const (
	StoreBackend  = "backend"
	StorePostgres = "postgres"
)

type Config struct {
	Port     string `env:"PORT,default=8080"`
	GinMode  string `env:"GIN_MODE,default=release"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	JWTSecret string `env:"JWT_SECRET"`

	StoreDriver string `env:"STORE_DRIVER,default=backend"`
	BackendURL  string `env:"BACKEND_URL,default=http://localhost:4000/api"`
	DB          DBConfig

	Edamam EdamamConfig
	Retry  RetryConfig

	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL,default=6h"`

	AWSRegion     string `env:"AWS_REGION,default=ap-south-1"`
	S3Bucket      string `env:"S3_BUCKET"`
	CloudFrontURL string `env:"CLOUDFRONT_URL"`
	SESEmail      string `env:"SES_EMAIL"`

	Assistant AssistantConfig

	ChromeWSURL string `env:"CHROME_WS_URL"`
}

type DBConfig struct {
	Host     string `env:"DB_HOST,default=localhost"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	Port     string `env:"DB_PORT,default=5432"`
}

// DSN is the libpq connection string for gorm's postgres driver.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port)
}

type EdamamConfig struct {
	BaseURL       string  `env:"EDAMAM_BASE_URL,default=https://api.edamam.com"`
	FoodAppID     string  `env:"EDAMAM_APP_ID"`
	FoodAppKey    string  `env:"EDAMAM_APP_KEY"`
	NutriAppID    string  `env:"EDAMAM_NUTRI_APP_ID"`
	NutriAppKey   string  `env:"EDAMAM_NUTRI_APP_KEY"`
	RecipeAppID   string  `env:"EDAMAM_RECIPE_APP_ID"`
	RecipeAppKey  string  `env:"EDAMAM_RECIPE_APP_KEY"`
	RatePerSecond float64 `env:"EDAMAM_RATE_PER_SEC,default=5"`
}

type RetryConfig struct {
	Attempts  int           `env:"RETRY_ATTEMPTS,default=3"`
	BaseDelay time.Duration `env:"RETRY_BASE_DELAY,default=200ms"`
	MaxDelay  time.Duration `env:"RETRY_MAX_DELAY,default=5s"`
}

// Utils converts the env settings into the retry wrapper's config.
func (r RetryConfig) Utils() utils.RetryConfig {
	return utils.RetryConfig{MaxAttempts: r.Attempts, BaseDelay: r.BaseDelay, MaxDelay: r.MaxDelay}
}

type AssistantConfig struct {
	LLMBaseURL   string `env:"LLM_BASE_URL,default=https://openrouter.ai/api/v1"`
	LLMToken     string `env:"LLM_TOKEN"`
	LLMModel     string `env:"LLM_MODEL,default=openai/gpt-4o-mini"`
	SpeechURL    string `env:"SPEECH_URL,default=https://api.elevenlabs.io"`
	SpeechAPIKey string `env:"SPEECH_API_KEY"`
	SpeechVoice  string `env:"SPEECH_VOICE,default=21m00Tcm4TlvDq8ikWAM"`
}

// Load reads an optional .env file and decodes the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case StoreBackend:
		if c.BackendURL == "" {
			return errors.New("BACKEND_URL is required for the backend store")
		}
	case StorePostgres:
		if c.DB.Name == "" {
			return errors.New("DB_NAME is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("server misconfigured: JWT_SECRET not set")
	}
	if c.Retry.Attempts < 1 {
		return errors.New("RETRY_ATTEMPTS must be at least 1")
	}
	return nil
}

// InitLogger configures the global logrus logger.
func InitLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithField("level", level).Warn("unknown LOG_LEVEL, using info")
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// InitDB opens postgres and migrates the planner tables.
func InitDB(d DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(d.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.Client{},
		&models.Meal{},
		&models.MealPlan{},
		&models.Recipe{},
		&models.Ingredient{},
	)
	if err != nil {
		return nil, fmt.Errorf("AutoMigrate failed: %w", err)
	}
	return db, nil
}
