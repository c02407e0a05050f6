package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"mealplanner/config"
	"mealplanner/models"
	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

const (
	edamamParserPath    = "/api/food-database/v2/parser"
	edamamNutrientsPath = "/api/food-database/v2/nutrients"
	edamamRecipesPath   = "/api/recipes/v2"
)

// EdamamService wraps the food database, nutrition and recipe search APIs.
// All calls share one rate limiter so bursts from several users stay under
// the plan's quota.
type EdamamService struct {
	cfg      config.EdamamConfig
	client   *http.Client
	limiter  *rate.Limiter
	retry    utils.RetryConfig
	cache    Cache
	cacheTTL time.Duration
}

func NewEdamamService(cfg config.EdamamConfig, retry utils.RetryConfig, cache Cache, cacheTTL time.Duration) *EdamamService {
	limit, burst := rate.Inf, 1
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		if b := int(cfg.RatePerSecond); b > 1 {
			burst = b
		}
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &EdamamService{
		cfg:      cfg,
		client:   &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(limit, burst),
		retry:    retry,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *EdamamService) endpoint(path, appID, appKey string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	q.Set("app_id", appID)
	q.Set("app_key", appKey)
	return strings.TrimRight(s.cfg.BaseURL, "/") + path + "?" + q.Encode()
}

// call performs one rate-limited, retried request and returns the body.
func (s *EdamamService) call(ctx context.Context, op, method, u string, payload []byte) ([]byte, error) {
	return callUpstream(ctx, s.retry, "edamam", func() ([]byte, error) {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		req, err := newRequest(ctx, method, u, bytesReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%s: build request: %w", op, err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, apperr.Upstream(op, 0, err)
		}
		return readResponse(op, resp, false)
	})
}

type foodParserResponse struct {
	Hints []struct {
		Food struct {
			FoodID    string             `json:"foodId"`
			Label     string             `json:"label"`
			Category  string             `json:"category"`
			Image     string             `json:"image"`
			Nutrients map[string]float64 `json:"nutrients"`
		} `json:"food"`
		Measures []struct {
			URI    string  `json:"uri"`
			Label  string  `json:"label"`
			Weight float64 `json:"weight"`
		} `json:"measures"`
	} `json:"hints"`
}

// SearchFoods calls the parser endpoint. Results are cached per query.
func (s *EdamamService) SearchFoods(ctx context.Context, query string) ([]models.FoodItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("edamam food search", "query is required")
	}
	key := "edamam:food:" + strings.ToLower(query)
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		log.WithError(err).Warn("food cache read failed")
	} else if ok {
		var cached []models.FoodItem
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	u := s.endpoint(edamamParserPath, s.cfg.FoodAppID, s.cfg.FoodAppKey, url.Values{"ingr": {query}})
	body, err := s.call(ctx, "edamam parser", http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var pr foodParserResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, apperr.Upstream("edamam parser", 0, fmt.Errorf("decode: %w", err))
	}
	results := make([]models.FoodItem, 0, len(pr.Hints))
	for _, h := range pr.Hints {
		item := models.FoodItem{
			FoodID:    h.Food.FoodID,
			Label:     h.Food.Label,
			Category:  h.Food.Category,
			Image:     h.Food.Image,
			Nutrients: h.Food.Nutrients,
		}
		for _, m := range h.Measures {
			item.Measures = append(item.Measures, models.Measure{URI: m.URI, Label: m.Label, Weight: m.Weight})
		}
		results = append(results, item)
	}

	if raw, err := json.Marshal(results); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
			log.WithError(err).Warn("food cache write failed")
		}
	}
	return results, nil
}

type nutritionResponse struct {
	Ingredients []struct {
		Parsed []struct {
			Food         string `json:"food"`
			FoodID       string `json:"foodId"`
			FoodCategory string `json:"foodCategory,omitempty"`
		} `json:"parsed"`
	} `json:"ingredients"`
	TotalNutrients map[string]struct {
		Quantity float64 `json:"quantity"`
	} `json:"totalNutrients"`
}

// AnalyzeFood returns the nutrients of qty measures of a food, plus the food
// label and category when Edamam reports them.
func (s *EdamamService) AnalyzeFood(ctx context.Context, foodID, measureURI string, qty float64) (models.Nutrients, *models.FoodItem, error) {
	if foodID == "" || measureURI == "" || qty <= 0 {
		return nil, nil, apperr.Validation("edamam nutrients", "food_id, measure_uri and positive quantity are required")
	}
	payload, err := json.Marshal(map[string]any{
		"ingredients": []map[string]any{{
			"quantity":   qty,
			"measureURI": measureURI,
			"foodId":     foodID,
		}},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("encode nutrition payload: %w", err)
	}

	u := s.endpoint(edamamNutrientsPath, s.cfg.NutriAppID, s.cfg.NutriAppKey, nil)
	body, err := s.call(ctx, "edamam nutrients", http.MethodPost, u, payload)
	if err != nil {
		return nil, nil, err
	}

	var nr nutritionResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, nil, apperr.Upstream("edamam nutrients", 0, fmt.Errorf("decode: %w", err))
	}
	nut := make(models.Nutrients, len(nr.TotalNutrients))
	for k, v := range nr.TotalNutrients {
		nut[k] = v.Quantity
	}

	var info *models.FoodItem
	if len(nr.Ingredients) > 0 && len(nr.Ingredients[0].Parsed) > 0 {
		p := nr.Ingredients[0].Parsed[0]
		info = &models.FoodItem{FoodID: p.FoodID, Label: p.Food, Category: p.FoodCategory}
	}
	return nut, info, nil
}

// SearchRecipes queries recipe search v2 and maps hits to unsaved recipes.
func (s *EdamamService) SearchRecipes(ctx context.Context, query string) ([]models.Recipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("edamam recipe search", "query is required")
	}
	q := url.Values{"type": {"public"}, "q": {query}}
	u := s.endpoint(edamamRecipesPath, s.cfg.RecipeAppID, s.cfg.RecipeAppKey, q)
	body, err := s.call(ctx, "edamam recipes", http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, apperr.Upstream("edamam recipes", 0, fmt.Errorf("invalid JSON"))
	}

	hits := gjson.GetBytes(body, "hits.#.recipe").Array()
	recipes := make([]models.Recipe, 0, len(hits))
	for _, r := range hits {
		rec := models.Recipe{
			Label:     r.Get("label").String(),
			Source:    r.Get("source").String(),
			URL:       r.Get("url").String(),
			Image:     r.Get("image").String(),
			Yield:     r.Get("yield").Float(),
			EdamamURI: r.Get("uri").String(),
			Nutrients: models.Nutrients{},
		}
		for _, line := range r.Get("ingredientLines").Array() {
			rec.IngredientLines = append(rec.IngredientLines, line.String())
		}
		r.Get("totalNutrients").ForEach(func(tag, v gjson.Result) bool {
			rec.Nutrients[tag.String()] = v.Get("quantity").Float()
			return true
		})
		recipes = append(recipes, rec)
	}
	return recipes, nil
}
