package services

import (
	"context"

	"mealplanner/models"
	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

type FoodService struct {
	eda *EdamamService
	rek *RekognitionService
}

type FoodInfo struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

type NutritionPreview struct {
	Food       FoodInfo           `json:"food"`
	MeasureURI string             `json:"measure_uri"`
	Quantity   float64            `json:"quantity"`
	Nutrients  models.Nutrients   `json:"nutrients"`
	Summary    utils.MacroSummary `json:"summary"`
}

// NewFoodService takes a nil rek when image recognition is not configured.
func NewFoodService(eda *EdamamService, rek *RekognitionService) *FoodService {
	return &FoodService{eda: eda, rek: rek}
}

func (s *FoodService) Search(ctx context.Context, query string) ([]models.FoodItem, error) {
	return s.eda.SearchFoods(ctx, query)
}

// Recognize names the food in a photo and searches for the best label.
func (s *FoodService) Recognize(ctx context.Context, dataURI string) ([]models.FoodItem, error) {
	if s.rek == nil {
		return nil, apperr.Validation("recognize", "image recognition is not configured")
	}
	labels, err := s.rek.RecognizeLabels(ctx, dataURI)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return []models.FoodItem{}, nil
	}
	return s.eda.SearchFoods(ctx, labels[0])
}

func (s *FoodService) AnalyzePreview(ctx context.Context, foodID, measureURI string, qty float64) (*NutritionPreview, error) {
	nut, fi, err := s.eda.AnalyzeFood(ctx, foodID, measureURI, qty)
	if err != nil {
		return nil, err
	}

	info := FoodInfo{ID: foodID}
	if fi != nil {
		info.Label = fi.Label
		info.Category = fi.Category
	}
	return &NutritionPreview{
		Food:       info,
		MeasureURI: measureURI,
		Quantity:   qty,
		Nutrients:  nut,
		Summary:    utils.NutrientTotals(nut).Summary(),
	}, nil
}
