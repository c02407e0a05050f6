package services

import (
	"context"

	"mealplanner/models"
	"mealplanner/utils"
)

// IngredientService fills in nutrients and labels from Edamam before an
// ingredient is stored.
type IngredientService struct {
	*CrudService[models.Ingredient]
	eda *EdamamService
}

func NewIngredientService(crud *CrudService[models.Ingredient], eda *EdamamService) *IngredientService {
	return &IngredientService{CrudService: crud, eda: eda}
}

// enrich analyzes the ingredient when it has no nutrients yet, or when
// quantity or measure changed since they were computed.
func (s *IngredientService) enrich(ctx context.Context, cred utils.Credentials, in models.Ingredient) (models.Ingredient, error) {
	if err := in.Validate(); err != nil {
		return in, err
	}
	if len(in.Nutrients) > 0 && in.Label != "" && !s.changed(ctx, cred, in) {
		return in, nil
	}
	nut, info, err := s.eda.AnalyzeFood(ctx, in.FoodID, in.MeasureURI, in.Quantity)
	if err != nil {
		return in, err
	}
	in.Nutrients = nut
	if in.Label == "" {
		in.Label = in.FoodID
		if info != nil && info.Label != "" {
			in.Label = info.Label
		}
	}
	return in, nil
}

func (s *IngredientService) changed(ctx context.Context, cred utils.Credentials, in models.Ingredient) bool {
	if in.ID == 0 {
		return false
	}
	prev, err := s.CrudService.Get(ctx, cred, in.ID)
	if err != nil {
		return false
	}
	return prev.FoodID != in.FoodID || prev.MeasureURI != in.MeasureURI || prev.Quantity != in.Quantity
}

func (s *IngredientService) Save(ctx context.Context, cred utils.Credentials, in models.Ingredient) (models.Ingredient, error) {
	in, err := s.enrich(ctx, cred, in)
	if err != nil {
		return in, err
	}
	return s.CrudService.Save(ctx, cred, in)
}

func (s *IngredientService) Apply(ctx context.Context, cred utils.Credentials, current []models.Ingredient, action utils.Action[models.Ingredient]) ([]models.Ingredient, error) {
	if action.Kind == utils.ActionUpsert {
		item, err := s.enrich(ctx, cred, action.Item)
		if err != nil {
			return nil, err
		}
		action.Item = item
	}
	return s.CrudService.Apply(ctx, cred, current, action)
}
