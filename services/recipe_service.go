package services

import (
	"context"
	"fmt"
	"strings"

	"mealplanner/models"
	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// RecipeService adds photo upload to recipe CRUD.
type RecipeService struct {
	*CrudService[models.Recipe]
	uploader Uploader
}

func NewRecipeService(crud *CrudService[models.Recipe], uploader Uploader) *RecipeService {
	return &RecipeService{CrudService: crud, uploader: uploader}
}

// AttachImage stores a base64 data URI image and points the recipe at it.
func (s *RecipeService) AttachImage(ctx context.Context, cred utils.Credentials, recipeID uint, dataURI string) (models.Recipe, error) {
	if s.uploader == nil {
		return models.Recipe{}, apperr.Validation("image", "image storage is not configured")
	}
	data, contentType, err := decodeDataURI(dataURI)
	if err != nil {
		return models.Recipe{}, err
	}
	ext, ok := imageExt[strings.ToLower(contentType)]
	if !ok {
		return models.Recipe{}, apperr.Validation("image", "unsupported image type %q", contentType)
	}

	recipe, err := s.Get(ctx, cred, recipeID)
	if err != nil {
		return recipe, err
	}
	url, err := s.uploader.Upload(ctx, fmt.Sprintf("recipes/%d", cred.UserID), fmt.Sprintf("recipe-%d", recipe.ID), ext, contentType, data)
	if err != nil {
		return recipe, err
	}
	recipe.Image = url
	return s.Save(ctx, cred, recipe)
}
