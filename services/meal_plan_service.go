package services

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"mealplanner/models"
	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

// Uploader stores an exported document and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, prefix, name, ext, contentType string, data []byte) (string, error)
}

// PlanMailer delivers a link to an exported plan.
type PlanMailer interface {
	SendMealPlan(ctx context.Context, to, clientName, planName, link string) error
}

// MealPlanService assembles and exports meal plan documents.
type MealPlanService struct {
	*CrudService[models.MealPlan]
	clients  *CrudService[models.Client]
	meals    *MealService
	recipes  *CrudService[models.Recipe]
	pdf      PDFRenderer
	uploader Uploader
	mailer   PlanMailer
}

type MealPlanDeps struct {
	Plans    *CrudService[models.MealPlan]
	Clients  *CrudService[models.Client]
	Meals    *MealService
	Recipes  *CrudService[models.Recipe]
	PDF      PDFRenderer
	Uploader Uploader   // optional
	Mailer   PlanMailer // optional
}

func NewMealPlanService(d MealPlanDeps) *MealPlanService {
	return &MealPlanService{
		CrudService: d.Plans,
		clients:     d.Clients,
		meals:       d.Meals,
		recipes:     d.Recipes,
		pdf:         d.PDF,
		uploader:    d.Uploader,
		mailer:      d.Mailer,
	}
}

type ShareResult struct {
	URL   string `json:"url"`
	Email string `json:"email,omitempty"`
}

// planContext gathers the plan, its client and its meals.
func (s *MealPlanService) planContext(ctx context.Context, cred utils.Credentials, planID uint) (models.MealPlan, *models.Client, []models.Meal, error) {
	plan, err := s.Get(ctx, cred, planID)
	if err != nil {
		return plan, nil, nil, err
	}

	var client *models.Client
	if plan.ClientID != 0 {
		c, err := s.clients.Get(ctx, cred, plan.ClientID)
		switch {
		case err == nil:
			client = &c
		case !apperr.Is(err, apperr.KindNotFound):
			return plan, nil, nil, err
		}
	}

	all, err := s.meals.List(ctx, cred)
	if err != nil {
		return plan, nil, nil, err
	}
	meals := make([]models.Meal, 0, len(all))
	for _, m := range all {
		if m.MealPlanID != nil && *m.MealPlanID == plan.ID {
			meals = append(meals, m)
		}
	}
	return plan, client, meals, nil
}

// Document builds the printable view of a plan. Recipes referenced by its
// meals are included; ones deleted since are skipped.
func (s *MealPlanService) Document(ctx context.Context, cred utils.Credentials, planID uint) (utils.PlanDocument, error) {
	plan, client, meals, err := s.planContext(ctx, cred, planID)
	if err != nil {
		return utils.PlanDocument{}, err
	}

	seen := map[uint]bool{}
	var recipes []models.Recipe
	for _, m := range meals {
		if m.RecipeID == nil || seen[*m.RecipeID] {
			continue
		}
		seen[*m.RecipeID] = true
		r, err := s.recipes.Get(ctx, cred, *m.RecipeID)
		if apperr.Is(err, apperr.KindNotFound) {
			continue
		}
		if err != nil {
			return utils.PlanDocument{}, err
		}
		recipes = append(recipes, r)
	}

	name := ""
	if client != nil {
		name = client.Name
	}
	return utils.BuildPlanDocument(plan, name, meals, recipes), nil
}

func (s *MealPlanService) ExportHTML(ctx context.Context, cred utils.Credentials, planID uint) (string, error) {
	doc, err := s.Document(ctx, cred, planID)
	if err != nil {
		return "", err
	}
	return utils.RenderPlanHTML(doc)
}

func (s *MealPlanService) ExportPDF(ctx context.Context, cred utils.Credentials, planID uint) ([]byte, error) {
	if s.pdf == nil {
		return nil, apperr.Validation("meal-plan", "PDF export is not configured")
	}
	html, err := s.ExportHTML(ctx, cred, planID)
	if err != nil {
		return nil, err
	}
	return s.pdf.RenderPDF(ctx, html)
}

// Share exports the plan as PDF, uploads it and mails the link. The
// recipient defaults to the plan's client.
func (s *MealPlanService) Share(ctx context.Context, cred utils.Credentials, planID uint, email string) (*ShareResult, error) {
	if s.uploader == nil {
		return nil, apperr.Validation("meal-plan", "document storage is not configured")
	}
	plan, client, _, err := s.planContext(ctx, cred, planID)
	if err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	clientName := ""
	if client != nil {
		clientName = client.Name
		if email == "" {
			email = client.Email
		}
	}

	pdf, err := s.ExportPDF(ctx, cred, planID)
	if err != nil {
		return nil, err
	}
	url, err := s.uploader.Upload(ctx, fmt.Sprintf("meal-plans/%d", cred.UserID), fmt.Sprintf("plan-%d", plan.ID), ".pdf", "application/pdf", pdf)
	if err != nil {
		return nil, err
	}

	res := &ShareResult{URL: url}
	if email == "" || s.mailer == nil {
		return res, nil
	}
	if err := s.mailer.SendMealPlan(ctx, email, clientName, plan.Name, url); err != nil {
		log.WithError(err).WithField("plan_id", plan.ID).Error("mail meal plan")
		return res, apperr.Upstream("ses", 0, err)
	}
	res.Email = email
	return res, nil
}
