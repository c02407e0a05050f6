package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplanner/models"
	"mealplanner/utils/apperr"
)

type fakePDF struct{ html string }

func (f *fakePDF) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF-1.4"), nil
}

type fakeUploader struct {
	prefix, name string
	data         []byte
}

func (f *fakeUploader) Upload(_ context.Context, prefix, name, ext, _ string, data []byte) (string, error) {
	f.prefix, f.name, f.data = prefix, name, data
	return "https://cdn.example.com/" + prefix + "/" + name + ext, nil
}

type fakeMailer struct {
	to, client, plan, link string
	err                    error
}

func (f *fakeMailer) SendMealPlan(_ context.Context, to, clientName, planName, link string) error {
	f.to, f.client, f.plan, f.link = to, clientName, planName, link
	return f.err
}

func uintPtr(v uint) *uint { return &v }

func newPlanService(pdf PDFRenderer, up Uploader, mail PlanMailer) *MealPlanService {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	clients := NewCrudService[models.Client]("clients", newMemStore[models.Client, *models.Client](
		models.Client{ID: 1, Name: "Ada", Email: "ada@example.com"},
	), nil)
	meals, _ := newMealCrud(nil,
		models.Meal{ID: 1, ClientID: 1, MealPlanID: uintPtr(9), RecipeID: uintPtr(5), Name: "Shakshuka", Type: "breakfast", Date: day.Add(8 * time.Hour), Nutrients: models.Nutrients{"ENERC_KCAL": 410}},
		models.Meal{ID: 2, ClientID: 1, MealPlanID: uintPtr(9), RecipeID: uintPtr(6), Name: "Lentil soup", Type: "dinner", Date: day.Add(19 * time.Hour), Nutrients: models.Nutrients{"ENERC_KCAL": 380}},
		models.Meal{ID: 3, ClientID: 1, Name: "Unplanned snack", Date: day.Add(15 * time.Hour)},
	)
	recipes := NewCrudService[models.Recipe]("recipes", newMemStore[models.Recipe, *models.Recipe](
		models.Recipe{ID: 5, Label: "Shakshuka", Instructions: `<p>Simmer.</p><script>alert(1)</script>`},
	), nil)
	plans := NewCrudService[models.MealPlan]("meal-plans", newMemStore[models.MealPlan, *models.MealPlan](
		models.MealPlan{ID: 9, ClientID: 1, Name: "Week 23", StartDate: day, EndDate: day.AddDate(0, 0, 6)},
	), nil)
	return NewMealPlanService(MealPlanDeps{
		Plans:    plans,
		Clients:  clients,
		Meals:    NewMealService(meals, clients),
		Recipes:  recipes,
		PDF:      pdf,
		Uploader: up,
		Mailer:   mail,
	})
}

func TestMealPlanService_Document(t *testing.T) {
	svc := newPlanService(nil, nil, nil)
	doc, err := svc.Document(context.Background(), testCred, 9)
	require.NoError(t, err)
	assert.Equal(t, "Week 23", doc.Title)
	assert.Equal(t, "Ada", doc.ClientName)
	require.Len(t, doc.Days, 1)
	assert.Len(t, doc.Days[0].Meals, 2)
	assert.Equal(t, 790.0, doc.Days[0].Totals["ENERC_KCAL"])
	// recipe 6 no longer exists
	require.Len(t, doc.Recipes, 1)
	assert.Equal(t, "Shakshuka", doc.Recipes[0].Label)
}

func TestMealPlanService_ExportHTML(t *testing.T) {
	html, err := newPlanService(nil, nil, nil).ExportHTML(context.Background(), testCred, 9)
	require.NoError(t, err)
	assert.Contains(t, html, "Week 23")
	assert.Contains(t, html, "Lentil soup")
	assert.NotContains(t, html, "Unplanned snack")
	assert.NotContains(t, strings.ToLower(html), "<script")
}

func TestMealPlanService_MissingPlan(t *testing.T) {
	_, err := newPlanService(nil, nil, nil).ExportHTML(context.Background(), testCred, 404)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMealPlanService_Share(t *testing.T) {
	pdf, up, mail := &fakePDF{}, &fakeUploader{}, &fakeMailer{}
	svc := newPlanService(pdf, up, mail)

	res, err := svc.Share(context.Background(), testCred, 9, "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/meal-plans/7/plan-9.pdf", res.URL)
	assert.Equal(t, "ada@example.com", res.Email)
	assert.Equal(t, []byte("%PDF-1.4"), up.data)
	assert.Contains(t, pdf.html, "Week 23")
	assert.Equal(t, "ada@example.com", mail.to)
	assert.Equal(t, "Ada", mail.client)
	assert.Equal(t, res.URL, mail.link)
}

func TestMealPlanService_ShareMailFailure(t *testing.T) {
	mail := &fakeMailer{err: errors.New("throttled")}
	svc := newPlanService(&fakePDF{}, &fakeUploader{}, mail)
	res, err := svc.Share(context.Background(), testCred, 9, "coach@example.com")
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	// the PDF is already uploaded, so the link comes back with the error
	require.NotNil(t, res)
	assert.Equal(t, "https://cdn.example.com/meal-plans/7/plan-9.pdf", res.URL)
	assert.Empty(t, res.Email)
	assert.Equal(t, "coach@example.com", mail.to)
}

func TestMealPlanService_ShareUnconfigured(t *testing.T) {
	_, err := newPlanService(&fakePDF{}, nil, nil).Share(context.Background(), testCred, 9, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = newPlanService(nil, &fakeUploader{}, nil).ExportPDF(context.Background(), testCred, 9)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
