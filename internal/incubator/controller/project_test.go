package controller

import (
	"context"
	"testing"

	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestProjectService_Lifecycle(t *testing.T) {
	repo := SetupTestRepo(t)
	service := NewProjectService(repo, zaptest.NewLogger(t))
	ctx := context.Background()
	pp := addIndividual(t, repo, "Porteur")

	created, err := service.Create(ctx, admin, models.KindIndividual, &models.Project{
		TenantID: pp, Title: "Atelier vélo", StartDate: datePtr(t, "2024-02-01"), Status: "en cours",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, admin.UserID, created.CreationUser)

	created.Title = "Atelier vélo solidaire"
	require.NoError(t, service.Update(ctx, admin, models.KindIndividual, created))

	list, err := service.List(ctx, models.KindIndividual, pp)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Atelier vélo solidaire", list[0].Title)

	require.NoError(t, service.Delete(ctx, models.KindIndividual, pp, created.ID))
	err = service.Delete(ctx, models.KindIndividual, pp, created.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestProjectService_Rejections(t *testing.T) {
	repo := SetupTestRepo(t)
	service := NewProjectService(repo, zaptest.NewLogger(t))
	ctx := context.Background()
	pp := addIndividual(t, repo, "Porteur")

	_, err := service.Create(ctx, admin, models.KindCorporate, &models.Project{TenantID: pp, Title: "x"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, err = service.Create(ctx, admin, models.KindIndividual, &models.Project{TenantID: pp, Title: "  "})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	err = service.Update(ctx, admin, models.KindIndividual, &models.Project{ID: 42, TenantID: pp, Title: "x"})
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = service.List(ctx, models.KindCorporate, pp)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestReferenceService_ScopedToCompany(t *testing.T) {
	repo := SetupTestRepo(t)
	service := NewReferenceService(repo, zaptest.NewLogger(t))
	ctx := context.Background()

	b, err := service.CreateBuilding(ctx, outsider, &models.Building{CompanyID: 1, Name: "Annexe"})
	require.NoError(t, err)
	assert.Equal(t, outsider.CompanyID, b.CompanyID)

	_, err = service.CreateBuilding(ctx, admin, &models.Building{Name: ""})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	buildings, err := service.ListBuildings(ctx, admin)
	require.NoError(t, err)
	require.Len(t, buildings, 1)
	assert.Equal(t, "Pépinière", buildings[0].Name)

	_, err = service.CreateFormulaType(ctx, admin, &models.FormulaType{Label: "Domiciliation"})
	require.NoError(t, err)
	_, err = service.CreateFormulaType(ctx, admin, &models.FormulaType{})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	formulas, err := service.ListFormulaTypes(ctx, admin)
	require.NoError(t, err)
	labels := make([]string, 0, len(formulas))
	for _, f := range formulas {
		labels = append(labels, f.Label)
	}
	assert.Equal(t, []string{"Bureau", "Coworking", "Domiciliation"}, labels)
}
