package controller

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRelationService(t *testing.T) {
	repo := SetupTestRepo(t)
	ctx := context.Background()
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	service := NewRelationService(repo, paris, zaptest.NewLogger(t))
	// 2024-07-01 00:30 in Paris is still 2024-06-30 in UTC.
	service.now = func() time.Time { return time.Date(2024, 6, 30, 22, 30, 0, 0, time.UTC) }

	pp := addIndividual(t, repo, "Gérant")
	pm := addCorporate(t, repo, "Société")
	foreign := &models.Corporate{CompanyID: 2, BatimentID: 99, LegalName: "Ailleurs"}
	require.NoError(t, repo.CreateCorporate(ctx, foreign))

	created, err := service.Create(ctx, admin, models.KindIndividual, pp, &models.Relation{
		CorporateID: pm,
		Type:        "Dirigeant",
		Period:      models.Interval{Begin: mustDate(t, "2024-01-01"), End: datePtr(t, "2024-06-30")},
	})
	require.NoError(t, err)
	assert.Equal(t, pp, created.IndividualID)
	assert.Equal(t, models.RelationExpired, created.Status)

	_, err = service.Create(ctx, admin, models.KindIndividual, pp, &models.Relation{
		CorporateID: foreign.ID,
		Type:        "Associé",
		Period:      models.Interval{Begin: mustDate(t, "2024-01-01")},
	})
	assert.ErrorIs(t, err, e.ErrForbidden)

	_, err = service.Create(ctx, admin, models.KindIndividual, pp, &models.Relation{
		CorporateID: pm,
		Period:      models.Interval{Begin: mustDate(t, "2024-01-01")},
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	created.Period.End = datePtr(t, "2024-07-01")
	updated, err := service.Update(ctx, admin, models.KindCorporate, pm, &created.Relation)
	require.NoError(t, err)
	assert.Equal(t, models.RelationActive, updated.Status)

	list, err := service.List(ctx, models.KindCorporate, pm)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.RelationActive, list[0].Status)

	assert.ErrorIs(t, service.Delete(ctx, models.KindCorporate, pm+1, created.ID), e.ErrNotFound)
	require.NoError(t, service.Delete(ctx, models.KindCorporate, pm, created.ID))
}
