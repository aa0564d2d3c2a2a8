package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/events"
	"github.com/gartstein/incubator/internal/incubator/metrics"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newFormulaService(t *testing.T) (*FormulaService, *MockProducer, *metrics.Metrics, uint) {
	repo := SetupTestRepo(t)
	producer := &MockProducer{wg: new(sync.WaitGroup)}
	m := metrics.New(nil)
	tenant := addIndividual(t, repo, "Sept")
	return NewFormulaService(repo, producer, m, zaptest.NewLogger(t)), producer, m, tenant
}

// TestFormulaService_OverlapScenario: a tenant holding [2024-01-01, 2024-06-30]
// cannot start an open formula on 2024-05-01 but can on 2024-07-01.
func TestFormulaService_OverlapScenario(t *testing.T) {
	service, producer, m, tenant := newFormulaService(t)
	ctx := context.Background()

	producer.wg.Add(1)
	_, err := service.Create(ctx, admin, models.AssignmentInput{
		Kind: models.KindIndividual, TenantID: tenant, FormulaID: formulaBureau,
		Begin: mustDate(t, "2024-01-01"), End: datePtr(t, "2024-06-30"),
	})
	require.NoError(t, err)
	producer.wg.Wait()

	_, err = service.Create(ctx, admin, models.AssignmentInput{
		Kind: models.KindIndividual, TenantID: tenant, FormulaID: formulaCoworking,
		Begin: mustDate(t, "2024-05-01"),
	})
	assert.ErrorIs(t, err, e.ErrOverlap)
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	list, err := service.List(ctx, models.KindIndividual, tenant)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	producer.wg.Add(1)
	created, err := service.Create(ctx, admin, models.AssignmentInput{
		Kind: models.KindIndividual, TenantID: tenant, FormulaID: formulaCoworking,
		Begin: mustDate(t, "2024-07-01"),
	})
	require.NoError(t, err)
	producer.wg.Wait()
	assert.NotZero(t, created.ID)
	assert.Equal(t, admin.UserID, created.CreationUser)

	list, err = service.List(ctx, models.KindIndividual, tenant)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	produced := producer.Events()
	require.Len(t, produced, 2)
	assert.Equal(t, events.FormulaAssigned, produced[1].Type)
	assert.Equal(t, tenant, produced[1].TenantID)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `incubator_formula_overlap_rejections_total{qualite="PP"} 1`)
}

func TestFormulaService_CreateValidation(t *testing.T) {
	service, _, _, tenant := newFormulaService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input models.AssignmentInput
		want  error
	}{
		{
			name:  "missing begin date",
			input: models.AssignmentInput{Kind: models.KindIndividual, TenantID: tenant, FormulaID: formulaBureau},
			want:  e.ErrInvalidInput,
		},
		{
			name: "end before begin",
			input: models.AssignmentInput{Kind: models.KindIndividual, TenantID: tenant, FormulaID: formulaBureau,
				Begin: mustDate(t, "2024-02-01"), End: datePtr(t, "2024-01-01")},
			want: e.ErrInvalidInput,
		},
		{
			name: "missing formula",
			input: models.AssignmentInput{Kind: models.KindIndividual, TenantID: tenant,
				Begin: mustDate(t, "2024-02-01")},
			want: e.ErrInvalidInput,
		},
		{
			name: "formula of another company",
			input: models.AssignmentInput{Kind: models.KindIndividual, TenantID: tenant, FormulaID: foreignFormula,
				Begin: mustDate(t, "2024-02-01")},
			want: e.ErrInvalidInput,
		},
		{
			name: "unknown tenant",
			input: models.AssignmentInput{Kind: models.KindCorporate, TenantID: 999, FormulaID: formulaBureau,
				Begin: mustDate(t, "2024-02-01")},
			want: e.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, admin, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	list, err := service.List(ctx, models.KindIndividual, tenant)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFormulaService_Update(t *testing.T) {
	service, producer, _, tenant := newFormulaService(t)
	ctx := context.Background()

	producer.wg.Add(2)
	first, err := service.Create(ctx, admin, models.AssignmentInput{
		Kind: models.KindIndividual, TenantID: tenant, FormulaID: formulaBureau,
		Begin: mustDate(t, "2024-01-01"), End: datePtr(t, "2024-03-31"),
	})
	require.NoError(t, err)
	second, err := service.Create(ctx, admin, models.AssignmentInput{
		Kind: models.KindIndividual, TenantID: tenant, FormulaID: formulaBureau,
		Begin: mustDate(t, "2024-04-01"),
	})
	require.NoError(t, err)
	producer.wg.Wait()

	t.Run("same period as before", func(t *testing.T) {
		producer.wg.Add(1)
		updated, err := service.Update(ctx, admin, first.ID, models.AssignmentInput{
			Kind: models.KindIndividual, TenantID: tenant, FormulaID: formulaCoworking,
			Begin: mustDate(t, "2024-01-01"), End: datePtr(t, "2024-03-31"),
		})
		require.NoError(t, err)
		producer.wg.Wait()
		assert.Equal(t, formulaCoworking, updated.FormulaID)
		assert.Equal(t, admin.UserID, updated.UpdateUser)
	})

	t.Run("stretching into the next assignment", func(t *testing.T) {
		_, err := service.Update(ctx, admin, first.ID, models.AssignmentInput{
			Kind: models.KindIndividual, TenantID: tenant, FormulaID: formulaBureau,
			Begin: mustDate(t, "2024-01-01"), End: datePtr(t, "2024-04-01"),
		})
		assert.ErrorIs(t, err, e.ErrOverlap)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		_, err := service.Update(ctx, admin, second.ID+10, models.AssignmentInput{
			Kind: models.KindIndividual, TenantID: tenant, FormulaID: formulaBureau,
			Begin: mustDate(t, "2020-01-01"), End: datePtr(t, "2020-12-31"),
		})
		assert.ErrorIs(t, err, e.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		producer.wg.Add(1)
		require.NoError(t, service.Delete(ctx, admin, models.KindIndividual, tenant, second.ID))
		producer.wg.Wait()

		err := service.Delete(ctx, admin, models.KindIndividual, tenant, second.ID)
		assert.ErrorIs(t, err, e.ErrNotFound)
		last := producer.Events()[len(producer.Events())-1]
		assert.Equal(t, events.FormulaRemoved, last.Type)
	})
}

// TestFormulaService_NoOverlapProperty inserts a fixed sequence of periods and
// checks the accepted set is pairwise disjoint while every rejection overlapped.
func TestFormulaService_NoOverlapProperty(t *testing.T) {
	service, producer, _, tenant := newFormulaService(t)
	ctx := context.Background()

	candidates := []struct{ begin, end string }{
		{"2024-01-01", "2024-01-31"},
		{"2024-01-15", "2024-02-15"},
		{"2024-02-01", "2024-02-29"},
		{"2023-12-01", "2024-01-01"},
		{"2024-03-01", ""},
		{"2025-01-01", "2025-12-31"},
		{"2023-01-01", "2023-11-30"},
	}
	var accepted []models.Interval
	for _, c := range candidates {
		in := models.AssignmentInput{
			Kind: models.KindIndividual, TenantID: tenant, FormulaID: formulaBureau,
			Begin: mustDate(t, c.begin),
		}
		if c.end != "" {
			in.End = datePtr(t, c.end)
		}
		overlapsAccepted := false
		for _, a := range accepted {
			if a.Overlaps(in.Period()) {
				overlapsAccepted = true
			}
		}

		producer.wg.Add(1)
		_, err := service.Create(ctx, admin, in)
		if overlapsAccepted {
			producer.wg.Done()
			assert.True(t, errors.Is(err, e.ErrOverlap), "period %v should be rejected", c)
			continue
		}
		require.NoError(t, err, "period %v should be accepted", c)
		producer.wg.Wait()
		accepted = append(accepted, in.Period())
	}

	stored, err := service.List(ctx, models.KindIndividual, tenant)
	require.NoError(t, err)
	assert.Len(t, stored, len(accepted))
	for i := range stored {
		for j := i + 1; j < len(stored); j++ {
			assert.False(t, stored[i].Period.Overlaps(stored[j].Period))
		}
	}
	assert.Len(t, accepted, 4)
}
