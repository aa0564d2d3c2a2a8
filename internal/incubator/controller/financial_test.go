package controller

import (
	"context"
	"sync"
	"testing"

	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/events"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestFinancialService_Workforce(t *testing.T) {
	repo := SetupTestRepo(t)
	producer := &MockProducer{wg: new(sync.WaitGroup)}
	service := NewFinancialService(repo, producer, zaptest.NewLogger(t))
	ctx := context.Background()
	pm := addCorporate(t, repo, "Effectifs SA")
	pp := addIndividual(t, repo, "Seul")

	producer.wg.Add(1)
	err := service.CreateWorkforce(ctx, admin, models.KindCorporate, &models.Workforce{TenantID: pm, Year: 2023, Permanent: 3, FixedTerm: 1})
	require.NoError(t, err)
	producer.wg.Wait()
	assert.Equal(t, events.WorkforceRecorded, producer.Events()[0].Type)

	err = service.CreateWorkforce(ctx, admin, models.KindCorporate, &models.Workforce{TenantID: pm, Year: 2023})
	assert.ErrorIs(t, err, e.ErrConflict)
	assert.Contains(t, err.Error(), "already exists")

	err = service.CreateWorkforce(ctx, admin, models.KindIndividual, &models.Workforce{TenantID: pp, Year: 2023})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	err = service.CreateWorkforce(ctx, admin, models.KindCorporate, &models.Workforce{TenantID: pm, Year: 2024, Other: -1})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	err = service.UpdateWorkforce(ctx, admin, models.KindCorporate, &models.Workforce{TenantID: pm, Year: 2019, Permanent: 1})
	assert.ErrorIs(t, err, e.ErrNotFound)

	producer.wg.Add(1)
	err = service.UpdateWorkforce(ctx, admin, models.KindCorporate, &models.Workforce{TenantID: pm, Year: 2023, Permanent: 8})
	require.NoError(t, err)
	producer.wg.Wait()

	list, err := service.ListWorkforce(ctx, models.KindCorporate, pm)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 8, list[0].Total())
	assert.Equal(t, admin.UserID, list[0].UpdateUser)

	require.NoError(t, service.DeleteWorkforce(ctx, models.KindCorporate, pm, 2023))
	assert.ErrorIs(t, service.DeleteWorkforce(ctx, models.KindCorporate, pm, 2023), e.ErrNotFound)
}

func TestFinancialService_Revenue(t *testing.T) {
	repo := SetupTestRepo(t)
	producer := &MockProducer{wg: new(sync.WaitGroup)}
	service := NewFinancialService(repo, producer, zaptest.NewLogger(t))
	ctx := context.Background()
	pm := addCorporate(t, repo, "CA SARL")

	producer.wg.Add(1)
	amount := decimal.RequireFromString("125000.75")
	require.NoError(t, service.CreateRevenue(ctx, admin, models.KindCorporate, &models.Revenue{TenantID: pm, Year: 2022, Amount: amount}))
	producer.wg.Wait()

	err := service.CreateRevenue(ctx, admin, models.KindCorporate, &models.Revenue{TenantID: pm, Year: 2022})
	assert.ErrorIs(t, err, e.ErrConflict)

	err = service.CreateRevenue(ctx, admin, models.KindCorporate, &models.Revenue{TenantID: pm, Year: 1800})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	list, err := service.ListRevenue(ctx, models.KindCorporate, pm)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, amount.Equal(list[0].Amount))

	assert.ErrorIs(t, service.DeleteRevenue(ctx, models.KindCorporate, pm, 2021), e.ErrNotFound)
}

// TestFinancialService_RecordExit checks two writes leave one row with the
// second values.
func TestFinancialService_RecordExit(t *testing.T) {
	repo := SetupTestRepo(t)
	producer := &MockProducer{wg: new(sync.WaitGroup)}
	service := NewFinancialService(repo, producer, zaptest.NewLogger(t))
	ctx := context.Background()
	pp := addIndividual(t, repo, "Sortant")

	for _, reason := range []string{"fin de programme", "création d'entreprise"} {
		producer.wg.Add(1)
		err := service.RecordExit(ctx, admin, &models.Exit{
			Kind: models.KindIndividual, TenantID: pp, Date: mustDate(t, "2024-06-30"), Reason: reason,
		})
		require.NoError(t, err)
		producer.wg.Wait()
	}

	count, err := repo.CountExits(ctx, models.KindIndividual, pp)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := service.GetExit(ctx, models.KindIndividual, pp)
	require.NoError(t, err)
	assert.Equal(t, "création d'entreprise", got.Reason)
	assert.Len(t, producer.Events(), 2)

	err = service.RecordExit(ctx, admin, &models.Exit{Kind: models.KindIndividual, TenantID: pp})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestFinancialService_PostIncubationAndFirstMeeting(t *testing.T) {
	repo := SetupTestRepo(t)
	service := NewFinancialService(repo, &MockProducer{}, zaptest.NewLogger(t))
	ctx := context.Background()
	pp := addIndividual(t, repo, "Suivi")
	pm := addCorporate(t, repo, "Après SA")

	require.NoError(t, service.RecordPostIncubation(ctx, admin, &models.PostIncubation{Kind: models.KindCorporate, TenantID: pm, Status: "En activité"}))
	require.NoError(t, service.RecordPostIncubation(ctx, admin, &models.PostIncubation{Kind: models.KindCorporate, TenantID: pm, Status: "Cédée"}))
	got, err := service.GetPostIncubation(ctx, models.KindCorporate, pm)
	require.NoError(t, err)
	assert.Equal(t, "Cédée", got.Status)

	assert.ErrorIs(t, service.RecordPostIncubation(ctx, admin, &models.PostIncubation{Kind: models.KindCorporate, TenantID: pm}), e.ErrInvalidInput)

	require.NoError(t, service.RecordFirstMeeting(ctx, admin, models.KindIndividual, &models.FirstMeeting{TenantID: pp, Date: mustDate(t, "2024-01-05"), Channel: "mail"}))
	meeting, err := service.GetFirstMeeting(ctx, models.KindIndividual, pp)
	require.NoError(t, err)
	assert.Equal(t, "mail", meeting.Channel)

	err = service.RecordFirstMeeting(ctx, admin, models.KindCorporate, &models.FirstMeeting{TenantID: pm, Date: mustDate(t, "2024-01-05")})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	_, err = service.GetFirstMeeting(ctx, models.KindIndividual, pp+100)
	assert.ErrorIs(t, err, e.ErrNotFound)
}
