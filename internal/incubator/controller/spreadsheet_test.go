package controller

import (
	"bytes"
	"context"
	"testing"

	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf := new(bytes.Buffer)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf
}

func TestSpreadsheetService_Import(t *testing.T) {
	repo := SetupTestRepo(t)
	logger := zaptest.NewLogger(t)
	service := NewSpreadsheetService(repo, NewSearchService(repo, logger), logger)
	ctx := context.Background()

	t.Run("individuals", func(t *testing.T) {
		book := workbook(t, [][]interface{}{
			{"Civilité", "Nom", "Prénom", "Email"},
			{"Mme", "Leclerc", "Nina", "nina@example.com"},
			{},
			{"M.", "Faure", "Tom", ""},
		})
		n, err := service.Import(ctx, admin, models.KindIndividual, testBuilding, book)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("malformed row aborts everything", func(t *testing.T) {
		book := workbook(t, [][]interface{}{
			{"Raison sociale", "SIRET"},
			{"Valide", "12345678901234"},
			{"Invalide", "123"},
		})
		_, err := service.Import(ctx, admin, models.KindCorporate, testBuilding, book)
		assert.ErrorIs(t, err, e.ErrInvalidInput)
		assert.Contains(t, err.Error(), "ligne 3")

		total, err := repo.CountTenants(ctx, &models.SearchFilter{BatimentID: testBuilding, Kinds: []models.Kind{models.KindCorporate}})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("missing column", func(t *testing.T) {
		book := workbook(t, [][]interface{}{{"SIRET"}, {"12345678901234"}})
		_, err := service.Import(ctx, admin, models.KindCorporate, testBuilding, book)
		assert.ErrorIs(t, err, e.ErrInvalidInput)
	})

	t.Run("foreign building", func(t *testing.T) {
		book := workbook(t, [][]interface{}{{"Raison sociale"}, {"Ailleurs"}})
		_, err := service.Import(ctx, outsider, models.KindCorporate, testBuilding, book)
		assert.ErrorIs(t, err, e.ErrForbidden)
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := service.Import(ctx, admin, models.KindCorporate, testBuilding, bytes.NewBufferString("plain text"))
		assert.ErrorIs(t, err, e.ErrInvalidInput)
	})
}

func TestSpreadsheetService_Export(t *testing.T) {
	repo := SetupTestRepo(t)
	logger := zaptest.NewLogger(t)
	service := NewSpreadsheetService(repo, NewSearchService(repo, logger), logger)
	ctx := context.Background()

	pm := addCorporate(t, repo, "Export SA")
	require.NoError(t, repo.CreateAssignment(ctx, &models.Assignment{
		Kind: models.KindCorporate, TenantID: pm, FormulaID: formulaCoworking,
		Period: models.Interval{Begin: mustDate(t, "2024-01-01")},
	}))
	formula := formulaCoworking

	buf := new(bytes.Buffer)
	err := service.Export(ctx, admin, models.SearchFilter{BatimentID: testBuilding, FormulaID: &formula}, buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Qualité", "Identifiant", "Libellé", "Bâtiment", "Formule"}, rows[0])
	assert.Equal(t, []string{"PM", "1", "Export SA", "Pépinière", "Coworking"}, rows[1])
}
