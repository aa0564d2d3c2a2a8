package controller

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gartstein/incubator/internal/incubator/db"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Tiers"

var exportHeader = []interface{}{"Qualité", "Identifiant", "Libellé", "Bâtiment", "Formule"}

// Import columns per kind. The first entries are mandatory.
var importColumns = map[models.Kind][]string{
	models.KindIndividual: {"Nom", "Prénom", "Civilité", "Email", "Téléphone"},
	models.KindCorporate:  {"Raison sociale", "SIRET", "Forme juridique", "Secteur"},
}

var requiredColumns = map[models.Kind]int{
	models.KindIndividual: 2,
	models.KindCorporate:  1,
}

// SpreadsheetService exports search results to XLSX and imports tenants from it.
type SpreadsheetService struct {
	repo   Repository
	search *SearchService
	logger *zap.Logger
}

func NewSpreadsheetService(repo Repository, search *SearchService, logger *zap.Logger) *SpreadsheetService {
	return &SpreadsheetService{
		repo:   repo,
		search: search,
		logger: logger.Named("spreadsheet_service"),
	}
}

// Export writes every tenant matching f as a workbook to w.
func (s *SpreadsheetService) Export(ctx context.Context, actor models.Principal, f models.SearchFilter, w io.Writer) error {
	tenants, err := s.search.All(ctx, f)
	if err != nil {
		return err
	}
	buildings, err := s.repo.ListBuildings(ctx, actor.CompanyID)
	if err != nil {
		return wrap("list buildings", err)
	}
	formulas, err := s.repo.ListFormulaTypes(ctx, actor.CompanyID)
	if err != nil {
		return wrap("list formula types", err)
	}
	buildingNames := make(map[uint]string, len(buildings))
	for _, b := range buildings {
		buildingNames[b.ID] = b.Name
	}
	formulaLabels := make(map[uint]string, len(formulas))
	for _, ft := range formulas {
		formulaLabels[ft.ID] = ft.Label
	}

	book := excelize.NewFile()
	defer func() {
		if err := book.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()
	if err := book.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}
	sw, err := book.NewStreamWriter(exportSheet)
	if err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}
	if err := sw.SetRow("A1", exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, t := range tenants {
		formula := ""
		if t.FormulaID != nil {
			formula = formulaLabels[*t.FormulaID]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{string(t.Kind), t.ID, t.Label, buildingNames[t.BatimentID], formula}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Import creates one tenant of kind per data row of the first sheet, all in
// building batimentID and in one transaction. It returns the number created.
func (s *SpreadsheetService) Import(ctx context.Context, actor models.Principal, kind models.Kind, batimentID uint, r io.Reader) (int, error) {
	columns, ok := importColumns[kind]
	if !ok {
		return 0, fmt.Errorf("%w: unknown tenant kind %q", e.ErrInvalidInput, kind)
	}
	book, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("%w: unreadable workbook", e.ErrInvalidInput)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return 0, fmt.Errorf("%w: empty workbook", e.ErrInvalidInput)
	}
	grid, err := book.GetRows(sheets[0])
	if err != nil {
		return 0, fmt.Errorf("%w: unreadable sheet %s", e.ErrInvalidInput, sheets[0])
	}
	if len(grid) == 0 {
		return 0, fmt.Errorf("%w: missing header row", e.ErrInvalidInput)
	}

	index, err := headerIndex(grid[0], columns, requiredColumns[kind])
	if err != nil {
		return 0, err
	}

	created := 0
	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := checkBuilding(ctx, tx, batimentID, actor); err != nil {
			return err
		}
		for n, row := range grid[1:] {
			line := n + 2
			get := func(col string) string {
				i, ok := index[col]
				if !ok || i >= len(row) {
					return ""
				}
				return strings.TrimSpace(row[i])
			}
			if isBlank(row) {
				continue
			}
			if err := s.importRow(ctx, tx, actor, kind, batimentID, get); err != nil {
				return fmt.Errorf("%w (ligne %d)", err, line)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, wrap("import tenants", err)
	}
	s.logger.Info("Tenants imported",
		zap.String("qualite", kind.String()),
		zap.Uint("batiment_id", batimentID),
		zap.Int("count", created),
	)
	return created, nil
}

func (s *SpreadsheetService) importRow(
	ctx context.Context,
	tx *db.Repository,
	actor models.Principal,
	kind models.Kind,
	batimentID uint,
	get func(string) string,
) error {
	switch kind {
	case models.KindIndividual:
		i := &models.Individual{
			CompanyID:  actor.CompanyID,
			BatimentID: batimentID,
			LastName:   get("Nom"),
			FirstName:  get("Prénom"),
			Civility:   get("Civilité"),
			Email:      get("Email"),
			Phone:      get("Téléphone"),
		}
		if i.LastName == "" || i.FirstName == "" {
			return fmt.Errorf("%w: nom and prenom are required", e.ErrInvalidInput)
		}
		stampCreate(&i.Audit, actor)
		return tx.CreateIndividual(ctx, i)
	default:
		c := &models.Corporate{
			CompanyID:  actor.CompanyID,
			BatimentID: batimentID,
			LegalName:  get("Raison sociale"),
			Siret:      get("SIRET"),
			LegalForm:  get("Forme juridique"),
			Sector:     get("Secteur"),
		}
		if c.LegalName == "" {
			return fmt.Errorf("%w: raison_sociale is required", e.ErrInvalidInput)
		}
		if c.Siret != "" && !isSiret(c.Siret) {
			return fmt.Errorf("%w: invalid SIRET %q", e.ErrInvalidInput, c.Siret)
		}
		stampCreate(&c.Audit, actor)
		return tx.CreateCorporate(ctx, c)
	}
}

// headerIndex maps expected column names to their position, ignoring case.
func headerIndex(header []string, columns []string, required int) (map[string]int, error) {
	index := make(map[string]int, len(columns))
	for i, h := range header {
		for _, col := range columns {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				index[col] = i
			}
		}
	}
	for _, col := range columns[:required] {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", e.ErrInvalidInput, col)
		}
	}
	return index, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isSiret(s string) bool {
	if len(s) != 14 {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}
