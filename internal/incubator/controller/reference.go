package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/gartstein/incubator/internal/incubator/db"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
	"go.uber.org/zap"
)

// ReferenceService serves the per-company catalogs: buildings and formula types.
type ReferenceService struct {
	repo   Repository
	logger *zap.Logger
}

func NewReferenceService(repo Repository, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{repo: repo, logger: logger.Named("reference_service")}
}

func (s *ReferenceService) ListBuildings(ctx context.Context, actor models.Principal) ([]models.Building, error) {
	list, err := s.repo.ListBuildings(ctx, actor.CompanyID)
	return list, wrap("list buildings", err)
}

func (s *ReferenceService) CreateBuilding(ctx context.Context, actor models.Principal, b *models.Building) (*models.Building, error) {
	if strings.TrimSpace(b.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	b.ID = 0
	b.CompanyID = actor.CompanyID
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.CreateBuilding(ctx, b)
	})
	if err != nil {
		return nil, wrap("create building", err)
	}
	return b, nil
}

func (s *ReferenceService) ListFormulaTypes(ctx context.Context, actor models.Principal) ([]models.FormulaType, error) {
	list, err := s.repo.ListFormulaTypes(ctx, actor.CompanyID)
	return list, wrap("list formula types", err)
}

func (s *ReferenceService) CreateFormulaType(ctx context.Context, actor models.Principal, f *models.FormulaType) (*models.FormulaType, error) {
	if strings.TrimSpace(f.Label) == "" {
		return nil, fmt.Errorf("%w: libelle is required", e.ErrInvalidInput)
	}
	f.ID = 0
	f.CompanyID = actor.CompanyID
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.CreateFormulaType(ctx, f)
	})
	if err != nil {
		return nil, wrap("create formula type", err)
	}
	return f, nil
}
