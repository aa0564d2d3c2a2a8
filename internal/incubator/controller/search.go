package controller

import (
	"context"
	"fmt"

	"github.com/gartstein/incubator/internal/incubator/models"
	"go.uber.org/zap"
)

// SearchService answers the faceted tenant search. Page and total count are
// read from the same query source so they cannot disagree.
type SearchService struct {
	repo   Repository
	logger *zap.Logger
}

func NewSearchService(repo Repository, logger *zap.Logger) *SearchService {
	return &SearchService{
		repo:   repo,
		logger: logger.Named("search_service"),
	}
}

// Search returns one page of tenants and the cursors around it.
func (s *SearchService) Search(ctx context.Context, f models.SearchFilter) (*models.SearchPage, error) {
	if err := f.Normalize(); err != nil {
		return nil, err
	}

	total, err := s.repo.CountTenants(ctx, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to count tenants: %w", err)
	}
	data, err := s.repo.SearchTenants(ctx, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to search tenants: %w", err)
	}

	next, prev := models.Cursors(f.Offset, f.Limit, total)
	s.logger.Debug("Search served",
		zap.Uint("batiment_id", f.BatimentID),
		zap.Int("offset", f.Offset),
		zap.Int("limit", f.Limit),
		zap.Int64("total", total),
	)
	return &models.SearchPage{
		Data:       data,
		TotalCount: total,
		Next:       next,
		Prev:       prev,
	}, nil
}

// All returns every tenant matching f, ignoring pagination.
func (s *SearchService) All(ctx context.Context, f models.SearchFilter) ([]models.TenantSummary, error) {
	if err := f.Normalize(); err != nil {
		return nil, err
	}
	f.Limit, f.Offset = 0, 0
	data, err := s.repo.SearchTenants(ctx, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to search tenants: %w", err)
	}
	return data, nil
}
