package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gartstein/incubator/internal/incubator/db"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/events"
	"github.com/gartstein/incubator/internal/incubator/models"
	"go.uber.org/zap"
)

const (
	minYear = 1900
	maxYear = 2100
)

// FinancialService handles the per-year records of corporate tenants and the
// one-row-per-tenant state records (exit, post-incubation, first meeting).
type FinancialService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

func NewFinancialService(repo Repository, producer EventProducer, logger *zap.Logger) *FinancialService {
	return &FinancialService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("financial_service"),
	}
}

func validYear(year int) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: invalid year %d", e.ErrInvalidInput, year)
	}
	return nil
}

func yearConflict(tenantID uint, year int) error {
	return fmt.Errorf("%w: an entry for tenant %d and year %d already exists", e.ErrConflict, tenantID, year)
}

func (s *FinancialService) ListWorkforce(ctx context.Context, kind models.Kind, tenantID uint) ([]models.Workforce, error) {
	if err := kind.Require(models.KindCorporate); err != nil {
		return nil, err
	}
	list, err := s.repo.ListWorkforce(ctx, tenantID)
	if err != nil {
		return nil, wrap("list workforce", err)
	}
	return list, nil
}

func validWorkforce(w *models.Workforce) error {
	if err := validYear(w.Year); err != nil {
		return err
	}
	if w.Permanent < 0 || w.FixedTerm < 0 || w.Other < 0 {
		return fmt.Errorf("%w: headcounts must not be negative", e.ErrInvalidInput)
	}
	return nil
}

// CreateWorkforce records a new year. An existing (tenant, year) is a conflict.
func (s *FinancialService) CreateWorkforce(ctx context.Context, actor models.Principal, kind models.Kind, w *models.Workforce) error {
	if err := kind.Require(models.KindCorporate); err != nil {
		return err
	}
	if err := validWorkforce(w); err != nil {
		return err
	}
	stampCreate(&w.Audit, actor)

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		exists, err := tx.WorkforceExists(ctx, w.TenantID, w.Year)
		if err != nil {
			return err
		}
		if exists {
			return yearConflict(w.TenantID, w.Year)
		}
		if err := tx.CreateWorkforce(ctx, w); err != nil {
			return conflictOn(err, w.TenantID, w.Year)
		}
		return nil
	})
	if err != nil {
		return wrap("create workforce", err)
	}
	publish(s.producer, events.NewEvent(events.WorkforceRecorded, kind, w.TenantID, actor.UserID, w))
	return nil
}

// UpdateWorkforce rewrites an existing year.
func (s *FinancialService) UpdateWorkforce(ctx context.Context, actor models.Principal, kind models.Kind, w *models.Workforce) error {
	if err := kind.Require(models.KindCorporate); err != nil {
		return err
	}
	if err := validWorkforce(w); err != nil {
		return err
	}
	w.UpdateUser = actor.UserID

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.UpdateWorkforce(ctx, w)
	})
	if err != nil {
		return wrap("update workforce", err)
	}
	publish(s.producer, events.NewEvent(events.WorkforceRecorded, kind, w.TenantID, actor.UserID, w))
	return nil
}

func (s *FinancialService) DeleteWorkforce(ctx context.Context, kind models.Kind, tenantID uint, year int) error {
	if err := kind.Require(models.KindCorporate); err != nil {
		return err
	}
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.DeleteWorkforce(ctx, tenantID, year)
	})
	return wrap("delete workforce", err)
}

func (s *FinancialService) ListRevenue(ctx context.Context, kind models.Kind, tenantID uint) ([]models.Revenue, error) {
	if err := kind.Require(models.KindCorporate); err != nil {
		return nil, err
	}
	list, err := s.repo.ListRevenue(ctx, tenantID)
	if err != nil {
		return nil, wrap("list revenue", err)
	}
	return list, nil
}

// CreateRevenue records a new year. An existing (tenant, year) is a conflict.
func (s *FinancialService) CreateRevenue(ctx context.Context, actor models.Principal, kind models.Kind, rev *models.Revenue) error {
	if err := kind.Require(models.KindCorporate); err != nil {
		return err
	}
	if err := validYear(rev.Year); err != nil {
		return err
	}
	stampCreate(&rev.Audit, actor)

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		exists, err := tx.RevenueExists(ctx, rev.TenantID, rev.Year)
		if err != nil {
			return err
		}
		if exists {
			return yearConflict(rev.TenantID, rev.Year)
		}
		if err := tx.CreateRevenue(ctx, rev); err != nil {
			return conflictOn(err, rev.TenantID, rev.Year)
		}
		return nil
	})
	if err != nil {
		return wrap("create revenue", err)
	}
	publish(s.producer, events.NewEvent(events.RevenueRecorded, kind, rev.TenantID, actor.UserID, rev))
	return nil
}

func (s *FinancialService) UpdateRevenue(ctx context.Context, actor models.Principal, kind models.Kind, rev *models.Revenue) error {
	if err := kind.Require(models.KindCorporate); err != nil {
		return err
	}
	if err := validYear(rev.Year); err != nil {
		return err
	}
	rev.UpdateUser = actor.UserID

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.UpdateRevenue(ctx, rev)
	})
	if err != nil {
		return wrap("update revenue", err)
	}
	publish(s.producer, events.NewEvent(events.RevenueRecorded, kind, rev.TenantID, actor.UserID, rev))
	return nil
}

func (s *FinancialService) DeleteRevenue(ctx context.Context, kind models.Kind, tenantID uint, year int) error {
	if err := kind.Require(models.KindCorporate); err != nil {
		return err
	}
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.DeleteRevenue(ctx, tenantID, year)
	})
	return wrap("delete revenue", err)
}

// RecordExit creates or replaces the exit record of a tenant.
func (s *FinancialService) RecordExit(ctx context.Context, actor models.Principal, x *models.Exit) error {
	if x.Date.IsZero() {
		return fmt.Errorf("%w: date_sortie is required", e.ErrInvalidInput)
	}
	x.UpdateUser = actor.UserID

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.UpsertExit(ctx, x)
	})
	if err != nil {
		return wrap("record exit", err)
	}
	publish(s.producer, events.NewEvent(events.ExitRecorded, x.Kind, x.TenantID, actor.UserID, x))
	return nil
}

func (s *FinancialService) GetExit(ctx context.Context, kind models.Kind, tenantID uint) (*models.Exit, error) {
	x, err := s.repo.GetExit(ctx, kind, tenantID)
	if err != nil {
		return nil, wrap("get exit", err)
	}
	return x, nil
}

// RecordPostIncubation creates or replaces the post-incubation status of a tenant.
func (s *FinancialService) RecordPostIncubation(ctx context.Context, actor models.Principal, p *models.PostIncubation) error {
	if strings.TrimSpace(p.Status) == "" {
		return fmt.Errorf("%w: statut is required", e.ErrInvalidInput)
	}
	p.UpdateUser = actor.UserID

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.UpsertPostIncubation(ctx, p)
	})
	return wrap("record post-incubation status", err)
}

func (s *FinancialService) GetPostIncubation(ctx context.Context, kind models.Kind, tenantID uint) (*models.PostIncubation, error) {
	p, err := s.repo.GetPostIncubation(ctx, kind, tenantID)
	if err != nil {
		return nil, wrap("get post-incubation status", err)
	}
	return p, nil
}

// RecordFirstMeeting creates or replaces the intake meeting of an individual.
func (s *FinancialService) RecordFirstMeeting(ctx context.Context, actor models.Principal, kind models.Kind, m *models.FirstMeeting) error {
	if err := kind.Require(models.KindIndividual); err != nil {
		return err
	}
	if m.Date.IsZero() {
		return fmt.Errorf("%w: date_rdv is required", e.ErrInvalidInput)
	}
	m.UpdateUser = actor.UserID

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.UpsertFirstMeeting(ctx, m)
	})
	return wrap("record first meeting", err)
}

func (s *FinancialService) GetFirstMeeting(ctx context.Context, kind models.Kind, tenantID uint) (*models.FirstMeeting, error) {
	if err := kind.Require(models.KindIndividual); err != nil {
		return nil, err
	}
	m, err := s.repo.GetFirstMeeting(ctx, tenantID)
	if err != nil {
		return nil, wrap("get first meeting", err)
	}
	return m, nil
}

// conflictOn rewords a unique violation raised by a concurrent insert.
func conflictOn(err error, tenantID uint, year int) error {
	if errors.Is(err, e.ErrConflict) {
		return yearConflict(tenantID, year)
	}
	return err
}
