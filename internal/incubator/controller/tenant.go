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

// FilePurger removes every stored file of an individual tenant.
type FilePurger interface {
	PurgeTenantFiles(ctx context.Context, tenantID uint) error
}

type TenantService struct {
	repo   Repository
	files  FilePurger
	logger *zap.Logger
}

func NewTenantService(repo Repository, files FilePurger, logger *zap.Logger) *TenantService {
	return &TenantService{
		repo:   repo,
		files:  files,
		logger: logger.Named("tenant_service"),
	}
}

// CreateIndividual adds an individual tenant to a building of the caller's company.
func (s *TenantService) CreateIndividual(ctx context.Context, actor models.Principal, i *models.Individual) (*models.Individual, error) {
	if strings.TrimSpace(i.LastName) == "" || strings.TrimSpace(i.FirstName) == "" {
		return nil, fmt.Errorf("%w: nom and prenom are required", e.ErrInvalidInput)
	}
	i.ID = 0
	i.CompanyID = actor.CompanyID
	stampCreate(&i.Audit, actor)

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := checkBuilding(ctx, tx, i.BatimentID, actor); err != nil {
			return err
		}
		return tx.CreateIndividual(ctx, i)
	})
	if err != nil {
		return nil, wrap("create individual", err)
	}
	return i, nil
}

// CreateCorporate adds a corporate tenant to a building of the caller's company.
func (s *TenantService) CreateCorporate(ctx context.Context, actor models.Principal, c *models.Corporate) (*models.Corporate, error) {
	if strings.TrimSpace(c.LegalName) == "" {
		return nil, fmt.Errorf("%w: raison_sociale is required", e.ErrInvalidInput)
	}
	c.ID = 0
	c.CompanyID = actor.CompanyID
	stampCreate(&c.Audit, actor)

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := checkBuilding(ctx, tx, c.BatimentID, actor); err != nil {
			return err
		}
		return tx.CreateCorporate(ctx, c)
	})
	if err != nil {
		return nil, wrap("create corporate", err)
	}
	return c, nil
}

// Get returns a tenant with its formula history.
func (s *TenantService) Get(ctx context.Context, kind models.Kind, id uint) (*models.TenantDetail, error) {
	detail := &models.TenantDetail{Kind: kind}
	var err error
	switch kind {
	case models.KindIndividual:
		detail.Individual, err = s.repo.GetIndividual(ctx, id)
	case models.KindCorporate:
		detail.Corporate, err = s.repo.GetCorporate(ctx, id)
	default:
		return nil, fmt.Errorf("%w: unknown tenant kind %q", e.ErrInvalidInput, kind)
	}
	if err != nil {
		return nil, wrap("get tenant", err)
	}
	if detail.Assignments, err = s.repo.ListAssignments(ctx, kind, id); err != nil {
		return nil, wrap("get tenant", err)
	}
	return detail, nil
}

func (s *TenantService) UpdateIndividual(ctx context.Context, actor models.Principal, i *models.Individual) (*models.Individual, error) {
	if strings.TrimSpace(i.LastName) == "" || strings.TrimSpace(i.FirstName) == "" {
		return nil, fmt.Errorf("%w: nom and prenom are required", e.ErrInvalidInput)
	}
	i.UpdateUser = actor.UserID

	var updated *models.Individual
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := checkBuilding(ctx, tx, i.BatimentID, actor); err != nil {
			return err
		}
		if err := tx.UpdateIndividual(ctx, i); err != nil {
			return err
		}
		var err error
		updated, err = tx.GetIndividual(ctx, i.ID)
		return err
	})
	if err != nil {
		return nil, wrap("update individual", err)
	}
	return updated, nil
}

func (s *TenantService) UpdateCorporate(ctx context.Context, actor models.Principal, c *models.Corporate) (*models.Corporate, error) {
	if strings.TrimSpace(c.LegalName) == "" {
		return nil, fmt.Errorf("%w: raison_sociale is required", e.ErrInvalidInput)
	}
	c.UpdateUser = actor.UserID

	var updated *models.Corporate
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := checkBuilding(ctx, tx, c.BatimentID, actor); err != nil {
			return err
		}
		if err := tx.UpdateCorporate(ctx, c); err != nil {
			return err
		}
		var err error
		updated, err = tx.GetCorporate(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, wrap("update corporate", err)
	}
	return updated, nil
}

// Delete removes the tenant and its dependent rows, then its stored files.
func (s *TenantService) Delete(ctx context.Context, kind models.Kind, id uint) error {
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.DeleteTenant(ctx, kind, id)
	})
	if err != nil {
		return wrap("delete tenant", err)
	}

	if kind == models.KindIndividual && s.files != nil {
		if err := s.files.PurgeTenantFiles(ctx, id); err != nil {
			s.logger.Error("Failed to purge tenant files",
				zap.Error(err),
				zap.Uint("tenant_id", id),
			)
		}
	}
	return nil
}

// checkBuilding requires the building to belong to the caller's company.
func checkBuilding(ctx context.Context, tx *db.Repository, batimentID uint, actor models.Principal) error {
	if batimentID == 0 {
		return fmt.Errorf("%w: batiment_id is required", e.ErrInvalidInput)
	}
	ok, err := tx.BuildingBelongsToCompany(ctx, batimentID, actor.CompanyID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: building %d", e.ErrForbidden, batimentID)
	}
	return nil
}

// wrap adds context to unexpected errors and passes nil and domain errors through.
func wrap(op string, err error) error {
	if err == nil || e.IsDomain(err) {
		return err
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
