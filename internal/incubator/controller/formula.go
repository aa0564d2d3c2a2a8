package controller

import (
	"context"
	"fmt"

	"github.com/gartstein/incubator/internal/incubator/db"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/events"
	"github.com/gartstein/incubator/internal/incubator/metrics"
	"github.com/gartstein/incubator/internal/incubator/models"
	"go.uber.org/zap"
)

// FormulaService manages formula assignments. A tenant never holds two
// assignments whose periods intersect; an open end counts as models.OpenEnd.
type FormulaService struct {
	repo     Repository
	producer EventProducer
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewFormulaService(repo Repository, producer EventProducer, m *metrics.Metrics, logger *zap.Logger) *FormulaService {
	return &FormulaService{
		repo:     repo,
		producer: producer,
		metrics:  m,
		logger:   logger.Named("formula_service"),
	}
}

// List returns the assignments of a tenant ordered by begin date.
func (s *FormulaService) List(ctx context.Context, kind models.Kind, tenantID uint) ([]models.Assignment, error) {
	list, err := s.repo.ListAssignments(ctx, kind, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return list, nil
}

// Create inserts an assignment unless its period overlaps another assignment
// of the same tenant. The check and the insert share one transaction.
func (s *FormulaService) Create(ctx context.Context, actor models.Principal, in models.AssignmentInput) (*models.Assignment, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	a := &models.Assignment{
		Kind:      in.Kind,
		TenantID:  in.TenantID,
		FormulaID: in.FormulaID,
		Period:    in.Period(),
	}
	stampCreate(&a.Audit, actor)

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := s.checkWritable(ctx, tx, actor, in, 0); err != nil {
			return err
		}
		return tx.CreateAssignment(ctx, a)
	})
	if err != nil {
		return nil, wrap("create assignment", err)
	}

	publish(s.producer, events.NewEvent(events.FormulaAssigned, a.Kind, a.TenantID, actor.UserID, a))
	return a, nil
}

// Update rewrites an assignment. The assignment itself is left out of the
// overlap check.
func (s *FormulaService) Update(ctx context.Context, actor models.Principal, id uint, in models.AssignmentInput) (*models.Assignment, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: invalid assignment ID", e.ErrInvalidInput)
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}

	var updated *models.Assignment
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := s.checkWritable(ctx, tx, actor, in, id); err != nil {
			return err
		}
		a := &models.Assignment{
			ID:        id,
			Kind:      in.Kind,
			TenantID:  in.TenantID,
			FormulaID: in.FormulaID,
			Period:    in.Period(),
		}
		a.UpdateUser = actor.UserID
		if err := tx.UpdateAssignment(ctx, a); err != nil {
			return err
		}
		var err error
		updated, err = tx.GetAssignment(ctx, in.Kind, in.TenantID, id)
		return err
	})
	if err != nil {
		return nil, wrap("update assignment", err)
	}

	publish(s.producer, events.NewEvent(events.FormulaUpdated, updated.Kind, updated.TenantID, actor.UserID, updated))
	return updated, nil
}

// Delete removes an assignment of the tenant.
func (s *FormulaService) Delete(ctx context.Context, actor models.Principal, kind models.Kind, tenantID, id uint) error {
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.DeleteAssignment(ctx, kind, tenantID, id)
	})
	if err != nil {
		return wrap("delete assignment", err)
	}

	publish(s.producer, events.NewEvent(events.FormulaRemoved, kind, tenantID, actor.UserID,
		map[string]uint{"assignment_id": id}))
	return nil
}

func (s *FormulaService) validate(in models.AssignmentInput) error {
	if !in.Kind.Valid() {
		return fmt.Errorf("%w: unknown tenant kind %q", e.ErrInvalidInput, in.Kind)
	}
	if in.TenantID == 0 {
		return fmt.Errorf("%w: invalid tenant ID", e.ErrInvalidInput)
	}
	if in.FormulaID == 0 {
		return fmt.Errorf("%w: formule_id is required", e.ErrInvalidInput)
	}
	return in.Period().Validate()
}

// checkWritable locks the tenant, checks the formula type and rejects
// overlapping periods. excludeID is the assignment being updated, if any.
func (s *FormulaService) checkWritable(
	ctx context.Context,
	tx *db.Repository,
	actor models.Principal,
	in models.AssignmentInput,
	excludeID uint,
) error {
	if err := tx.LockTenant(ctx, in.Kind, in.TenantID); err != nil {
		return err
	}
	ok, err := tx.FormulaTypeBelongsToCompany(ctx, in.FormulaID, actor.CompanyID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: unknown formula %d", e.ErrInvalidInput, in.FormulaID)
	}

	period := in.Period()
	count, err := tx.CountOverlappingAssignments(ctx, in.Kind, in.TenantID, period, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		s.metrics.OverlapRejections.WithLabelValues(in.Kind.String()).Inc()
		end := "open"
		if period.End != nil {
			end = period.End.Format(models.DateLayout)
		}
		return fmt.Errorf("%w: %s to %s intersects %d existing assignment(s) of %s %d",
			e.ErrOverlap, period.Begin.Format(models.DateLayout), end, count, in.Kind, in.TenantID)
	}
	return nil
}
