package controller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gartstein/incubator/internal/incubator/db"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
	"go.uber.org/zap"
)

// RelationView is a relation with its status on the current day.
type RelationView struct {
	models.Relation
	Status models.RelationStatus
}

// RelationService manages the links between individual and corporate tenants.
type RelationService struct {
	repo     Repository
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewRelationService derives relation status against the calendar of loc.
func NewRelationService(repo Repository, loc *time.Location, logger *zap.Logger) *RelationService {
	if loc == nil {
		loc = time.UTC
	}
	return &RelationService{
		repo:     repo,
		location: loc,
		now:      time.Now,
		logger:   logger.Named("relation_service"),
	}
}

func (s *RelationService) List(ctx context.Context, kind models.Kind, tenantID uint) ([]RelationView, error) {
	list, err := s.repo.ListRelations(ctx, kind, tenantID)
	if err != nil {
		return nil, wrap("list relations", err)
	}
	now := s.now()
	out := make([]RelationView, 0, len(list))
	for i := range list {
		out = append(out, RelationView{Relation: list[i], Status: list[i].StatusAt(now, s.location)})
	}
	return out, nil
}

// Create links the tenant of the path to a tenant of the other kind. The
// counterpart must belong to the caller's company.
func (s *RelationService) Create(ctx context.Context, actor models.Principal, kind models.Kind, tenantID uint, rel *models.Relation) (*RelationView, error) {
	if err := anchor(kind, tenantID, rel); err != nil {
		return nil, err
	}
	if err := validRelation(rel); err != nil {
		return nil, err
	}
	rel.ID = 0
	stampCreate(&rel.Audit, actor)

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		other, otherID := models.KindCorporate, rel.CorporateID
		if kind == models.KindCorporate {
			other, otherID = models.KindIndividual, rel.IndividualID
		}
		ok, err := tx.TenantBelongsToCompany(ctx, other, otherID, actor.CompanyID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: tenant %s %d", e.ErrForbidden, other, otherID)
		}
		return tx.CreateRelation(ctx, rel)
	})
	if err != nil {
		return nil, wrap("create relation", err)
	}
	return &RelationView{Relation: *rel, Status: rel.StatusAt(s.now(), s.location)}, nil
}

// Update rewrites type and period. The two parties never change.
func (s *RelationService) Update(ctx context.Context, actor models.Principal, kind models.Kind, tenantID uint, rel *models.Relation) (*RelationView, error) {
	if err := validRelation(rel); err != nil {
		return nil, err
	}
	rel.UpdateUser = actor.UserID

	var updated *models.Relation
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.UpdateRelation(ctx, kind, tenantID, rel); err != nil {
			return err
		}
		var err error
		updated, err = tx.GetRelation(ctx, kind, tenantID, rel.ID)
		return err
	})
	if err != nil {
		return nil, wrap("update relation", err)
	}
	return &RelationView{Relation: *updated, Status: updated.StatusAt(s.now(), s.location)}, nil
}

func (s *RelationService) Delete(ctx context.Context, kind models.Kind, tenantID, id uint) error {
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.DeleteRelation(ctx, kind, tenantID, id)
	})
	return wrap("delete relation", err)
}

// anchor fills the side of the relation named by the path.
func anchor(kind models.Kind, tenantID uint, rel *models.Relation) error {
	switch kind {
	case models.KindIndividual:
		rel.IndividualID = tenantID
	case models.KindCorporate:
		rel.CorporateID = tenantID
	default:
		return fmt.Errorf("%w: unknown tenant kind %q", e.ErrInvalidInput, kind)
	}
	if rel.IndividualID == 0 || rel.CorporateID == 0 {
		return fmt.Errorf("%w: both tiepp_id and tiepm_id are required", e.ErrInvalidInput)
	}
	return nil
}

func validRelation(rel *models.Relation) error {
	if strings.TrimSpace(rel.Type) == "" {
		return fmt.Errorf("%w: type_relation is required", e.ErrInvalidInput)
	}
	return rel.Period.Validate()
}
