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

type ProjectService struct {
	repo   Repository
	logger *zap.Logger
}

func NewProjectService(repo Repository, logger *zap.Logger) *ProjectService {
	return &ProjectService{repo: repo, logger: logger.Named("project_service")}
}

func (s *ProjectService) List(ctx context.Context, kind models.Kind, tenantID uint) ([]models.Project, error) {
	if err := kind.Require(models.KindIndividual); err != nil {
		return nil, err
	}
	list, err := s.repo.ListProjects(ctx, tenantID)
	return list, wrap("list projects", err)
}

func (s *ProjectService) Create(ctx context.Context, actor models.Principal, kind models.Kind, p *models.Project) (*models.Project, error) {
	if err := kind.Require(models.KindIndividual); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("%w: titre is required", e.ErrInvalidInput)
	}
	p.ID = 0
	stampCreate(&p.Audit, actor)

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.CreateProject(ctx, p)
	})
	if err != nil {
		return nil, wrap("create project", err)
	}
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, actor models.Principal, kind models.Kind, p *models.Project) error {
	if err := kind.Require(models.KindIndividual); err != nil {
		return err
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: titre is required", e.ErrInvalidInput)
	}
	p.UpdateUser = actor.UserID

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.UpdateProject(ctx, p)
	})
	return wrap("update project", err)
}

func (s *ProjectService) Delete(ctx context.Context, kind models.Kind, tenantID, id uint) error {
	if err := kind.Require(models.KindIndividual); err != nil {
		return err
	}
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.DeleteProject(ctx, tenantID, id)
	})
	return wrap("delete project", err)
}
