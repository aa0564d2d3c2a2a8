// Package controller implements the business logic (service layer) of the
// incubator service. Each service validates its input, runs every mutation
// inside one repository transaction and publishes domain events once the
// transaction has committed.
package controller

import (
	"context"
	"io"
	"time"

	"github.com/gartstein/incubator/internal/incubator/db"
	"github.com/gartstein/incubator/internal/incubator/events"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/gartstein/incubator/internal/incubator/storage"
)

type EventProducer interface {
	Produce(event events.Event)
}

// Repository defines the storage interface read outside transactions.
// Writes go through WithTransaction.
type Repository interface {
	GetIndividual(ctx context.Context, id uint) (*models.Individual, error)
	GetCorporate(ctx context.Context, id uint) (*models.Corporate, error)
	ListAssignments(ctx context.Context, kind models.Kind, tenantID uint) ([]models.Assignment, error)
	ListWorkforce(ctx context.Context, tenantID uint) ([]models.Workforce, error)
	ListRevenue(ctx context.Context, tenantID uint) ([]models.Revenue, error)
	GetExit(ctx context.Context, kind models.Kind, tenantID uint) (*models.Exit, error)
	GetPostIncubation(ctx context.Context, kind models.Kind, tenantID uint) (*models.PostIncubation, error)
	GetFirstMeeting(ctx context.Context, tenantID uint) (*models.FirstMeeting, error)
	ListRelations(ctx context.Context, kind models.Kind, tenantID uint) ([]models.Relation, error)
	ListFollowUps(ctx context.Context, tenantID uint) ([]models.FollowUp, error)
	GetFollowUp(ctx context.Context, tenantID, id uint) (*models.FollowUp, error)
	ListProjects(ctx context.Context, tenantID uint) ([]models.Project, error)
	ListBuildings(ctx context.Context, companyID uint) ([]models.Building, error)
	ListFormulaTypes(ctx context.Context, companyID uint) ([]models.FormulaType, error)
	CountTenants(ctx context.Context, f *models.SearchFilter) (int64, error)
	SearchTenants(ctx context.Context, f *models.SearchFilter) ([]models.TenantSummary, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
}

// FileStore is the object storage holding follow-up files.
type FileStore interface {
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Copy(ctx context.Context, src, dst string) error
	Remove(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// publish hands an event to the producer without holding up the caller.
func publish(producer EventProducer, event events.Event) {
	go func() {
		producer.Produce(event)
	}()
}

func stampCreate(a *models.Audit, actor models.Principal) {
	a.CreationUser = actor.UserID
	a.UpdateUser = actor.UserID
}
