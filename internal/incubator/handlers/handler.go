// Package handlers exposes the incubator services over REST: routing,
// request decoding and validation, and the mapping of service errors onto
// HTTP statuses.
package handlers

import (
	"context"
	"io"

	"github.com/gartstein/incubator/internal/incubator/controller"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TenantController manages tenants of both kinds.
type TenantController interface {
	CreateIndividual(ctx context.Context, actor models.Principal, i *models.Individual) (*models.Individual, error)
	CreateCorporate(ctx context.Context, actor models.Principal, c *models.Corporate) (*models.Corporate, error)
	Get(ctx context.Context, kind models.Kind, id uint) (*models.TenantDetail, error)
	UpdateIndividual(ctx context.Context, actor models.Principal, i *models.Individual) (*models.Individual, error)
	UpdateCorporate(ctx context.Context, actor models.Principal, c *models.Corporate) (*models.Corporate, error)
	Delete(ctx context.Context, kind models.Kind, id uint) error
}

// FormulaController manages formula assignments.
type FormulaController interface {
	List(ctx context.Context, kind models.Kind, tenantID uint) ([]models.Assignment, error)
	Create(ctx context.Context, actor models.Principal, in models.AssignmentInput) (*models.Assignment, error)
	Update(ctx context.Context, actor models.Principal, id uint, in models.AssignmentInput) (*models.Assignment, error)
	Delete(ctx context.Context, actor models.Principal, kind models.Kind, tenantID, id uint) error
}

type SearchController interface {
	Search(ctx context.Context, f models.SearchFilter) (*models.SearchPage, error)
}

type FinancialController interface {
	ListWorkforce(ctx context.Context, kind models.Kind, tenantID uint) ([]models.Workforce, error)
	CreateWorkforce(ctx context.Context, actor models.Principal, kind models.Kind, w *models.Workforce) error
	UpdateWorkforce(ctx context.Context, actor models.Principal, kind models.Kind, w *models.Workforce) error
	DeleteWorkforce(ctx context.Context, kind models.Kind, tenantID uint, year int) error
	ListRevenue(ctx context.Context, kind models.Kind, tenantID uint) ([]models.Revenue, error)
	CreateRevenue(ctx context.Context, actor models.Principal, kind models.Kind, rev *models.Revenue) error
	UpdateRevenue(ctx context.Context, actor models.Principal, kind models.Kind, rev *models.Revenue) error
	DeleteRevenue(ctx context.Context, kind models.Kind, tenantID uint, year int) error
	RecordExit(ctx context.Context, actor models.Principal, x *models.Exit) error
	GetExit(ctx context.Context, kind models.Kind, tenantID uint) (*models.Exit, error)
	RecordPostIncubation(ctx context.Context, actor models.Principal, p *models.PostIncubation) error
	GetPostIncubation(ctx context.Context, kind models.Kind, tenantID uint) (*models.PostIncubation, error)
	RecordFirstMeeting(ctx context.Context, actor models.Principal, kind models.Kind, m *models.FirstMeeting) error
	GetFirstMeeting(ctx context.Context, kind models.Kind, tenantID uint) (*models.FirstMeeting, error)
}

type RelationController interface {
	List(ctx context.Context, kind models.Kind, tenantID uint) ([]controller.RelationView, error)
	Create(ctx context.Context, actor models.Principal, kind models.Kind, tenantID uint, rel *models.Relation) (*controller.RelationView, error)
	Update(ctx context.Context, actor models.Principal, kind models.Kind, tenantID uint, rel *models.Relation) (*controller.RelationView, error)
	Delete(ctx context.Context, kind models.Kind, tenantID, id uint) error
}

type FollowUpController interface {
	List(ctx context.Context, kind models.Kind, tenantID uint) ([]models.FollowUp, error)
	Create(ctx context.Context, actor models.Principal, kind models.Kind, f *models.FollowUp) (*models.FollowUp, error)
	Update(ctx context.Context, actor models.Principal, kind models.Kind, f *models.FollowUp) (*models.FollowUp, error)
	Delete(ctx context.Context, kind models.Kind, tenantID, id uint) error
	ListFiles(ctx context.Context, kind models.Kind, tenantID, followUpID uint) ([]models.FollowUpFile, error)
	Upload(ctx context.Context, kind models.Kind, tenantID, followUpID uint, fileName string, r io.Reader, size int64, contentType string) (*models.FollowUpFile, error)
	Archive(ctx context.Context, kind models.Kind, tenantID, followUpID uint, fileName string) error
	DeleteFile(ctx context.Context, kind models.Kind, tenantID, followUpID uint, fileName string) error
}

type ProjectController interface {
	List(ctx context.Context, kind models.Kind, tenantID uint) ([]models.Project, error)
	Create(ctx context.Context, actor models.Principal, kind models.Kind, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, actor models.Principal, kind models.Kind, p *models.Project) error
	Delete(ctx context.Context, kind models.Kind, tenantID, id uint) error
}

type ReferenceController interface {
	ListBuildings(ctx context.Context, actor models.Principal) ([]models.Building, error)
	CreateBuilding(ctx context.Context, actor models.Principal, b *models.Building) (*models.Building, error)
	ListFormulaTypes(ctx context.Context, actor models.Principal) ([]models.FormulaType, error)
	CreateFormulaType(ctx context.Context, actor models.Principal, f *models.FormulaType) (*models.FormulaType, error)
}

type SpreadsheetController interface {
	Export(ctx context.Context, actor models.Principal, f models.SearchFilter, w io.Writer) error
	Import(ctx context.Context, actor models.Principal, kind models.Kind, batimentID uint, r io.Reader) (int, error)
}

// HealthChecker reports whether the database answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Services groups the controllers the REST handlers delegate to.
type Services struct {
	Tenants      TenantController
	Formulas     FormulaController
	Search       SearchController
	Financial    FinancialController
	Relations    RelationController
	FollowUps    FollowUpController
	Projects     ProjectController
	Reference    ReferenceController
	Spreadsheets SpreadsheetController
	Health       HealthChecker
}

type Handler struct {
	svc      Services
	validate *validator.Validate
	logger   *zap.Logger
}

func NewHandler(svc Services, logger *zap.Logger) *Handler {
	return &Handler{
		svc:      svc,
		validate: newValidator(),
		logger:   logger.Named("http_handler"),
	}
}
