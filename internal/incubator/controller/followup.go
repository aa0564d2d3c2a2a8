package controller

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/gartstein/incubator/internal/incubator/db"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PresignExpiry bounds the lifetime of download URLs.
const PresignExpiry = 5 * time.Minute

// FollowUpService manages the accompaniment log of individual tenants and the
// files attached to each entry.
type FollowUpService struct {
	repo   Repository
	files  FileStore
	logger *zap.Logger
}

func NewFollowUpService(repo Repository, files FileStore, logger *zap.Logger) *FollowUpService {
	return &FollowUpService{
		repo:   repo,
		files:  files,
		logger: logger.Named("followup_service"),
	}
}

func validFollowUp(f *models.FollowUp) error {
	if f.Date.IsZero() {
		return fmt.Errorf("%w: date_suivi is required", e.ErrInvalidInput)
	}
	if strings.TrimSpace(f.Type) == "" {
		return fmt.Errorf("%w: type_suivi is required", e.ErrInvalidInput)
	}
	if f.StartTime != "" && f.EndTime != "" && f.EndTime < f.StartTime {
		return fmt.Errorf("%w: heure_fin is before heure_debut", e.ErrInvalidInput)
	}
	return nil
}

func (s *FollowUpService) List(ctx context.Context, kind models.Kind, tenantID uint) ([]models.FollowUp, error) {
	if err := kind.Require(models.KindIndividual); err != nil {
		return nil, err
	}
	list, err := s.repo.ListFollowUps(ctx, tenantID)
	return list, wrap("list follow-ups", err)
}

func (s *FollowUpService) Create(ctx context.Context, actor models.Principal, kind models.Kind, f *models.FollowUp) (*models.FollowUp, error) {
	if err := kind.Require(models.KindIndividual); err != nil {
		return nil, err
	}
	if err := validFollowUp(f); err != nil {
		return nil, err
	}
	f.ID = 0
	stampCreate(&f.Audit, actor)

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.CreateFollowUp(ctx, f)
	})
	if err != nil {
		return nil, wrap("create follow-up", err)
	}
	return f, nil
}

func (s *FollowUpService) Update(ctx context.Context, actor models.Principal, kind models.Kind, f *models.FollowUp) (*models.FollowUp, error) {
	if err := kind.Require(models.KindIndividual); err != nil {
		return nil, err
	}
	if err := validFollowUp(f); err != nil {
		return nil, err
	}
	f.UpdateUser = actor.UserID

	var updated *models.FollowUp
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.UpdateFollowUp(ctx, f); err != nil {
			return err
		}
		var err error
		updated, err = tx.GetFollowUp(ctx, f.TenantID, f.ID)
		return err
	})
	if err != nil {
		return nil, wrap("update follow-up", err)
	}
	return updated, nil
}

// Delete removes the entry, then every file stored under it.
func (s *FollowUpService) Delete(ctx context.Context, kind models.Kind, tenantID, id uint) error {
	if err := kind.Require(models.KindIndividual); err != nil {
		return err
	}
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.DeleteFollowUp(ctx, tenantID, id)
	})
	if err != nil {
		return wrap("delete follow-up", err)
	}
	if err := s.removePrefix(ctx, models.FollowUpPrefix(tenantID, id)); err != nil {
		s.logger.Error("Failed to delete follow-up files",
			zap.Error(err),
			zap.Uint("tenant_id", tenantID),
			zap.Uint("suivi_id", id),
		)
	}
	return nil
}

// ListFiles returns the imported and archived files of an entry, each with a
// short-lived download URL. URLs are minted concurrently.
func (s *FollowUpService) ListFiles(ctx context.Context, kind models.Kind, tenantID, followUpID uint) ([]models.FollowUpFile, error) {
	if err := s.requireFollowUp(ctx, kind, tenantID, followUpID); err != nil {
		return nil, err
	}
	objects, err := s.files.List(ctx, models.FollowUpPrefix(tenantID, followUpID))
	if err != nil {
		return nil, fmt.Errorf("failed to list follow-up files: %w", err)
	}

	files := make([]models.FollowUpFile, 0, len(objects))
	for _, obj := range objects {
		folder, name, ok := models.SplitFollowUpKey(obj.Key)
		if !ok {
			continue
		}
		files = append(files, models.FollowUpFile{
			Name:         name,
			Folder:       folder,
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range files {
		f := &files[i]
		g.Go(func() error {
			url, err := s.files.PresignGet(gctx, f.Key, PresignExpiry)
			if err != nil {
				return err
			}
			f.URL = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to sign follow-up files: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Folder != files[j].Folder {
			return files[i].Folder == models.FolderImported
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Upload stores a file in the imported folder of an entry.
func (s *FollowUpService) Upload(
	ctx context.Context,
	kind models.Kind,
	tenantID, followUpID uint,
	fileName string,
	r io.Reader,
	size int64,
	contentType string,
) (*models.FollowUpFile, error) {
	name := models.SanitizeFileName(fileName)
	if name == "" {
		return nil, fmt.Errorf("%w: invalid file name %q", e.ErrInvalidInput, fileName)
	}
	if err := s.requireFollowUp(ctx, kind, tenantID, followUpID); err != nil {
		return nil, err
	}
	key := models.FollowUpKey(tenantID, followUpID, models.FolderImported, name)
	if err := s.files.Put(ctx, key, r, size, contentType); err != nil {
		return nil, err
	}
	return &models.FollowUpFile{
		Name:         name,
		Folder:       models.FolderImported,
		Key:          key,
		Size:         size,
		LastModified: time.Now().UTC(),
	}, nil
}

// Archive moves a file from the imported to the archived folder.
func (s *FollowUpService) Archive(ctx context.Context, kind models.Kind, tenantID, followUpID uint, fileName string) error {
	name := models.SanitizeFileName(fileName)
	if name == "" {
		return fmt.Errorf("%w: invalid file name %q", e.ErrInvalidInput, fileName)
	}
	if err := s.requireFollowUp(ctx, kind, tenantID, followUpID); err != nil {
		return err
	}
	src := models.FollowUpKey(tenantID, followUpID, models.FolderImported, name)
	dst := models.FollowUpKey(tenantID, followUpID, models.FolderArchived, name)
	return archiveObject(ctx, s.files, src, dst)
}

// DeleteFile removes a file from the imported folder.
func (s *FollowUpService) DeleteFile(ctx context.Context, kind models.Kind, tenantID, followUpID uint, fileName string) error {
	name := models.SanitizeFileName(fileName)
	if name == "" {
		return fmt.Errorf("%w: invalid file name %q", e.ErrInvalidInput, fileName)
	}
	if err := s.requireFollowUp(ctx, kind, tenantID, followUpID); err != nil {
		return err
	}
	return s.files.Remove(ctx, models.FollowUpKey(tenantID, followUpID, models.FolderImported, name))
}

// PurgeTenantFiles removes every file stored for an individual tenant.
func (s *FollowUpService) PurgeTenantFiles(ctx context.Context, tenantID uint) error {
	return s.removePrefix(ctx, fmt.Sprintf("Tiers/%s/%d/", models.KindIndividual, tenantID))
}

func (s *FollowUpService) removePrefix(ctx context.Context, prefix string) error {
	objects, err := s.files.List(ctx, prefix)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		if err := s.files.Remove(ctx, obj.Key); err != nil {
			return err
		}
	}
	return nil
}

func (s *FollowUpService) requireFollowUp(ctx context.Context, kind models.Kind, tenantID, followUpID uint) error {
	if err := kind.Require(models.KindIndividual); err != nil {
		return err
	}
	if _, err := s.repo.GetFollowUp(ctx, tenantID, followUpID); err != nil {
		return wrap("get follow-up", err)
	}
	return nil
}

// archiveObject copies src to dst, then removes src.
func archiveObject(ctx context.Context, files FileStore, src, dst string) error {
	if err := files.Copy(ctx, src, dst); err != nil {
		return err
	}
	return files.Remove(ctx, src)
}
