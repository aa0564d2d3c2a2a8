package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/gartstein/incubator/internal/incubator/metrics"
	"github.com/gartstein/incubator/internal/incubator/models"
	"go.uber.org/zap"
)

// ArchiveJob moves every follow-up file still in an imported/ folder to the
// matching archived/ folder. It is registered on the scheduler in main.
type ArchiveJob struct {
	files   FileStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewArchiveJob(files FileStore, m *metrics.Metrics, logger *zap.Logger) *ArchiveJob {
	return &ArchiveJob{files: files, metrics: m, logger: logger.Named("archive_job")}
}

func (j *ArchiveJob) Name() string {
	return "followup-archive"
}

// Run archives file by file. A failing file is logged and skipped; the run
// reports how many failed.
func (j *ArchiveJob) Run(ctx context.Context) error {
	prefix := fmt.Sprintf("Tiers/%s/", models.KindIndividual)
	objects, err := j.files.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", prefix, err)
	}

	archived, failed := 0, 0
	for _, obj := range objects {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !strings.Contains(obj.Key, "/Accompagnement_") {
			continue
		}
		dst, ok := models.ArchivedKey(obj.Key)
		if !ok {
			continue
		}
		if err := archiveObject(ctx, j.files, obj.Key, dst); err != nil {
			failed++
			j.metrics.FilesArchived.WithLabelValues("failed").Inc()
			j.logger.Error("Failed to archive file", zap.Error(err), zap.String("key", obj.Key))
			continue
		}
		archived++
		j.metrics.FilesArchived.WithLabelValues("archived").Inc()
	}

	j.logger.Info("Archive run complete", zap.Int("archived", archived), zap.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be archived", failed, archived+failed)
	}
	return nil
}
