package controller

import (
	"context"
	"testing"

	"github.com/gartstein/incubator/internal/incubator/metrics"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestArchiveJob_Run(t *testing.T) {
	store := newMemStore()
	pending := models.FollowUpKey(3, 10, models.FolderImported, "a.pdf")
	broken := models.FollowUpKey(3, 11, models.FolderImported, "b.pdf")
	done := models.FollowUpKey(4, 12, models.FolderArchived, "c.pdf")
	store.put(pending, "a")
	store.put(broken, "b")
	store.put(done, "c")
	store.put("Tiers/PP/3/cv.pdf", "cv")
	store.failCopy[broken] = true

	core, recorded := observer.New(zap.InfoLevel)
	job := NewArchiveJob(store, metrics.New(nil), zap.New(core))

	err := job.Run(context.Background())

	assert.Error(t, err)
	assert.False(t, store.has(pending))
	assert.True(t, store.has(models.FollowUpKey(3, 10, models.FolderArchived, "a.pdf")))
	assert.True(t, store.has(broken), "failed file stays in place")
	assert.True(t, store.has(done))
	assert.True(t, store.has("Tiers/PP/3/cv.pdf"))
	assert.Equal(t, 1, recorded.FilterMessage("Failed to archive file").Len())
	assert.Equal(t, "followup-archive", job.Name())
}
