package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gartstein/incubator/internal/incubator/db"
	"github.com/gartstein/incubator/internal/incubator/events"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/gartstein/incubator/internal/incubator/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

var (
	admin    = models.Principal{UserID: "admin-1", CompanyID: 1, Role: models.RoleAdmin}
	outsider = models.Principal{UserID: "admin-2", CompanyID: 2, Role: models.RoleAdmin}
)

// MockProducer is a test double for the Kafka producer.
type MockProducer struct {
	mu             sync.Mutex
	producedEvents []events.Event
	wg             *sync.WaitGroup
}

// Produce records the event and signals the wait group.
func (m *MockProducer) Produce(event events.Event) {
	m.mu.Lock()
	m.producedEvents = append(m.producedEvents, event)
	m.mu.Unlock()
	if m.wg != nil {
		m.wg.Done()
	}
}

func (m *MockProducer) Events() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.Event(nil), m.producedEvents...)
}

// memStore is an in-memory FileStore.
type memStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failCopy map[string]bool
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, failCopy: map[string]bool{}}
}

func (s *memStore) List(_ context.Context, prefix string) ([]storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.Object
	for k, v := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.Object{Key: k, Size: int64(len(v))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memStore) Copy(_ context.Context, src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCopy[src] {
		return errors.New("copy failed")
	}
	data, ok := s.objects[src]
	if !ok {
		return fmt.Errorf("no such key %s", src)
	}
	s.objects[dst] = data
	return nil
}

func (s *memStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStore) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://s3.test/%s?expires=%d", key, int(expiry.Seconds())), nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

func (s *memStore) put(key, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = []byte(body)
}

// SetupTestRepo opens an in-memory database holding one building and two
// formula types owned by company 1.
func SetupTestRepo(t *testing.T) *db.Repository {
	repo, err := db.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	ctx := context.Background()
	require.NoError(t, repo.CreateBuilding(ctx, &models.Building{CompanyID: 1, Name: "Pépinière"}))
	require.NoError(t, repo.CreateFormulaType(ctx, &models.FormulaType{CompanyID: 1, Label: "Bureau"}))
	require.NoError(t, repo.CreateFormulaType(ctx, &models.FormulaType{CompanyID: 1, Label: "Coworking"}))
	require.NoError(t, repo.CreateFormulaType(ctx, &models.FormulaType{CompanyID: 2, Label: "Autre"}))
	return repo
}

const (
	testBuilding     = uint(1)
	formulaBureau    = uint(1)
	formulaCoworking = uint(2)
	foreignFormula   = uint(3)
)

func addIndividual(t *testing.T, repo *db.Repository, last string) uint {
	t.Helper()
	i := &models.Individual{CompanyID: 1, BatimentID: testBuilding, LastName: last, FirstName: "Test"}
	require.NoError(t, repo.CreateIndividual(context.Background(), i))
	return i.ID
}

func addCorporate(t *testing.T, repo *db.Repository, name string) uint {
	t.Helper()
	c := &models.Corporate{CompanyID: 1, BatimentID: testBuilding, LegalName: name}
	require.NoError(t, repo.CreateCorporate(context.Background(), c))
	return c.ID
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func datePtr(t *testing.T, s string) *time.Time {
	d := mustDate(t, s)
	return &d
}

