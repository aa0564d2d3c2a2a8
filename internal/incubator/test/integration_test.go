package test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/incubator/internal/incubator/controller"
	"github.com/gartstein/incubator/internal/incubator/db"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/events"
	"github.com/gartstein/incubator/internal/incubator/metrics"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const (
	kafkaBroker = "localhost:9092"
	eventsTopic = "incubator-events"
)

var admin = models.Principal{UserID: "integration", CompanyID: 1, Role: models.RoleAdmin}

type IntegrationTestSuite struct {
	suite.Suite
	dbRepo      *db.Repository
	kafkaReader *kafka.Reader
	producer    *events.Producer
	logger      *zap.Logger
	testTimeout time.Duration

	building uint
	formula  uint
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.logger = zap.NewNop()
	s.testTimeout = 20 * time.Second

	var err error
	s.dbRepo, err = initializeDBWithRetry()
	if err != nil {
		s.T().Fatal("Database initialization failed:", err)
	}
}

func initializeDBWithRetry() (*db.Repository, error) {
	cfg := &db.Config{
		Driver:   "postgres",
		Host:     "localhost",
		Port:     5432,
		User:     "test",
		Password: "test",
		DBName:   "test",
		SSLMode:  "disable",
	}

	var repo *db.Repository
	err := backoff.Retry(func() error {
		var err error
		repo, err = db.NewRepository(cfg)
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 8))
	return repo, err
}

func initializeKafkaWithRetry(topic string) (*events.Producer, *kafka.Reader, error) {
	brokers := []string{kafkaBroker}

	var producer *events.Producer
	err := backoff.Retry(func() error {
		var err error
		producer, err = events.NewProducer(brokers, zap.NewNop(), topic)
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer initialization failed: %w", err)
	}

	err = backoff.Retry(func() error {
		conn, err := kafka.Dial("tcp", brokers[0])
		if err != nil {
			return err
		}
		defer conn.Close()
		partitions, err := conn.ReadPartitions(topic)
		if err != nil || len(partitions) == 0 {
			return fmt.Errorf("topic %s not found", topic)
		}
		return nil
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		producer.Close()
		return nil, nil, fmt.Errorf("kafka topic check failed: %w", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
	return producer, reader, nil
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
	if s.kafkaReader != nil {
		_ = s.kafkaReader.Close()
	}
	if s.dbRepo != nil {
		_ = s.dbRepo.Close()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	err := s.dbRepo.Exec(ctx, `TRUNCATE TABLE tiepp_formule, tiepm_formule, tiepp_tiepm,
		tiepmeff, tiepmca, tiers_sortie, tiers_postpep, tiepp_premier_rdv, tiepp_suivi, tiepp_projet,
		tiepp, tiepm, formule, batiment RESTART IDENTITY CASCADE`)
	if err != nil {
		s.T().Fatal("Failed to clean database:", err)
	}

	building := &models.Building{CompanyID: admin.CompanyID, Name: "Pépinière"}
	require.NoError(s.T(), s.dbRepo.CreateBuilding(ctx, building))
	formula := &models.FormulaType{CompanyID: admin.CompanyID, Label: "Bureau"}
	require.NoError(s.T(), s.dbRepo.CreateFormulaType(ctx, formula))
	s.building, s.formula = building.ID, formula.ID
}

func (s *IntegrationTestSuite) addIndividual(ctx context.Context, last string) uint {
	i := &models.Individual{CompanyID: admin.CompanyID, BatimentID: s.building, LastName: last, FirstName: "Test"}
	require.NoError(s.T(), s.dbRepo.CreateIndividual(ctx, i))
	return i.ID
}

func date(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (s *IntegrationTestSuite) TestFormulaAssigned_PublishesEvent() {
	var err error
	s.producer, s.kafkaReader, err = initializeKafkaWithRetry(eventsTopic)
	if err != nil {
		s.T().Fatal("Kafka initialization failed:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	tenant := s.addIndividual(ctx, "Kafka")
	service := controller.NewFormulaService(s.dbRepo, s.producer, metrics.New(nil), s.logger)
	created, err := service.Create(ctx, admin, models.AssignmentInput{
		Kind: models.KindIndividual, TenantID: tenant, FormulaID: s.formula,
		Begin: date("2024-01-01"),
	})
	require.NoError(s.T(), err)

	event := s.consumeKafkaEvent(ctx, events.FormulaAssigned, models.KindIndividual, tenant)
	assert.Equal(s.T(), tenant, event.TenantID)
	assert.Equal(s.T(), admin.UserID, event.Actor)
	assert.NotZero(s.T(), created.ID)
}

// Concurrent overlapping writes for one tenant serialize on the tenant row:
// exactly one of them is stored.
func (s *IntegrationTestSuite) TestConcurrentOverlappingAssignments() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	tenant := s.addIndividual(ctx, "Concurrent")
	service := controller.NewFormulaService(s.dbRepo, events.NewNopProducer(s.logger), metrics.New(nil), s.logger)

	const writers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		overlaps int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			_, err := service.Create(ctx, admin, models.AssignmentInput{
				Kind: models.KindIndividual, TenantID: tenant, FormulaID: s.formula,
				Begin: date(fmt.Sprintf("2024-03-%02d", day)),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(s.T(), err, e.ErrOverlap):
				overlaps++
			}
		}(i + 1)
	}
	wg.Wait()

	assert.Equal(s.T(), 1, ok)
	assert.Equal(s.T(), writers-1, overlaps)

	list, err := service.List(ctx, models.KindIndividual, tenant)
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 1)
}

func (s *IntegrationTestSuite) TestSearch_UnionAcrossKinds() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	s.addIndividual(ctx, "Bernard")
	corp := &models.Corporate{CompanyID: admin.CompanyID, BatimentID: s.building, LegalName: "Acme"}
	require.NoError(s.T(), s.dbRepo.CreateCorporate(ctx, corp))

	search := controller.NewSearchService(s.dbRepo, s.logger)
	page, err := search.Search(ctx, models.SearchFilter{BatimentID: s.building, Limit: 1})
	require.NoError(s.T(), err)

	assert.EqualValues(s.T(), 2, page.TotalCount)
	require.Len(s.T(), page.Data, 1)
	assert.Equal(s.T(), models.KindCorporate, page.Data[0].Kind)
	require.NotNil(s.T(), page.Next)
	assert.Equal(s.T(), 1, *page.Next)
}

func (s *IntegrationTestSuite) consumeKafkaEvent(
	ctx context.Context, eventType events.EventType, kind models.Kind, tenantID uint,
) events.Event {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	wantKey := events.Event{Kind: kind, TenantID: tenantID}.Key()
	for attempts := 0; attempts < 200; attempts++ {
		msg, err := s.kafkaReader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			s.T().Logf("Kafka read attempt %d failed: %v", attempts, err)
			time.Sleep(time.Second)
			continue
		}
		if string(msg.Key) != wantKey {
			continue
		}
		var event events.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			s.T().Fatalf("Failed to unmarshal Kafka message: %v", err)
		}
		if event.Type != eventType {
			continue
		}
		return event
	}
	s.T().Fatalf("No %s event received for %s", eventType, wantKey)
	return events.Event{}
}
