package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(FormulaAssigned, models.KindCorporate, 12, "user-1", map[string]int{"formule_id": 2})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "PM/12", event.Key())
	assert.False(t, event.OccurredAt.IsZero())

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"formula_assigned"`)
	assert.Contains(t, string(data), `"qualite":"PM"`)
	assert.Contains(t, string(data), `"tiers_id":12`)
}

func TestProducer_Produce(t *testing.T) {
	t.Run("successful produce", func(t *testing.T) {
		producer := newProducer(new(MockKafkaWriter), zaptest.NewLogger(t))

		producer.Produce(NewEvent(ExitRecorded, models.KindIndividual, 1, "", nil))

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := newProducer(new(MockKafkaWriter), zap.New(core))
		producer.events = make(chan Event, 1) // Small buffer for test
		var dropped []Event
		producer.OnDrop(func(e Event) { dropped = append(dropped, e) })

		event := NewEvent(ExitRecorded, models.KindIndividual, 1, "", nil)
		producer.Produce(event)
		producer.Produce(event) // This should be dropped

		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
		assert.Len(t, dropped, 1)
	})
}

func TestProducer_SendEvent(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	producer := &Producer{
		writer: mockWriter,
		logger: zaptest.NewLogger(t),
	}
	event := NewEvent(WorkforceRecorded, models.KindCorporate, 3, "admin", nil)

	t.Run("successful send", func(t *testing.T) {
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

		producer.sendEvent(context.Background(), event)

		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{
				Key:   []byte("PM/3"),
				Value: mustMarshal(event),
			},
		})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("tenant", "PM/3")).Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)
		mockWriter.ExpectedCalls = nil
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(nil)

	producer := newProducer(mockWriter, zaptest.NewLogger(t))
	producer.Close()

	select {
	case <-producer.closeChan:
	default:
		t.Error("closeChan not closed")
	}
	mockWriter.AssertCalled(t, "Close")
}

func TestProducer_EventLoop(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
	mockWriter.On("Close").Return(nil)

	producer := newProducer(mockWriter, zaptest.NewLogger(t))
	go producer.eventLoop()
	defer producer.Close()

	producer.Produce(NewEvent(RevenueRecorded, models.KindCorporate, 9, "", nil))

	assert.Eventually(t, func() bool {
		for _, c := range mockWriter.Calls {
			if c.Method == "WriteMessages" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestNopProducer(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	producer := NewNopProducer(zap.New(core))

	producer.Produce(NewEvent(FormulaRemoved, models.KindIndividual, 4, "", nil))
	producer.Close()

	assert.Equal(t, 1, recorded.FilterMessage("event discarded, no broker configured").Len())
}

func mustMarshal(e Event) []byte {
	data, _ := json.Marshal(e)
	return data
}
