package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	FormulaAssigned   EventType = "formula_assigned"
	FormulaUpdated    EventType = "formula_updated"
	FormulaRemoved    EventType = "formula_removed"
	WorkforceRecorded EventType = "workforce_recorded"
	RevenueRecorded   EventType = "revenue_recorded"
	ExitRecorded      EventType = "exit_recorded"
)

// Event is published after a tenant mutation has been committed.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	Kind       models.Kind `json:"qualite"`
	TenantID   uint        `json:"tiers_id"`
	Actor      string      `json:"actor,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload,omitempty"`
}

// NewEvent stamps a fresh id and time on a tenant event.
func NewEvent(eventType EventType, kind models.Kind, tenantID uint, actor string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Kind:       kind,
		TenantID:   tenantID,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Key partitions events per tenant so they stay ordered.
func (e Event) Key() string {
	return fmt.Sprintf("%s/%d", e.Kind, e.TenantID)
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	// onDrop is invoked for every event discarded because the queue is full.
	onDrop func(Event)
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	p := newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}, logger)
	go p.eventLoop()
	return p, nil
}

func newProducer(writer KafkaWriter, logger *zap.Logger) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}
}

// OnDrop registers a callback for discarded events.
func (p *Producer) OnDrop(fn func(Event)) {
	p.onDrop = fn
}

// Produce enqueues an event without blocking. A full queue drops the event.
func (p *Producer) Produce(event Event) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("tenant", event.Key()),
		)
		if p.onDrop != nil {
			p.onDrop(event)
		}
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("tenant", event.Key()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("tenant", event.Key()),
		)
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// NopProducer is used when no broker is configured.
type NopProducer struct {
	logger *zap.Logger
}

func NewNopProducer(logger *zap.Logger) *NopProducer {
	return &NopProducer{logger: logger.Named("event_producer")}
}

func (p *NopProducer) Produce(event Event) {
	p.logger.Debug("event discarded, no broker configured",
		zap.String("event_type", string(event.Type)),
		zap.String("tenant", event.Key()),
	)
}

func (p *NopProducer) Close() {}
