// Package events publishes store lifecycle events to Kafka so the
// surrounding deployment (sync workers, audit trail) can react to
// commits without polling the document.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	CompanyCreated   EventType = "company_created"
	CompanyUpdated   EventType = "company_updated"
	CompanyDeleted   EventType = "company_deleted"
	DocumentSaved    EventType = "document_saved"
	DocumentImported EventType = "document_imported"
	RequestSubmitted EventType = "request_submitted"
	RequestApproved  EventType = "request_approved"
	RequestDenied    EventType = "request_denied"
)

// Event is the wire payload. EntityID is empty for document-level events.
type Event struct {
	Type        EventType `json:"type"`
	CompanyCode string    `json:"companyCode,omitempty"`
	EntityID    string    `json:"entityId,omitempty"`
	At          time.Time `json:"at"`
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
}

// NewProducer dials the broker (retrying with exponential backoff, since
// the store typically starts alongside the broker), ensures the topic
// exists, and starts the background send loop.
func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	var conn *kafka.Conn
	dial := func() error {
		var err error
		conn, err = kafka.Dial("tcp", brokers[0])
		return err
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(dial, policy); err != nil {
		return nil, err
	}
	defer conn.Close()

	err := conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan Event, 1000),
		logger:    logger.Named("event_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

// Produce enqueues an event. The queue is bounded; when full the event
// is dropped with a warning rather than blocking a store mutation.
func (p *Producer) Produce(eventType EventType, companyCode, entityID string) {
	event := Event{Type: eventType, CompanyCode: companyCode, EntityID: entityID, At: time.Now()}
	select {
	case p.events <- event:
	default:
		p.logger.Warn("event queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("company_code", companyCode),
		)
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
			zap.String("event_type", string(event.Type)),
		)
		return
	}
	key := event.CompanyCode
	if key == "" {
		key = string(event.Type)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("company_code", event.CompanyCode),
		)
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
