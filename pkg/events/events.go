package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/savings"
)

//go:generate mockgen -source=events.go -destination=mocks/mock_events.go -package=mocks

var logger = diag.CreateLogger()

// Event types
const (
	EntryRecorded = "entry.recorded"
	EntryDeleted  = "entry.deleted"
)

const requestIDHeader = "x-request-id"

// EntryEvent is a payload of a published message
type EntryEvent struct {
	Type       string        `json:"type"`
	OccurredAt time.Time     `json:"occurredAt"`
	Entry      savings.Entry `json:"entry"`
}

// MessageWriter writes messages to a topic
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher publishes ledger entry changes
type Publisher interface {
	savings.EntryListener
	Close() error
}

type kafkaPublisher struct {
	writer MessageWriter
	clock  savings.Clock
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, entry *savings.Entry) {
	event := EntryEvent{
		Type:       eventType,
		OccurredAt: p.clock.Now().UTC(),
		Entry:      *entry,
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.WithError(err).Error(ctx, "Failed to marshal %v event", eventType)
		return
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(entry.AccountID, 10)),
		Value: data,
	}
	if requestID := diag.RequestIDValue(ctx); requestID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: requestIDHeader, Value: []byte(requestID)})
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.
			WithError(errors.Wrapf(err, "Failed to publish %v event", eventType)).
			WithData(diag.MsgData{"code": entry.Code}).
			Error(ctx, "Event for account %v is lost", entry.AccountID)
		return
	}
	logger.WithData(diag.MsgData{"code": entry.Code}).Debug(ctx, "Published %v event", eventType)
}

func (p *kafkaPublisher) EntryRecorded(ctx context.Context, entry *savings.Entry) {
	p.publish(ctx, EntryRecorded, entry)
}

func (p *kafkaPublisher) EntryDeleted(ctx context.Context, entry *savings.Entry) {
	p.publish(ctx, EntryDeleted, entry)
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type noopPublisher struct{}

func (noopPublisher) EntryRecorded(ctx context.Context, entry *savings.Entry) {}

func (noopPublisher) EntryDeleted(ctx context.Context, entry *savings.Entry) {}

func (noopPublisher) Close() error { return nil }

// NewNoopPublisher returns a publisher that drops all events
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

// PublisherOpt is an option of a publisher
type PublisherOpt func(p *kafkaPublisher)

// WithWriter will init the publisher with a message writer
func WithWriter(writer MessageWriter) PublisherOpt {
	return func(p *kafkaPublisher) {
		p.writer = writer
	}
}

// WithBrokers will init the publisher with a kafka writer for given brokers and topic
func WithBrokers(brokers []string, topic string) PublisherOpt {
	return func(p *kafkaPublisher) {
		p.writer = &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		}
	}
}

// WithClock will init the publisher with a clock
func WithClock(clock savings.Clock) PublisherOpt {
	return func(p *kafkaPublisher) {
		p.clock = clock
	}
}

// NewPublisher returns a kafka backed publisher
func NewPublisher(opts ...PublisherOpt) (Publisher, error) {
	p := &kafkaPublisher{clock: savings.SystemClock}
	for _, opt := range opts {
		opt(p)
	}
	if p.writer == nil {
		return nil, errors.New("Message writer is not provided")
	}
	return Publisher(p), nil
}
