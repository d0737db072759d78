// Package events publishes issued quotes to downstream consumers (policy
// binding, analytics).
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// QuoteIssued is the message written for every persisted quote.
type QuoteIssued struct {
	QuoteID      string    `json:"quoteId"`
	DeviceID     string    `json:"deviceId,omitempty"`
	Mode         string    `json:"mode"`
	CoverageType string    `json:"coverageType"`
	Annual       float64   `json:"annualPremium"`
	Monthly      float64   `json:"monthlyPremium"`
	ValidUntil   time.Time `json:"validUntil"`
	IssuedAt     time.Time `json:"issuedAt"`
}

type Publisher interface {
	PublishQuote(ctx context.Context, evt QuoteIssued) error
	Close() error
}

type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // quotes of one device stay ordered
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}}
}

func (p *KafkaPublisher) PublishQuote(ctx context.Context, evt QuoteIssued) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	key := evt.DeviceID
	if key == "" {
		key = evt.QuoteID
	}
	return p.w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b})
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishQuote(context.Context, QuoteIssued) error { return nil }
func (NopPublisher) Close() error                                    { return nil }
