// Package events publishes appointment lifecycle events for consumers outside
// the service, such as notification senders.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Event struct {
	Type          string         `json:"type"`
	AppointmentID string         `json:"appointmentId"`
	Number        string         `json:"appointmentNumber"`
	Status        string         `json:"status"`
	Operator      string         `json:"operator"`
	OccurredAt    time.Time      `json:"occurredAt"`
	Data          map[string]any `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// StreamPublisher appends events to a Redis stream with XADD, trimming it to
// roughly maxLen entries.
type StreamPublisher struct {
	rdb    redis.Cmdable
	stream string
	maxLen int64
}

func NewStreamPublisher(rdb redis.Cmdable, stream string, maxLen int64) *StreamPublisher {
	if stream == "" {
		stream = "appointments.events"
	}
	return &StreamPublisher{rdb: rdb, stream: stream, maxLen: maxLen}
}

func (p *StreamPublisher) Publish(ctx context.Context, e Event) error {
	data := "{}"
	if len(e.Data) > 0 {
		b, err := json.Marshal(e.Data)
		if err != nil {
			return fmt.Errorf("encode event data: %w", err)
		}
		data = string(b)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":           e.Type,
			"appointment_id": e.AppointmentID,
			"number":         e.Number,
			"status":         e.Status,
			"operator":       e.Operator,
			"occurred_at":    e.OccurredAt.UTC().Format(time.RFC3339Nano),
			"data":           data,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// Dial connects to redisURL (redis://...) and verifies the connection.
func Dial(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
