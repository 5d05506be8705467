package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Domain event types emitted by the write paths.
const (
	TypeBidAccepted          = "BidAccepted"
	TypeTransactionCompleted = "TransactionCompleted"
)

// Event is a domain event. Delivery is at-least-once and best-effort;
// consumers tolerate duplicates and reconcile by re-querying the ledger.
type Event struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Publisher emits domain events to subscribers. Transport is a collaborator;
// a failed publish never fails the write that produced the event.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// RedisPublisher publishes events on a Redis channel ("events:<type>").
type RedisPublisher struct {
	Rdb    *redis.Client
	Prefix string
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	prefix := p.Prefix
	if prefix == "" {
		prefix = "events:"
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := p.Rdb.Publish(ctx, prefix+e.Type, b).Err(); err != nil {
		log.Warn().Err(err).Str("event", e.Type).Msg("Event publish failed")
		return err
	}
	return nil
}

// Bus is an in-process publisher with local subscribers. Used in tests and
// for in-process consumers; sends never block (slow subscribers drop events).
type Bus struct {
	mu   sync.Mutex
	subs []chan Event
}

func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of future events and an unsubscribe func.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, c := range b.subs {
			if c == ch {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				break
			}
		}
	}
}
