package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/f3rmion/memcard/internal/logger"
	"github.com/f3rmion/memcard/internal/vocab"
)

// BreakerSettings tunes when the breaker opens and how long it stays open.
type BreakerSettings struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Breaker stops calling a failing generator for a while.
type Breaker struct {
	next Generator
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next in a circuit breaker that opens after MaxFailures
// consecutive failures.
func NewBreaker(next Generator, s BreakerSettings, log *logger.Logger) *Breaker {
	if s.MaxFailures == 0 {
		s.MaxFailures = 3
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("generator breaker state changed", "provider", name, "from", from.String(), "to", to.String())
		},
		// A cancelled caller says nothing about the service.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *Breaker) Name() string { return b.next.Name() }

// Generate calls the wrapped generator unless the breaker is open.
func (b *Breaker) Generate(ctx context.Context, req Request) (*vocab.MemoryCard, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Generate(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return out.(*vocab.MemoryCard), nil
}

// State reports the breaker state, e.g. "closed" or "open".
func (b *Breaker) State() string {
	return b.cb.State().String()
}
