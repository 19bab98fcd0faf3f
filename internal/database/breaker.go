package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerState mirrors the gobreaker states as gauge-friendly numbers.
type BreakerState int

const (
	BreakerClosed   BreakerState = 0
	BreakerHalfOpen BreakerState = 1
	BreakerOpen     BreakerState = 2
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerHalfOpen:
		return "half-open"
	case BreakerOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Observer receives store call timings and breaker transitions.
type Observer interface {
	ObserveQuery(operation string, d time.Duration, err error)
	BreakerStateChanged(to BreakerState)
}

// BreakerConfig holds circuit breaker settings
type BreakerConfig struct {
	// MaxFailures is the number of consecutive connection failures that opens the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a trial request.
	OpenTimeout time.Duration
}

// Breaker wraps a Database with a circuit breaker. Only connection failures
// count against the circuit; a statement the store rejects, or a missing
// record, is a healthy answer.
type Breaker struct {
	Database
	cb       *gobreaker.CircuitBreaker
	observer Observer
}

var _ Database = (*Breaker)(nil)

// NewBreaker wraps db. observer may be nil.
func NewBreaker(db Database, cfg BreakerConfig, observer Observer) *Breaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	b := &Breaker{Database: db, observer: observer}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "surrealdb",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrConnection)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				"component", name,
				"from", from.String(),
				"to", to.String(),
			)
			if b.observer != nil {
				b.observer.BreakerStateChanged(fromGobreaker(to))
			}
		},
	})

	return b
}

// State returns the current breaker state
func (b *Breaker) State() BreakerState {
	return fromGobreaker(b.cb.State())
}

// Ping checks the wrapped connection. It bypasses the breaker so health
// checks report the store itself.
func (b *Breaker) Ping(ctx context.Context) error {
	return b.Database.Ping(ctx)
}

// Query executes a query through the breaker
func (b *Breaker) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	out, err := b.call("query", func() (interface{}, error) {
		return b.Database.Query(ctx, query, vars)
	})
	if err != nil {
		return nil, err
	}
	results, _ := out.([]interface{})
	return results, nil
}

// QueryOne executes a single-record query through the breaker
func (b *Breaker) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	return b.call("query_one", func() (interface{}, error) {
		return b.Database.QueryOne(ctx, query, vars)
	})
}

// Execute runs a mutation through the breaker
func (b *Breaker) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := b.call("execute", func() (interface{}, error) {
		return nil, b.Database.Execute(ctx, query, vars)
	})
	return err
}

func (b *Breaker) call(operation string, fn func() (interface{}, error)) (interface{}, error) {
	start := time.Now()
	out, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if b.observer != nil {
		b.observer.ObserveQuery(operation, time.Since(start), err)
	}
	return out, err
}

func fromGobreaker(s gobreaker.State) BreakerState {
	switch s {
	case gobreaker.StateHalfOpen:
		return BreakerHalfOpen
	case gobreaker.StateOpen:
		return BreakerOpen
	default:
		return BreakerClosed
	}
}
