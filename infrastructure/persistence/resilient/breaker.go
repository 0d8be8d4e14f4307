// Package resilient wraps repositories in circuit breakers so a failing store
// is reported as unavailable instead of being hammered.
package resilient

import (
	"context"
	"errors"
	"time"

	"retroboard/application/ports"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
	appErrors "retroboard/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for a repository circuit breaker
type BreakerConfig struct {
	Name        string
	MaxFailures uint32        // consecutive failures before opening
	Timeout     time.Duration // open period before a half-open probe
	MaxRequests uint32        // probes allowed while half-open
}

// DefaultBreakerConfig returns a default configuration
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:        name,
		MaxFailures: 5,
		Timeout:     30 * time.Second,
		MaxRequests: 1,
	}
}

func newBreaker(cfg BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// Caller mistakes and cancellations say nothing about the store
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				appErrors.IsValidation(err) ||
				appErrors.IsNotFound(err)
		},
	})
}

// execute runs fn through the breaker, turning rejections into unavailable errors
func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, appErrors.NewUnavailableError(cb.Name()).WithCause(err)
		}
		return zero, err
	}
	return out.(T), nil
}

// SessionRepository decorates a ports.SessionRepository with a circuit breaker
type SessionRepository struct {
	next ports.SessionRepository
	cb   *gobreaker.CircuitBreaker
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository wraps next
func NewSessionRepository(next ports.SessionRepository, cfg BreakerConfig, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{next: next, cb: newBreaker(cfg, logger)}
}

// GetByIDs implements ports.SessionRepository
func (r *SessionRepository) GetByIDs(ctx context.Context, ids []valueobjects.SessionID) ([]*entities.Session, error) {
	return execute(r.cb, func() ([]*entities.Session, error) {
		return r.next.GetByIDs(ctx, ids)
	})
}

// List implements ports.SessionRepository
func (r *SessionRepository) List(ctx context.Context) ([]*entities.Session, error) {
	return execute(r.cb, func() ([]*entities.Session, error) {
		return r.next.List(ctx)
	})
}

// Save implements ports.SessionRepository
func (r *SessionRepository) Save(ctx context.Context, session *entities.Session) error {
	_, err := execute(r.cb, func() (struct{}, error) {
		return struct{}{}, r.next.Save(ctx, session)
	})
	return err
}

// ItemRepository decorates a ports.ItemRepository with a circuit breaker
type ItemRepository struct {
	next ports.ItemRepository
	cb   *gobreaker.CircuitBreaker
}

var _ ports.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository wraps next
func NewItemRepository(next ports.ItemRepository, cfg BreakerConfig, logger *zap.Logger) *ItemRepository {
	return &ItemRepository{next: next, cb: newBreaker(cfg, logger)}
}

// GetItems implements ports.ItemRepository
func (r *ItemRepository) GetItems(ctx context.Context, filter ports.ItemFilter) ([]*entities.Item, error) {
	return execute(r.cb, func() ([]*entities.Item, error) {
		return r.next.GetItems(ctx, filter)
	})
}

// Save implements ports.ItemRepository
func (r *ItemRepository) Save(ctx context.Context, item *entities.Item) error {
	_, err := execute(r.cb, func() (struct{}, error) {
		return struct{}{}, r.next.Save(ctx, item)
	})
	return err
}
