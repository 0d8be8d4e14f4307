package ports

import (
	"context"
	"time"

	"retroboard/domain/config"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
)

// SessionRepository is the read side of the collaborator owning retrospective sessions.
// This is a port in hexagonal architecture - the engine doesn't know about the implementation
type SessionRepository interface {
	// GetByIDs returns the sessions that exist among ids, in no particular order.
	// Unknown ids are omitted rather than reported as errors.
	GetByIDs(ctx context.Context, ids []valueobjects.SessionID) ([]*entities.Session, error)

	// List returns every session
	List(ctx context.Context) ([]*entities.Session, error)

	// Save stores a session snapshot. Used for seeding.
	Save(ctx context.Context, session *entities.Session) error
}

// ItemFilter narrows an item fetch. Zero values mean no restriction.
type ItemFilter struct {
	SessionIDs      []valueobjects.SessionID
	Category        string
	ExcludeCategory string
}

// Matches reports whether an item passes the filter
func (f ItemFilter) Matches(item *entities.Item) bool {
	if f.Category != "" && item.Category != f.Category {
		return false
	}
	if f.ExcludeCategory != "" && item.Category == f.ExcludeCategory {
		return false
	}
	if len(f.SessionIDs) == 0 {
		return true
	}
	for _, id := range f.SessionIDs {
		if id.Equals(item.SessionID) {
			return true
		}
	}
	return false
}

// ItemRepository is the read side of the collaborator owning retrospective notes
type ItemRepository interface {
	// GetItems returns the items of the filtered sessions. No ordering is guaranteed.
	GetItems(ctx context.Context, filter ItemFilter) ([]*entities.Item, error)

	// Save stores an item snapshot. Used for seeding.
	Save(ctx context.Context, item *entities.Item) error
}

// AnalyticsConfigProvider returns the thresholds in effect for the next request
type AnalyticsConfigProvider interface {
	Current() *config.AnalyticsConfig
}

// StaticConfig is an AnalyticsConfigProvider that never changes
type StaticConfig struct {
	Config *config.AnalyticsConfig
}

// Current implements AnalyticsConfigProvider
func (s StaticConfig) Current() *config.AnalyticsConfig {
	if s.Config == nil {
		return config.DefaultAnalyticsConfig()
	}
	return s.Config
}

// Cache defines the interface for caching query results
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache; a zero ttl means no expiry
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
