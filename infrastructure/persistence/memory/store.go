// Package memory keeps sessions and items in process memory. It backs local
// development, the CLI and the end-to-end tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"retroboard/application/ports"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
)

// SessionRepository is an in-memory ports.SessionRepository
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entities.Session
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates an empty repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]*entities.Session)}
}

// Save stores a copy of the session, replacing any previous snapshot
func (r *SessionRepository) Save(ctx context.Context, session *entities.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID.String()] = copySession(session)
	return nil
}

// GetByIDs returns the known sessions among ids
func (r *SessionRepository) GetByIDs(ctx context.Context, ids []valueobjects.SessionID) ([]*entities.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(ids))
	out := make([]*entities.Session, 0, len(ids))
	for _, id := range ids {
		if seen[id.String()] {
			continue
		}
		seen[id.String()] = true
		if s, ok := r.sessions[id.String()]; ok {
			out = append(out, copySession(s))
		}
	}
	return out, nil
}

// List returns every session, oldest first
func (r *SessionRepository) List(ctx context.Context) ([]*entities.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*entities.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, copySession(s))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func copySession(s *entities.Session) *entities.Session {
	c := *s
	c.Participants = append([]string(nil), s.Participants...)
	return &c
}

// ItemRepository is an in-memory ports.ItemRepository
type ItemRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]*entities.Item // session id -> item id -> item
}

var _ ports.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates an empty repository
func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[string]map[string]*entities.Item)}
}

// Save stores a copy of the item, replacing any previous snapshot
func (r *ItemRepository) Save(ctx context.Context, item *entities.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sid := item.SessionID.String()
	if r.items[sid] == nil {
		r.items[sid] = make(map[string]*entities.Item)
	}
	c := *item
	r.items[sid][item.ID] = &c
	return nil
}

// GetItems returns copies of the items passing filter
func (r *ItemRepository) GetItems(ctx context.Context, filter ports.ItemFilter) ([]*entities.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*entities.Item{}
	for _, bySession := range r.items {
		for _, item := range bySession {
			if filter.Matches(item) {
				c := *item
				out = append(out, &c)
			}
		}
	}
	return out, nil
}
