package entities

import (
	"time"

	"retroboard/domain/core/valueobjects"
)

// Item is an immutable snapshot of one note in a session category
type Item struct {
	ID         string                 `json:"id"`
	SessionID  valueobjects.SessionID `json:"retro"`
	Category   string                 `json:"categoria"`
	Content    string                 `json:"conteudo"`
	AuthorName string                 `json:"autor_username"`
	VoteCount  int                    `json:"vote_count"`
	CreatedAt  time.Time              `json:"created_at"`
}

// FilterByCategory returns items of the given category, preserving order
func FilterByCategory(items []*Item, slug string) []*Item {
	out := make([]*Item, 0, len(items))
	for _, it := range items {
		if it.Category == slug {
			out = append(out, it)
		}
	}
	return out
}

// FilterBySession returns items of the given session, preserving order
func FilterBySession(items []*Item, id valueobjects.SessionID) []*Item {
	out := make([]*Item, 0)
	for _, it := range items {
		if it.SessionID.Equals(id) {
			out = append(out, it)
		}
	}
	return out
}
