package entities

import (
	"sort"
	"time"

	"retroboard/domain/core/valueobjects"
)

// Session is a read snapshot of one retrospective
type Session struct {
	ID           valueobjects.SessionID     `json:"id"`
	Title        string                     `json:"titulo"`
	Date         time.Time                  `json:"data"`
	Status       valueobjects.SessionStatus `json:"status"`
	AuthorName   string                     `json:"autor_username"`
	Template     *Template                  `json:"template,omitempty"`
	Participants []string                   `json:"participantes,omitempty"`
}

// IsCompleted reports whether the retrospective has been concluded
func (s *Session) IsCompleted() bool {
	return s.Status == valueobjects.SessionStatusCompleted
}

// ParticipantCount returns the number of distinct participants
func (s *Session) ParticipantCount() int {
	seen := make(map[string]struct{}, len(s.Participants))
	for _, p := range s.Participants {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// SortChronologically orders sessions by date. Sessions sharing a date keep
// their relative order.
func SortChronologically(sessions []*Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.Before(sessions[j].Date)
	})
}

// SessionIDs extracts the ids of the given sessions, preserving order
func SessionIDs(sessions []*Session) []valueobjects.SessionID {
	ids := make([]valueobjects.SessionID, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}
