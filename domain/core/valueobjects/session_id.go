package valueobjects

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// SessionID identifies a retrospective session. Identifiers come from the
// collaborator that owns sessions, so any non-empty string is accepted; ids
// minted here are UUIDs.
type SessionID struct {
	value string
}

// NewSessionID creates a new random SessionID
func NewSessionID() SessionID {
	return SessionID{value: uuid.New().String()}
}

// NewSessionIDFromString creates a SessionID from an existing string
func NewSessionIDFromString(id string) (SessionID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return SessionID{}, errors.New("session ID cannot be empty")
	}
	return SessionID{value: id}, nil
}

// MustSessionID is NewSessionIDFromString for literals known to be valid
func MustSessionID(id string) SessionID {
	sid, err := NewSessionIDFromString(id)
	if err != nil {
		panic(err)
	}
	return sid
}

// ParseSessionIDs converts raw ids, failing on the first empty one
func ParseSessionIDs(raw []string) ([]SessionID, error) {
	ids := make([]SessionID, 0, len(raw))
	for _, r := range raw {
		id, err := NewSessionIDFromString(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// String returns the string representation of the SessionID
func (id SessionID) String() string {
	return id.value
}

// Equals checks if two SessionIDs are equal
func (id SessionID) Equals(other SessionID) bool {
	return id.value == other.value
}

// IsZero checks if the SessionID is the zero value
func (id SessionID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id SessionID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *SessionID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("SessionID must be a string")
	}
	id.value = s
	return nil
}
