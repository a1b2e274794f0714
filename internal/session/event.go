package session

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventEstablished EventKind = "established"
	EventCleared     EventKind = "cleared"
)

// Event is one change on the auth session stream.
type Event struct {
	Kind   EventKind `json:"kind"`
	UserID uuid.UUID `json:"user_id,omitempty"`
	Email  string    `json:"email,omitempty"`
	Name   string    `json:"name,omitempty"`
	At     time.Time `json:"at"`
}

func Established(userID uuid.UUID, email, name string) Event {
	return Event{Kind: EventEstablished, UserID: userID, Email: email, Name: name, At: time.Now().UTC()}
}

func Cleared() Event {
	return Event{Kind: EventCleared, At: time.Now().UTC()}
}
