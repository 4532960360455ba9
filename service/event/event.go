package event

import (
	"time"
)

// Event wraps a payload with delivery metadata. The payload type carries the
// domain content (e.g. traffic.Event); the envelope only records identity and
// creation time.
type Event[T any] struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Data      T         `json:"data"`
}

// NewEvent creates an event envelope for the supplied payload.
func NewEvent[T any](data T) *Event[T] {
	return &Event[T]{Data: data}
}
