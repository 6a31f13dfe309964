// Package event provides a small in-process pub/sub bus.
//
// The critical-path listener publishes a summary event per build through a
// critpath.Sink; any number of subscribers (reporting, persistence, test
// assertions) receive it asynchronously.
package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is an immutable published fact.
type Event interface {
	ID() string
	Type() string   // e.g. "build.graph_execution_info"
	Source() string // emitting component
	// CorrelationID groups events of one build.
	CorrelationID() string
	Timestamp() time.Time
	Data() any
}

// Metadata contains the common event fields.
type Metadata struct {
	EventID       string    `json:"id"`
	EventType     string    `json:"type"`
	EventSource   string    `json:"source"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// BaseEvent is a generic Event with a typed payload.
type BaseEvent[T any] struct {
	Meta    Metadata `json:"metadata"`
	Payload T        `json:"payload"`
}

func (e *BaseEvent[T]) ID() string            { return e.Meta.EventID }
func (e *BaseEvent[T]) Type() string          { return e.Meta.EventType }
func (e *BaseEvent[T]) Source() string        { return e.Meta.EventSource }
func (e *BaseEvent[T]) CorrelationID() string { return e.Meta.CorrelationID }
func (e *BaseEvent[T]) Timestamp() time.Time  { return e.Meta.Timestamp }
func (e *BaseEvent[T]) Data() any             { return e.Payload }

// TypedData returns the strongly-typed payload.
func (e *BaseEvent[T]) TypedData() T {
	return e.Payload
}

// MarshalJSON implements json.Marshaler.
func (e *BaseEvent[T]) MarshalJSON() ([]byte, error) {
	type alias BaseEvent[T]
	return json.Marshal((*alias)(e))
}

// Option configures event creation.
type Option func(*Metadata)

// WithEventID sets a specific event ID (default: a random UUID).
func WithEventID(id string) Option {
	return func(m *Metadata) {
		m.EventID = id
	}
}

// WithCorrelationID sets the correlation ID.
func WithCorrelationID(id string) Option {
	return func(m *Metadata) {
		m.CorrelationID = id
	}
}

// WithTimestamp sets a specific timestamp (default: time.Now()).
func WithTimestamp(t time.Time) Option {
	return func(m *Metadata) {
		m.Timestamp = t
	}
}

// New creates an event with the given type, source and payload.
func New[T any](eventType, source string, payload T, opts ...Option) *BaseEvent[T] {
	meta := Metadata{
		EventType:   eventType,
		EventSource: source,
	}
	for _, opt := range opts {
		opt(&meta)
	}
	if meta.EventID == "" {
		meta.EventID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	return &BaseEvent[T]{Meta: meta, Payload: payload}
}
