package event

//go:generate stringer -type=EventKind
type EventKind int16

const (
	MessageCreated  EventKind = iota + 1 // [BUSINESS]
	ReactionUpdated                      // [BUSINESS]
	PresenceChanged                      // [SYSTEM]
)

// Eventer defines the contract for all data packets flowing through the Hub.
type Eventer interface {
	GetID() string
	GetKind() EventKind
	GetOccurredAt() int64
	GetPayload() any
}

// Exportable defines an event that should be re-published to the audit bus.
// An empty routing key tells the dispatcher to skip publishing.
type Exportable interface {
	GetRoutingKey() string
}
