package events

// EventPublisher is how the service layer hands change notifications to the
// daemon for broadcast. Depending on this behavior rather than the server
// keeps the services testable with a recording fake.
type EventPublisher interface {
	// SendEvent queues an event for broadcast to connected clients.
	// Implementations must not block; a full queue is an error.
	SendEvent(event Event) error
}
