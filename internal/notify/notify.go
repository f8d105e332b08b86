// Package notify contains the push-notification collaborator interface. The
// engine emits request lifecycle events; delivery and retry are entirely the
// sender's concern, so all sends are fire-and-forget from the caller's view.
package notify

import "context"

// Event carries the payload of a request lifecycle notification.
type Event struct {
	RequestID  string `json:"request_id"`
	DocumentID string `json:"document_id"`
	ActorName  string `json:"actor_name"`
	Message    string `json:"message"`
}

// Notifier delivers lifecycle events to interested parties.
type Notifier interface {
	Send(ctx context.Context, e Event) error
}

// Noop discards every event. Used when no notification URLs are configured.
type Noop struct{}

func (Noop) Send(context.Context, Event) error { return nil }
