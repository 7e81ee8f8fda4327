// Package queue defines message payloads exchanged over the message
// broker and the publisher/consumer pair that moves them.  Every
// payload carries enough information for the mail dispatcher to
// render a template without querying the primary database.
package queue

// Template names understood by the mail dispatcher.
const (
	TemplateOrderConfirmed = "order.confirmed"
	TemplatePassCancelled  = "pass.cancelled"
	TemplateStageClosed    = "stage.closed"
)

// MailEvent is the envelope published for every notification.  The
// dispatcher selects the template by name and fills it from Vars;
// delivery retries are its responsibility, not the publisher's.
type MailEvent struct {
	Template   string            `json:"template"`
	Recipient  string            `json:"recipient"`
	Vars       map[string]string `json:"vars"`
	EnqueuedAt string            `json:"enqueued_at"`
}
