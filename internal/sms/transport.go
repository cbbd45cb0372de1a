// Package sms abstracts the outbound text-message gateway used for supplier
// payroll notifications.
package sms

import (
	"context"
	"strings"
)

// StatusDelivered is the gateway's success sentinel.
const StatusDelivered = "100"

// Result is the gateway's verdict for one message.
type Result struct {
	StatusCode  string
	Description string
	MessageID   string
}

// Delivered reports whether the gateway accepted the message.
func (r Result) Delivered() bool {
	return r.StatusCode == StatusDelivered
}

// Terminal reports whether the failure is permanent for this recipient, e.g.
// the number is on a do-not-disturb or blacklist register. Terminal failures
// are persisted for reconciliation; transient ones are only logged.
func (r Result) Terminal() bool {
	desc := strings.ToLower(r.Description)
	return strings.Contains(desc, "dnd") ||
		strings.Contains(desc, "blacklist") ||
		strings.Contains(desc, "opted out")
}

// Transport sends one message to one destination number.
type Transport interface {
	Send(ctx context.Context, to, message string) (Result, error)
}
