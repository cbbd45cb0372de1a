package sms

import (
	"context"
	"sync"
)

// RecordingTransport is an in-memory Transport for tests.
type RecordingTransport struct {
	mu      sync.Mutex
	sent    []SentMessage
	results map[string]Result
	err     error
}

// SentMessage captures one captured dispatch.
type SentMessage struct {
	To      string
	Message string
}

// NewRecordingTransport constructs an empty recorder that reports delivery
// for every number unless told otherwise.
func NewRecordingTransport() *RecordingTransport {
	return &RecordingTransport{results: make(map[string]Result)}
}

// FailWith makes every Send return err.
func (t *RecordingTransport) FailWith(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// SetResult fixes the gateway verdict for a destination number.
func (t *RecordingTransport) SetResult(to string, result Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.results[to] = result
}

// Send records the message and returns the configured verdict.
func (t *RecordingTransport) Send(_ context.Context, to, message string) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return Result{}, t.err
	}
	t.sent = append(t.sent, SentMessage{To: to, Message: message})
	if result, ok := t.results[to]; ok {
		return result, nil
	}
	return Result{StatusCode: StatusDelivered, Description: "Success"}, nil
}

// Sent returns a copy of all captured messages.
func (t *RecordingTransport) Sent() []SentMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]SentMessage, len(t.sent))
	copy(out, t.sent)
	return out
}
