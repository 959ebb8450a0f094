package email

import (
	"context"

	"github.com/google/uuid"
)

// Message is one outbound email within a batch.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	BatchID string
}

// Result is the per-recipient outcome of a batch send. Order is not
// guaranteed to match the input; callers must correlate by email.
type Result struct {
	Email     string
	Success   bool
	MessageID string
	Error     string
}

// Provider delivers a whole batch in one call. Implementations return one
// Result per input message; a non-nil error means the batch as a whole
// could not be attempted.
type Provider interface {
	SendBatch(ctx context.Context, msgs []Message) ([]Result, error)
}

// NoOpProvider accepts every message without delivering anything. Used in
// development and test environments.
type NoOpProvider struct{}

func (p *NoOpProvider) SendBatch(ctx context.Context, msgs []Message) ([]Result, error) {
	results := make([]Result, 0, len(msgs))
	for _, msg := range msgs {
		results = append(results, Result{
			Email:     msg.To,
			Success:   true,
			MessageID: uuid.NewString(),
		})
	}
	return results, nil
}
