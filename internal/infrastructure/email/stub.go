package email

import (
	"context"
	"sync"

	"github.com/google/uuid"
	royaltyapp "github.com/inkhouse/backend/internal/application/royalty"
)

// Ensure StubTransport implements EmailTransport
var _ royaltyapp.EmailTransport = (*StubTransport)(nil)

// StubTransport records outbound messages instead of sending them.
// Used in development environments and tests.
type StubTransport struct {
	mu       sync.Mutex
	messages []royaltyapp.EmailMessage
	// FailNext makes the next FailNext sends return FailErr, then sends
	// succeed again. Tests use it to exercise delivery retries.
	FailNext int
	FailErr  error
}

// NewStubTransport creates a new recording transport
func NewStubTransport() *StubTransport {
	return &StubTransport{}
}

// Send records the message and returns a generated message identifier
func (t *StubTransport) Send(_ context.Context, msg royaltyapp.EmailMessage) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailNext > 0 {
		t.FailNext--
		return "", t.FailErr
	}
	t.messages = append(t.messages, msg)
	return uuid.New().String(), nil
}

// Messages returns a copy of the recorded messages
func (t *StubTransport) Messages() []royaltyapp.EmailMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]royaltyapp.EmailMessage, len(t.messages))
	copy(out, t.messages)
	return out
}
