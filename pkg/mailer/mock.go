package mailer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
)

// MockClient records envelopes instead of sending them.
type MockClient struct {
	// VerifyErr is returned by VerifyConnectivity when set.
	VerifyErr error
	// FailFor, when set, decides per envelope whether the send fails.
	FailFor func(env Envelope) error

	mu   sync.Mutex
	sent []Envelope
	seq  atomic.Int64
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	return &MockClient{}
}

// VerifyConnectivity returns VerifyErr.
func (m *MockClient) VerifyConnectivity(ctx context.Context) error {
	return m.VerifyErr
}

// SendOne records env unless FailFor rejects it.
func (m *MockClient) SendOne(ctx context.Context, env Envelope) (string, error) {
	if m.FailFor != nil {
		if err := m.FailFor(env); err != nil {
			return "", apperrors.NewDeliveryError(env.To, err)
		}
	}
	m.mu.Lock()
	m.sent = append(m.sent, env)
	m.mu.Unlock()
	return fmt.Sprintf("MOCK-MSG-%d", m.seq.Add(1)), nil
}

// Sent returns a copy of the delivered envelopes.
func (m *MockClient) Sent() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Envelope, len(m.sent))
	copy(out, m.sent)
	return out
}
