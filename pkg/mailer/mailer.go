// Package mailer wraps the outbound mail transports behind one Client
// interface: SMTP, Amazon SES and an in-memory mock.
package mailer

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/ArowuTest/zithara-mail-backend/internal/config"
)

// Envelope is a single rendered message.
type Envelope struct {
	To      string
	From    string
	Subject string
	HTML    string
	Text    string
}

// Client sends one message at a time. Implementations never retry.
type Client interface {
	// VerifyConnectivity performs a handshake with the provider and returns
	// a ConfigurationError when credentials are missing or rejected.
	VerifyConnectivity(ctx context.Context) error
	// SendOne delivers env and returns the provider message id. Transport
	// failures are returned as DeliveryError.
	SendOne(ctx context.Context, env Envelope) (string, error)
}

// New returns the Client selected by cfg.Provider.
func New(ctx context.Context, cfg config.MailConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "smtp":
		return NewSMTPClient(cfg), nil
	case "ses":
		return NewSESClient(ctx, cfg)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// FormatFrom renders the From header for cfg.
func FormatFrom(cfg config.MailConfig) string {
	if cfg.From == "" {
		return ""
	}
	addr := mail.Address{Name: cfg.FromName, Address: cfg.From}
	return addr.String()
}

// domainOf returns the part of address after '@', used for Message-Id.
func domainOf(address string) string {
	if parsed, err := mail.ParseAddress(address); err == nil {
		address = parsed.Address
	}
	if i := strings.LastIndex(address, "@"); i >= 0 && i < len(address)-1 {
		return address[i+1:]
	}
	return "localhost"
}
