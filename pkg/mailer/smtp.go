package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/ArowuTest/zithara-mail-backend/internal/config"
	"github.com/google/uuid"
	"github.com/jordan-wright/email"
)

const (
	implicitTLSPort = 465
	dialTimeout     = 15 * time.Second
)

type smtpService struct {
	host string
	port int
}

var knownServices = map[string]smtpService{
	"gmail":   {host: "smtp.gmail.com", port: 587},
	"outlook": {host: "smtp.office365.com", port: 587},
	"hotmail": {host: "smtp.office365.com", port: 587},
	"yahoo":   {host: "smtp.mail.yahoo.com", port: 465},
}

// SMTPClient delivers mail over SMTP with jordan-wright/email.
type SMTPClient struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPClient resolves host and port from cfg. An explicit EMAIL_HOST wins
// over the well-known service name.
func NewSMTPClient(cfg config.MailConfig) *SMTPClient {
	host, port := cfg.Host, cfg.Port
	if host == "" {
		if svc, ok := knownServices[strings.ToLower(cfg.Service)]; ok {
			host = svc.host
			if port == 0 {
				port = svc.port
			}
		}
	}
	if port == 0 {
		port = 587
	}
	return &SMTPClient{
		host:     host,
		port:     port,
		username: cfg.Username,
		password: cfg.Password,
		from:     FormatFrom(cfg),
	}
}

func (c *SMTPClient) addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

func (c *SMTPClient) checkSettings() error {
	switch {
	case c.host == "":
		return apperrors.NewConfigurationError("EMAIL_HOST", nil)
	case c.username == "":
		return apperrors.NewConfigurationError("EMAIL_USER", nil)
	case c.password == "":
		return apperrors.NewConfigurationError("EMAIL_PASSWORD", nil)
	case c.from == "":
		return apperrors.NewConfigurationError("EMAIL_FROM", nil)
	}
	return nil
}

// VerifyConnectivity dials the server, upgrades to TLS and authenticates.
func (c *SMTPClient) VerifyConnectivity(ctx context.Context) error {
	if err := c.checkSettings(); err != nil {
		return err
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr())
	if err != nil {
		return fmt.Errorf("dial smtp server %s: %w", c.addr(), err)
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(dialTimeout)
	}
	_ = conn.SetDeadline(deadline)

	tlsConfig := &tls.Config{ServerName: c.host}
	if c.port == implicitTLSPort {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, c.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake with %s: %w", c.addr(), err)
	}
	defer client.Close()

	if c.port != implicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}

	auth := smtp.PlainAuth("", c.username, c.password, c.host)
	if err := client.Auth(auth); err != nil {
		return apperrors.NewConfigurationError("EMAIL_USER/EMAIL_PASSWORD", err)
	}
	return client.Quit()
}

// SendOne sends env and returns the Message-Id it was sent with.
func (c *SMTPClient) SendOne(ctx context.Context, env Envelope) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperrors.NewDeliveryError(env.To, err)
	}

	from := env.From
	if from == "" {
		from = c.from
	}

	e := email.NewEmail()
	e.From = from
	e.To = []string{env.To}
	e.Subject = env.Subject
	e.HTML = []byte(env.HTML)
	if env.Text != "" {
		e.Text = []byte(env.Text)
	}
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(from))
	e.Headers.Set("Message-Id", messageID)

	auth := smtp.PlainAuth("", c.username, c.password, c.host)
	var err error
	if c.port == implicitTLSPort {
		err = e.SendWithTLS(c.addr(), auth, &tls.Config{ServerName: c.host})
	} else {
		err = e.Send(c.addr(), auth)
	}
	if err != nil {
		return "", apperrors.NewDeliveryError(env.To, err)
	}
	return messageID, nil
}
