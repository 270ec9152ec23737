// Package email provides transactional email transports for statement delivery.
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	royaltyapp "github.com/inkhouse/backend/internal/application/royalty"
	infraconfig "github.com/inkhouse/backend/internal/infrastructure/config"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Ensure SMTPTransport implements EmailTransport
var _ royaltyapp.EmailTransport = (*SMTPTransport)(nil)

// SMTPTransport sends email through an SMTP relay using go-mail.
type SMTPTransport struct {
	client *mail.Client
	logger *zap.Logger
}

// SMTPTransportOption is a functional option for configuring SMTPTransport
type SMTPTransportOption func(*SMTPTransport)

// WithLogger sets a custom logger for SMTPTransport
func WithLogger(logger *zap.Logger) SMTPTransportOption {
	return func(t *SMTPTransport) {
		t.logger = logger
	}
}

// NewSMTPTransport creates a new SMTPTransport from configuration
func NewSMTPTransport(cfg *infraconfig.EmailConfig, opts ...SMTPTransportOption) (*SMTPTransport, error) {
	if cfg == nil {
		return nil, errors.New("email configuration is required")
	}
	if cfg.Host == "" {
		return nil, errors.New("email host is required")
	}

	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	transport := &SMTPTransport{
		client: client,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(transport)
	}
	return transport, nil
}

// Send delivers the message and returns the generated message identifier
func (t *SMTPTransport) Send(ctx context.Context, msg royaltyapp.EmailMessage) (string, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return "", fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}

	messageID := uuid.New().String()
	m.SetMessageIDWithValue(messageID)
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)

	for _, att := range msg.Attachments {
		m.AttachReader(att.Filename, bytes.NewReader(att.Content),
			mail.WithFileContentType(mail.ContentType(att.ContentType)))
	}

	if err := t.client.DialAndSendWithContext(ctx, m); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	t.logger.Debug("email sent",
		zap.String("to", msg.To),
		zap.String("message_id", messageID),
	)
	return messageID, nil
}
