package royalty

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/royalty"
	"github.com/inkhouse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DeliveryConfig holds delivery retry and addressing configuration
type DeliveryConfig struct {
	// From is the sender address for statement emails
	From string
	// MaxAttempts is the total number of send attempts before the failure
	// becomes terminal
	MaxAttempts int
	// BaseDelay is the backoff before the second attempt; it doubles each
	// subsequent attempt
	BaseDelay time.Duration
}

// DefaultDeliveryConfig returns the default retry budget: 3 attempts with
// exponential backoff starting at one second.
func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		From:        "royalties@inkhouse.example",
		MaxAttempts: 3,
		BaseDelay:   time.Second,
	}
}

// Validate checks the configuration for usable values
func (c DeliveryConfig) Validate() error {
	if c.From == "" {
		return shared.NewDomainError("INVALID_INPUT", "delivery sender address is required")
	}
	if c.MaxAttempts <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "delivery max attempts must be positive")
	}
	if c.BaseDelay < 0 {
		return shared.NewDomainError("INVALID_INPUT", "delivery base delay cannot be negative")
	}
	return nil
}

// DeliveryService emails rendered statements to authors. A delivery attempt
// is rejected up front (validation, not an attempt) when the statement has no
// artifact, the author has no email address, or the statement was already
// delivered and this is not an explicit manual resend. Transient provider
// failures are retried with exponential backoff; after the retry budget the
// failure is terminal for that delivery, while the statement itself stays
// valid for a later manual resend.
type DeliveryService struct {
	statements royalty.StatementRepository
	authors    royalty.AuthorRepository
	storage    ObjectStorage
	transport  EmailTransport
	gate       PermissionGate
	cfg        DeliveryConfig
	logger     *zap.Logger
}

// DeliveryServiceOption is a functional option for configuring DeliveryService
type DeliveryServiceOption func(*DeliveryService)

// WithDeliveryLogger sets the service logger
func WithDeliveryLogger(logger *zap.Logger) DeliveryServiceOption {
	return func(s *DeliveryService) {
		s.logger = logger
	}
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(
	statements royalty.StatementRepository,
	authors royalty.AuthorRepository,
	storage ObjectStorage,
	transport EmailTransport,
	gate PermissionGate,
	cfg DeliveryConfig,
	opts ...DeliveryServiceOption,
) *DeliveryService {
	s := &DeliveryService{
		statements: statements,
		authors:    authors,
		storage:    storage,
		transport:  transport,
		gate:       gate,
		cfg:        cfg,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deliver validates, renders the email and sends it with the configured retry
// budget. On the first successful send it records the delivery timestamp
// exactly once; a manual resend of an already-delivered statement keeps the
// original timestamp.
func (s *DeliveryService) Deliver(ctx context.Context, statement *royalty.Statement, author *royalty.Author, manualResend bool) (string, error) {
	if !statement.HasArtifact() {
		return "", shared.NewDomainError("INVALID_STATE", "statement has no artifact to deliver")
	}
	if !author.HasEmail() {
		return "", shared.NewDomainError("INVALID_INPUT", "author has no email address on file")
	}
	if statement.EmailSent() && !manualResend {
		return "", shared.NewDomainError("INVALID_STATE", "statement has already been delivered")
	}

	attachment, err := s.storage.Download(ctx, *statement.ArtifactKey)
	if err != nil {
		return "", &royalty.DeliveryError{
			StatementID: statement.GetID(),
			Attempts:    0,
			Reason:      fmt.Sprintf("failed to fetch artifact: %v", err),
		}
	}

	msg := EmailMessage{
		From:    s.cfg.From,
		To:      author.Email,
		Subject: fmt.Sprintf("Your royalty statement for %s", statement.PeriodStart.Format("January 2006")),
		HTML:    statementEmailBody(statement, author),
		Attachments: []EmailAttachment{{
			Filename:    statement.ArtifactFilename(),
			ContentType: "application/pdf",
			Content:     attachment,
		}},
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		messageID, sendErr := s.transport.Send(ctx, msg)
		if sendErr == nil {
			if err := s.recordDelivery(ctx, statement); err != nil {
				return "", err
			}
			s.logger.Info("Statement delivered",
				zap.String("statement_id", statement.GetID().String()),
				zap.String("message_id", messageID),
				zap.Int("attempt", attempt),
				zap.Bool("manual_resend", manualResend),
			)
			return messageID, nil
		}

		lastErr = sendErr
		s.logger.Warn("Statement delivery attempt failed",
			zap.String("statement_id", statement.GetID().String()),
			zap.Int("attempt", attempt),
			zap.Error(sendErr),
		)

		if attempt == s.cfg.MaxAttempts {
			break
		}
		backoff := s.cfg.BaseDelay << (attempt - 1)
		select {
		case <-ctx.Done():
			return "", &royalty.DeliveryError{
				StatementID: statement.GetID(),
				Attempts:    attempt,
				Reason:      ctx.Err().Error(),
			}
		case <-time.After(backoff):
		}
	}

	return "", &royalty.DeliveryError{
		StatementID: statement.GetID(),
		Attempts:    s.cfg.MaxAttempts,
		Reason:      lastErr.Error(),
	}
}

// recordDelivery sets the one-time delivery timestamp. A resend of an
// already-delivered statement is a no-op here.
func (s *DeliveryService) recordDelivery(ctx context.Context, statement *royalty.Statement) error {
	if err := statement.MarkEmailSent(time.Now()); err != nil {
		// Already stamped by a previous successful delivery.
		return nil
	}
	if err := s.statements.Update(ctx, statement); err != nil {
		return fmt.Errorf("statement delivered but timestamp persistence failed: %w", err)
	}
	return nil
}

// ResendStatement is the manual-resend entry point. It shares the Deliver
// validation path: the statement must carry an artifact and the author an
// email address, and it may be re-sent any number of times without touching
// the original delivery timestamp.
func (s *DeliveryService) ResendStatement(ctx context.Context, tenantID, actorID, statementID uuid.UUID) (string, error) {
	allowed, err := s.gate.Allow(ctx, tenantID, actorID, PermissionResend)
	if err != nil {
		return "", fmt.Errorf("permission check failed: %w", err)
	}
	if !allowed {
		return "", shared.ErrUnauthorized
	}

	statement, err := s.statements.FindByIDForTenant(ctx, tenantID, statementID)
	if err != nil {
		return "", err
	}
	author, err := s.authors.FindByIDForTenant(ctx, tenantID, statement.AuthorID)
	if err != nil {
		return "", err
	}
	return s.Deliver(ctx, statement, author, true)
}

// statementEmailBody renders the email HTML for a statement
func statementEmailBody(statement *royalty.Statement, author *royalty.Author) string {
	return fmt.Sprintf(
		`<p>Dear %s,</p>
<p>Your royalty statement for the period %s to %s is attached.</p>
<table>
<tr><td>Royalty earned</td><td>%s</td></tr>
<tr><td>Advance recoupment</td><td>%s</td></tr>
<tr><td>Net payable</td><td>%s</td></tr>
</table>
<p>Questions about this statement? Reply to this email.</p>`,
		author.Name,
		statement.PeriodStart.Format("2 January 2006"),
		statement.PeriodEnd.Format("2 January 2006"),
		statement.TotalRoyaltyEarned.StringFixed(2),
		statement.Recoupment.StringFixed(2),
		statement.NetPayable.StringFixed(2),
	)
}
