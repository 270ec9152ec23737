package royalty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/royalty"
)

// Permissions consulted through the PermissionGate before any work starts
const (
	PermissionRunBatch = "royalty:run"
	PermissionResend   = "royalty:resend"
	PermissionView     = "royalty:view"
)

// PermissionGate is the external role/permission check. The royalty core
// calls it before starting a batch or resend; it never re-derives roles.
type PermissionGate interface {
	Allow(ctx context.Context, tenantID, userID uuid.UUID, permission string) (bool, error)
}

// ObjectStorage is the external object store that holds rendered statement
// documents under the statements/{tenantId}/{statementId}.pdf key convention.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	// PresignDownload returns a time-limited GET URL that serves the object
	// as an attachment with the given filename.
	PresignDownload(ctx context.Context, key, filename string, expiresIn time.Duration) (string, error)
}

// EmailAttachment is a file attached to an outbound email
type EmailAttachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// EmailMessage is the outbound transactional email shape
type EmailMessage struct {
	From        string
	To          string
	Subject     string
	HTML        string
	Attachments []EmailAttachment
}

// EmailTransport is the external transactional-email provider. Send returns
// the provider message identifier on success.
type EmailTransport interface {
	Send(ctx context.Context, msg EmailMessage) (messageID string, err error)
}

// StatementRenderer renders a statement into its document artifact bytes
type StatementRenderer interface {
	Render(statement *royalty.Statement, author *royalty.Author) ([]byte, error)
}
