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

// StatementQueryService serves statement reads and artifact download links
type StatementQueryService struct {
	statements royalty.StatementRepository
	storage    ObjectStorage
	gate       PermissionGate
	logger     *zap.Logger
}

// NewStatementQueryService creates a new StatementQueryService
func NewStatementQueryService(
	statements royalty.StatementRepository,
	storage ObjectStorage,
	gate PermissionGate,
	logger *zap.Logger,
) *StatementQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatementQueryService{
		statements: statements,
		storage:    storage,
		gate:       gate,
		logger:     logger,
	}
}

// GetStatement returns a statement with its full calculation document
func (s *StatementQueryService) GetStatement(ctx context.Context, tenantID, actorID, id uuid.UUID) (*royalty.Statement, error) {
	allowed, err := s.gate.Allow(ctx, tenantID, actorID, PermissionView)
	if err != nil {
		return nil, fmt.Errorf("permission check failed: %w", err)
	}
	if !allowed {
		return nil, shared.ErrUnauthorized
	}
	return s.statements.FindByIDForTenant(ctx, tenantID, id)
}

// DownloadURL returns a presigned, time-limited URL serving the statement
// document as an attachment.
func (s *StatementQueryService) DownloadURL(ctx context.Context, tenantID, actorID, id uuid.UUID, expiresIn time.Duration) (string, error) {
	statement, err := s.GetStatement(ctx, tenantID, actorID, id)
	if err != nil {
		return "", err
	}
	if !statement.HasArtifact() {
		return "", shared.NewDomainError("INVALID_STATE", "statement has no generated document yet")
	}
	return s.storage.PresignDownload(ctx, *statement.ArtifactKey, statement.ArtifactFilename(), expiresIn)
}
