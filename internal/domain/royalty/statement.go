package royalty

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/shared"
	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// StatementStatus represents the lifecycle status of a royalty statement
type StatementStatus string

const (
	StatementStatusDraft     StatementStatus = "DRAFT"
	StatementStatusFinalized StatementStatus = "FINALIZED"
)

// IsValid checks if the status is a valid StatementStatus
func (s StatementStatus) IsValid() bool {
	return s == StatementStatusDraft || s == StatementStatusFinalized
}

// String returns the string representation of StatementStatus
func (s StatementStatus) String() string {
	return string(s)
}

// Statement is the persisted per-author-per-period royalty result. One exists
// per (tenant, contract, period). It is created once by a batch run and is
// append-only thereafter: the only mutations are attaching the generated
// artifact, finalizing, and setting the one-time email timestamp.
type Statement struct {
	shared.TenantAggregateRoot
	ContractID         uuid.UUID
	AuthorID           uuid.UUID
	PeriodStart        time.Time
	PeriodEnd          time.Time
	TotalRoyaltyEarned decimal.Decimal
	Recoupment         decimal.Decimal
	NetPayable         decimal.Decimal
	Calculation        StatementCalculation
	ArtifactKey        *string
	Status             StatementStatus
	EmailSentAt        *time.Time
}

// NewStatement creates a draft statement from a completed calculation
func NewStatement(tenantID uuid.UUID, contract *Contract, calc StatementCalculation) *Statement {
	return &Statement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ContractID:          contract.GetID(),
		AuthorID:            contract.AuthorID,
		PeriodStart:         calc.Period.Start,
		PeriodEnd:           calc.Period.End,
		TotalRoyaltyEarned:  calc.GrossRoyalty,
		Recoupment:          calc.AdvanceRecoupment.ThisPeriodRecoupment,
		NetPayable:          calc.NetPayable,
		Calculation:         calc,
		Status:              StatementStatusDraft,
	}
}

// Period returns the statement period as a value object
func (s *Statement) Period() valueobject.Period {
	return valueobject.Period{Start: s.PeriodStart, End: s.PeriodEnd}
}

// HasArtifact reports whether a rendered document has been attached
func (s *Statement) HasArtifact() bool {
	return s.ArtifactKey != nil && *s.ArtifactKey != ""
}

// AttachArtifact records the object-store key of the rendered document.
// A statement's artifact is attached at most once.
func (s *Statement) AttachArtifact(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_INPUT", "artifact key cannot be empty")
	}
	if s.HasArtifact() {
		return shared.NewDomainError("INVALID_STATE", "statement already has an artifact attached")
	}
	s.ArtifactKey = &key
	return nil
}

// Finalize transitions the statement from draft to finalized. Finalization
// requires the artifact to be attached; a finalized statement blocks re-runs
// for its contract and period.
func (s *Statement) Finalize() error {
	if s.Status == StatementStatusFinalized {
		return shared.NewDomainError("INVALID_STATE", "statement is already finalized")
	}
	if !s.HasArtifact() {
		return shared.NewDomainError("INVALID_STATE", "cannot finalize a statement without an artifact")
	}
	s.Status = StatementStatusFinalized
	return nil
}

// EmailSent reports whether the statement has ever been delivered
func (s *Statement) EmailSent() bool {
	return s.EmailSentAt != nil
}

// MarkEmailSent records the delivery timestamp. It is set exactly once per
// statement; a second successful send (manual resend) keeps the original
// timestamp and this returns ErrInvalidState so callers skip the write.
func (s *Statement) MarkEmailSent(at time.Time) error {
	if s.EmailSentAt != nil {
		return shared.ErrInvalidState
	}
	t := at
	s.EmailSentAt = &t
	return nil
}

// ArtifactFilename is the download/attachment filename presented to authors
func (s *Statement) ArtifactFilename() string {
	return fmt.Sprintf("royalty-statement-%s.pdf", s.PeriodStart.Format("2006-01"))
}

// ArtifactKeyFor returns the object-store key for a statement document.
// Key convention: statements/{tenantId}/{statementId}.pdf
func ArtifactKeyFor(tenantID, statementID uuid.UUID) string {
	return fmt.Sprintf("statements/%s/%s.pdf", tenantID, statementID)
}
