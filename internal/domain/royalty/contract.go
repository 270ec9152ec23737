package royalty

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ContractStatus represents the lifecycle status of a publishing contract
type ContractStatus string

const (
	ContractStatusActive   ContractStatus = "ACTIVE"
	ContractStatusInactive ContractStatus = "INACTIVE"
)

// IsValid checks if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	return s == ContractStatusActive || s == ContractStatusInactive
}

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// Contract is a publishing contract between the tenant and one author for one
// title. It carries the advance state the royalty calculation recoups against.
// AdvanceRecouped is cumulative and monotonically non-decreasing; it never
// exceeds AdvanceAmount.
type Contract struct {
	shared.TenantAggregateRoot
	AuthorID        uuid.UUID
	TitleID         uuid.UUID
	Status          ContractStatus
	AdvanceAmount   decimal.Decimal
	AdvanceRecouped decimal.Decimal
}

// NewContract creates a new active contract with an unrecouped advance
func NewContract(tenantID, authorID, titleID uuid.UUID, advance decimal.Decimal) (*Contract, error) {
	if advance.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "advance amount cannot be negative")
	}
	return &Contract{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AuthorID:            authorID,
		TitleID:             titleID,
		Status:              ContractStatusActive,
		AdvanceAmount:       advance,
		AdvanceRecouped:     decimal.Zero,
	}, nil
}

// IsActive reports whether royalty statements may be generated for the contract
func (c *Contract) IsActive() bool {
	return c.Status == ContractStatusActive
}

// RemainingAdvance returns the unrecouped portion of the advance
func (c *Contract) RemainingAdvance() decimal.Decimal {
	return c.AdvanceAmount.Sub(c.AdvanceRecouped)
}

// ApplyRecoupment advances the cumulative recouped amount. The amount must be
// non-negative and must not push AdvanceRecouped past AdvanceAmount; callers
// derive it with min(grossRoyalty, remainingAdvance), so a violation here
// indicates a stale read of the advance state.
func (c *Contract) ApplyRecoupment(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "recoupment amount cannot be negative")
	}
	next := c.AdvanceRecouped.Add(amount)
	if next.GreaterThan(c.AdvanceAmount) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("recoupment %s would exceed advance %s (already recouped %s)",
				amount.String(), c.AdvanceAmount.String(), c.AdvanceRecouped.String()))
	}
	c.AdvanceRecouped = next
	return nil
}
