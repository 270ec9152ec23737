package royalty

import (
	"context"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
)

// ContractRepository reads contracts and persists advance recoupment.
// Every call is scoped by tenant id; tenant isolation is a repository-level
// invariant, not re-derived by callers.
type ContractRepository interface {
	// FindActiveByAuthor returns the author's active contract, or
	// shared.ErrNotFound if the author holds none.
	FindActiveByAuthor(ctx context.Context, tenantID, authorID uuid.UUID) (*Contract, error)
	// FindActiveAuthorIDs lists the authors holding at least one active
	// contract, for "all eligible" batch runs.
	FindActiveAuthorIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error)
	// UpdateAdvance persists the contract's advance state with an optimistic
	// version check; a stale version surfaces shared.ErrConcurrencyConflict.
	UpdateAdvance(ctx context.Context, contract *Contract) error
}

// RateTierRepository reads the rate tiers configured for a contract
type RateTierRepository interface {
	FindByContract(ctx context.Context, tenantID, contractID uuid.UUID) ([]RateTier, error)
}

// SalesRepository reads immutable sale and return records for a title
type SalesRepository interface {
	FindSales(ctx context.Context, tenantID, titleID uuid.UUID, format Format, period valueobject.Period) ([]SaleRecord, error)
	FindReturns(ctx context.Context, tenantID, titleID uuid.UUID, format Format, period valueobject.Period) ([]ReturnRecord, error)
}

// AuthorRepository reads author contact details
type AuthorRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Author, error)
}

// StatementRepository persists royalty statements
type StatementRepository interface {
	// Insert creates a new statement. A unique-constraint conflict on
	// (tenant, contract, period) surfaces as DuplicateStatementError.
	Insert(ctx context.Context, statement *Statement) error
	// Update persists artifact attachment, finalization and the one-time
	// email timestamp with an optimistic version check.
	Update(ctx context.Context, statement *Statement) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Statement, error)
	// FindByContractAndPeriod returns the statement for the exact period
	// bounds, or shared.ErrNotFound.
	FindByContractAndPeriod(ctx context.Context, tenantID, contractID uuid.UUID, period valueobject.Period) (*Statement, error)
}
