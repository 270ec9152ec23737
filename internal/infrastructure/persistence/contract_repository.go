package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/royalty"
	"github.com/inkhouse/backend/internal/domain/shared"
	"github.com/inkhouse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContractRepository implements royalty.ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindActiveByAuthor returns the author's active contract. When an author
// holds several active contracts the oldest one wins, keeping statement runs
// deterministic.
func (r *GormContractRepository) FindActiveByAuthor(ctx context.Context, tenantID, authorID uuid.UUID) (*royalty.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND author_id = ? AND status = ?", tenantID, authorID, royalty.ContractStatusActive).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveAuthorIDs lists the distinct authors holding at least one active contract
func (r *GormContractRepository) FindActiveAuthorIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	var authorIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.ContractModel{}).
		Distinct("author_id").
		Where("tenant_id = ? AND status = ?", tenantID, royalty.ContractStatusActive).
		Order("author_id ASC").
		Pluck("author_id", &authorIDs).Error; err != nil {
		return nil, err
	}
	return authorIDs, nil
}

// FindByIDForTenant finds a contract by ID for a specific tenant
func (r *GormContractRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*royalty.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, contract *royalty.Contract) error {
	model := models.ContractModelFromDomain(contract)
	return r.db.WithContext(ctx).Save(model).Error
}

// UpdateAdvance persists the contract's advance state with an optimistic
// version check. A stale version means another run recouped against the same
// contract concurrently and surfaces as shared.ErrConcurrencyConflict.
func (r *GormContractRepository) UpdateAdvance(ctx context.Context, contract *royalty.Contract) error {
	result := r.db.WithContext(ctx).
		Model(&models.ContractModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", contract.TenantID, contract.GetID(), contract.Version).
		Updates(map[string]interface{}{
			"advance_recouped": contract.AdvanceRecouped,
			"version":          contract.Version + 1,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	contract.IncrementVersion()
	return nil
}

// Ensure GormContractRepository implements ContractRepository
var _ royalty.ContractRepository = (*GormContractRepository)(nil)
