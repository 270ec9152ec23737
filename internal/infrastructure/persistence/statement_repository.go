package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/royalty"
	"github.com/inkhouse/backend/internal/domain/shared"
	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
	"github.com/inkhouse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStatementRepository implements royalty.StatementRepository using GORM
type GormStatementRepository struct {
	db *gorm.DB
}

// NewGormStatementRepository creates a new GormStatementRepository
func NewGormStatementRepository(db *gorm.DB) *GormStatementRepository {
	return &GormStatementRepository{db: db}
}

// Insert creates a new statement row. The unique index over
// (tenant, contract, period) turns a concurrent or repeated run into a
// DuplicateStatementError instead of a second statement.
func (r *GormStatementRepository) Insert(ctx context.Context, statement *royalty.Statement) error {
	model := models.StatementModelFromDomain(statement)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &royalty.DuplicateStatementError{
				ContractID:  statement.ContractID,
				PeriodStart: statement.PeriodStart,
				PeriodEnd:   statement.PeriodEnd,
			}
		}
		return err
	}
	return nil
}

// Update persists statement mutations with an optimistic version check
func (r *GormStatementRepository) Update(ctx context.Context, statement *royalty.Statement) error {
	model := models.StatementModelFromDomain(statement)
	model.Version = statement.Version + 1
	result := r.db.WithContext(ctx).
		Model(&models.StatementModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", statement.TenantID, statement.GetID(), statement.Version).
		Select("artifact_key", "status", "email_sent_at", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	statement.IncrementVersion()
	return nil
}

// FindByIDForTenant finds a statement by ID for a specific tenant
func (r *GormStatementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*royalty.Statement, error) {
	var model models.StatementModel
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

// FindByContractAndPeriod returns the statement matching the exact period bounds
func (r *GormStatementRepository) FindByContractAndPeriod(ctx context.Context, tenantID, contractID uuid.UUID, period valueobject.Period) (*royalty.Statement, error) {
	var model models.StatementModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND contract_id = ? AND period_start = ? AND period_end = ?",
			tenantID, contractID, period.Start, period.End).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormStatementRepository implements StatementRepository
var _ royalty.StatementRepository = (*GormStatementRepository)(nil)
