package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/royalty"
	"github.com/inkhouse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRateTierRepository implements royalty.RateTierRepository using GORM
type GormRateTierRepository struct {
	db *gorm.DB
}

// NewGormRateTierRepository creates a new GormRateTierRepository
func NewGormRateTierRepository(db *gorm.DB) *GormRateTierRepository {
	return &GormRateTierRepository{db: db}
}

// FindByContract returns every tier configured for a contract, across all
// formats. Ordering and validation happen in the domain resolver; an empty
// result is not an error here.
func (r *GormRateTierRepository) FindByContract(ctx context.Context, tenantID, contractID uuid.UUID) ([]royalty.RateTier, error) {
	var tierModels []models.RateTierModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND contract_id = ?", tenantID, contractID).
		Order("format ASC, min_quantity ASC").
		Find(&tierModels).Error; err != nil {
		return nil, err
	}
	tiers := make([]royalty.RateTier, len(tierModels))
	for i, model := range tierModels {
		tiers[i] = model.ToDomain()
	}
	return tiers, nil
}

// Ensure GormRateTierRepository implements RateTierRepository
var _ royalty.RateTierRepository = (*GormRateTierRepository)(nil)
