package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/royalty"
	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
	"github.com/inkhouse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSalesRepository implements royalty.SalesRepository using GORM.
// Sale and return rows are immutable; this repository only reads them.
type GormSalesRepository struct {
	db *gorm.DB
}

// NewGormSalesRepository creates a new GormSalesRepository
func NewGormSalesRepository(db *gorm.DB) *GormSalesRepository {
	return &GormSalesRepository{db: db}
}

// FindSales returns the sale records of a title+format within the half-open period
func (r *GormSalesRepository) FindSales(ctx context.Context, tenantID, titleID uuid.UUID, format royalty.Format, period valueobject.Period) ([]royalty.SaleRecord, error) {
	var saleModels []models.SaleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND title_id = ? AND format = ? AND occurred_at >= ? AND occurred_at < ?",
			tenantID, titleID, format, period.Start, period.End).
		Order("occurred_at ASC").
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	sales := make([]royalty.SaleRecord, len(saleModels))
	for i, model := range saleModels {
		sales[i] = model.ToDomain()
	}
	return sales, nil
}

// FindReturns returns the return records of a title+format within the half-open period
func (r *GormSalesRepository) FindReturns(ctx context.Context, tenantID, titleID uuid.UUID, format royalty.Format, period valueobject.Period) ([]royalty.ReturnRecord, error) {
	var returnModels []models.ReturnModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND title_id = ? AND format = ? AND occurred_at >= ? AND occurred_at < ?",
			tenantID, titleID, format, period.Start, period.End).
		Order("occurred_at ASC").
		Find(&returnModels).Error; err != nil {
		return nil, err
	}
	returns := make([]royalty.ReturnRecord, len(returnModels))
	for i, model := range returnModels {
		returns[i] = model.ToDomain()
	}
	return returns, nil
}

// Ensure GormSalesRepository implements SalesRepository
var _ royalty.SalesRepository = (*GormSalesRepository)(nil)
