package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/royalty"
	"github.com/inkhouse/backend/internal/domain/shared"
	"github.com/inkhouse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuthorRepository implements royalty.AuthorRepository using GORM
type GormAuthorRepository struct {
	db *gorm.DB
}

// NewGormAuthorRepository creates a new GormAuthorRepository
func NewGormAuthorRepository(db *gorm.DB) *GormAuthorRepository {
	return &GormAuthorRepository{db: db}
}

// FindByIDForTenant finds an author by ID for a specific tenant
func (r *GormAuthorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*royalty.Author, error) {
	var model models.AuthorModel
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

// Ensure GormAuthorRepository implements AuthorRepository
var _ royalty.AuthorRepository = (*GormAuthorRepository)(nil)
