package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partsdepot/backend/internal/domain/catalog"
	"github.com/partsdepot/backend/internal/domain/shared"
)

// GormManufacturerRepository implements ManufacturerRepository using GORM
type GormManufacturerRepository struct {
	db *gorm.DB
}

// NewGormManufacturerRepository creates a new GormManufacturerRepository
func NewGormManufacturerRepository(db *gorm.DB) *GormManufacturerRepository {
	return &GormManufacturerRepository{db: db}
}

// FindByID finds a manufacturer by its ID
func (r *GormManufacturerRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Manufacturer, error) {
	var manufacturer catalog.Manufacturer
	if err := r.db.WithContext(ctx).First(&manufacturer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &manufacturer, nil
}

// FindByName finds a manufacturer by its exact name
func (r *GormManufacturerRepository) FindByName(ctx context.Context, name string) (*catalog.Manufacturer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	var manufacturer catalog.Manufacturer
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&manufacturer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &manufacturer, nil
}

// FindAll finds all manufacturers matching the filter
func (r *GormManufacturerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Manufacturer, error) {
	var manufacturers []catalog.Manufacturer
	query := r.db.WithContext(ctx).Model(&catalog.Manufacturer{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("name ASC")

	if err := query.Find(&manufacturers).Error; err != nil {
		return nil, err
	}
	return manufacturers, nil
}

// Save persists a manufacturer
func (r *GormManufacturerRepository) Save(ctx context.Context, manufacturer *catalog.Manufacturer) error {
	return r.db.WithContext(ctx).Save(manufacturer).Error
}

// Ensure GormManufacturerRepository implements ManufacturerRepository
var _ catalog.ManufacturerRepository = (*GormManufacturerRepository)(nil)
