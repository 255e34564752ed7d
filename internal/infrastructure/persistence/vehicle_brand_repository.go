package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partsdepot/backend/internal/domain/shared"
	"github.com/partsdepot/backend/internal/domain/vehicle"
)

// GormBrandRepository implements BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// FindByID finds a vehicle brand by its ID
func (r *GormBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Brand, error) {
	var brand vehicle.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}

// FindByName finds a vehicle brand by its exact name
func (r *GormBrandRepository) FindByName(ctx context.Context, name string) (*vehicle.Brand, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	var brand vehicle.Brand
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}

// FindAll finds all vehicle brands matching the filter
func (r *GormBrandRepository) FindAll(ctx context.Context, filter shared.Filter) ([]vehicle.Brand, error) {
	var brands []vehicle.Brand
	query := r.db.WithContext(ctx).Model(&vehicle.Brand{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("name ASC")

	if err := query.Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

// Save persists a vehicle brand
func (r *GormBrandRepository) Save(ctx context.Context, brand *vehicle.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

// Ensure GormBrandRepository implements BrandRepository
var _ vehicle.BrandRepository = (*GormBrandRepository)(nil)
