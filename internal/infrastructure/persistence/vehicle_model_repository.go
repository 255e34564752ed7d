package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partsdepot/backend/internal/domain/shared"
	"github.com/partsdepot/backend/internal/domain/vehicle"
)

// GormModelRepository implements ModelRepository using GORM
type GormModelRepository struct {
	db *gorm.DB
}

// NewGormModelRepository creates a new GormModelRepository
func NewGormModelRepository(db *gorm.DB) *GormModelRepository {
	return &GormModelRepository{db: db}
}

// FindByID finds a vehicle model by its ID
func (r *GormModelRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Model, error) {
	var model vehicle.Model
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

// FindByKey finds a model by its (brand_id, name, year_from, year_to) business key
func (r *GormModelRepository) FindByKey(ctx context.Context, brandID uuid.UUID, name string, yearFrom, yearTo int) (*vehicle.Model, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	var model vehicle.Model
	if err := r.db.WithContext(ctx).
		Where("brand_id = ? AND name = ? AND year_from = ? AND year_to = ?", brandID, name, yearFrom, yearTo).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

// FindByBrand finds all models for a vehicle brand
func (r *GormModelRepository) FindByBrand(ctx context.Context, brandID uuid.UUID, filter shared.Filter) ([]vehicle.Model, error) {
	var models []vehicle.Model
	query := r.db.WithContext(ctx).Model(&vehicle.Model{}).Where("brand_id = ?", brandID)

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ModelSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

// Save persists a vehicle model
func (r *GormModelRepository) Save(ctx context.Context, model *vehicle.Model) error {
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormModelRepository implements ModelRepository
var _ vehicle.ModelRepository = (*GormModelRepository)(nil)
