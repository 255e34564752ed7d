package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partsdepot/backend/internal/domain/catalog"
	"github.com/partsdepot/backend/internal/domain/shared"
)

// GormPartRepository implements PartRepository using GORM
type GormPartRepository struct {
	db *gorm.DB
}

// NewGormPartRepository creates a new GormPartRepository
func NewGormPartRepository(db *gorm.DB) *GormPartRepository {
	return &GormPartRepository{db: db}
}

// FindByID finds a part by its ID
func (r *GormPartRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Part, error) {
	var part catalog.Part
	if err := r.db.WithContext(ctx).First(&part, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// FindBySKU finds a part by its SKU
func (r *GormPartRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Part, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	var part catalog.Part
	if err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		First(&part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// FindByReferenceAndManufacturer finds a part by its fallback business key
func (r *GormPartRepository) FindByReferenceAndManufacturer(ctx context.Context, reference string, manufacturerID uuid.UUID) (*catalog.Part, error) {
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference cannot be empty")
	}
	var part catalog.Part
	if err := r.db.WithContext(ctx).
		Where("reference = ? AND manufacturer_id = ?", reference, manufacturerID).
		First(&part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// FindAll finds all parts matching the filter
func (r *GormPartRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Part, error) {
	var parts []catalog.Part
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Part{}), filter)

	if err := query.Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// Count counts parts matching the filter
func (r *GormPartRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Part{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists a part
func (r *GormPartRepository) Save(ctx context.Context, part *catalog.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

func (r *GormPartRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PartSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormPartRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR reference ILIKE ? OR sku ILIKE ? OR barcode ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "manufacturer_id":
			if value == nil {
				query = query.Where("manufacturer_id IS NULL")
			} else {
				query = query.Where("manufacturer_id = ?", value)
			}
		case "category_id":
			if value == nil {
				query = query.Where("category_id IS NULL")
			} else {
				query = query.Where("category_id = ?", value)
			}
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "in_stock":
			if value == true {
				query = query.Where("stock_available > 0")
			}
		}
	}

	return query
}

// Ensure GormPartRepository implements PartRepository
var _ catalog.PartRepository = (*GormPartRepository)(nil)
