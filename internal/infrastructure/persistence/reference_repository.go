package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partsdepot/backend/internal/domain/catalog"
	"github.com/partsdepot/backend/internal/domain/shared"
)

// GormPartReferenceRepository implements PartReferenceRepository using GORM
type GormPartReferenceRepository struct {
	db *gorm.DB
}

// NewGormPartReferenceRepository creates a new GormPartReferenceRepository
func NewGormPartReferenceRepository(db *gorm.DB) *GormPartReferenceRepository {
	return &GormPartReferenceRepository{db: db}
}

// FindByKey finds a reference by its (part_id, type, code) business key
func (r *GormPartReferenceRepository) FindByKey(ctx context.Context, partID uuid.UUID, refType catalog.ReferenceType, code string) (*catalog.PartReference, error) {
	var reference catalog.PartReference
	if err := r.db.WithContext(ctx).
		Where("part_id = ? AND type = ? AND code = ?", partID, refType, code).
		First(&reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reference, nil
}

// Save persists a part reference
func (r *GormPartReferenceRepository) Save(ctx context.Context, reference *catalog.PartReference) error {
	return r.db.WithContext(ctx).Save(reference).Error
}

// Ensure GormPartReferenceRepository implements PartReferenceRepository
var _ catalog.PartReferenceRepository = (*GormPartReferenceRepository)(nil)
