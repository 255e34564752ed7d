package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partsdepot/backend/internal/domain/shared"
	"github.com/partsdepot/backend/internal/domain/vehicle"
)

// GormFitmentRepository implements FitmentRepository using GORM
type GormFitmentRepository struct {
	db *gorm.DB
}

// NewGormFitmentRepository creates a new GormFitmentRepository
func NewGormFitmentRepository(db *gorm.DB) *GormFitmentRepository {
	return &GormFitmentRepository{db: db}
}

// FindByKey finds a fitment by its (part_id, vehicle_model_id, engine_code) business key
func (r *GormFitmentRepository) FindByKey(ctx context.Context, partID, modelID uuid.UUID, engineCode string) (*vehicle.Fitment, error) {
	var fitment vehicle.Fitment
	if err := r.db.WithContext(ctx).
		Where("part_id = ? AND vehicle_model_id = ? AND engine_code = ?", partID, modelID, engineCode).
		First(&fitment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &fitment, nil
}

// FindByPart finds all fitments for a part
func (r *GormFitmentRepository) FindByPart(ctx context.Context, partID uuid.UUID) ([]vehicle.Fitment, error) {
	var fitments []vehicle.Fitment
	if err := r.db.WithContext(ctx).
		Where("part_id = ?", partID).
		Order("created_at ASC").
		Find(&fitments).Error; err != nil {
		return nil, err
	}
	return fitments, nil
}

// Save persists a fitment
func (r *GormFitmentRepository) Save(ctx context.Context, fitment *vehicle.Fitment) error {
	return r.db.WithContext(ctx).Save(fitment).Error
}

// Ensure GormFitmentRepository implements FitmentRepository
var _ vehicle.FitmentRepository = (*GormFitmentRepository)(nil)
