package vehicle

import (
	"github.com/google/uuid"
	"github.com/partsdepot/backend/internal/domain/shared"
)

// Model represents a vehicle model generation under a brand.
// The business key is (brand_id, name, year_from, year_to); a year of zero
// means the bound is unspecified, so the composite unique index stays usable.
type Model struct {
	shared.BaseAggregateRoot
	BrandID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vehicle_models_key,priority:1"`
	Name     string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_vehicle_models_key,priority:2"`
	YearFrom int       `gorm:"not null;default:0;uniqueIndex:idx_vehicle_models_key,priority:3"`
	YearTo   int       `gorm:"not null;default:0;uniqueIndex:idx_vehicle_models_key,priority:4"`
}

// TableName returns the table name for GORM
func (Model) TableName() string {
	return "vehicle_models"
}

// NewModel creates a new vehicle model
func NewModel(brandID uuid.UUID, name string, yearFrom, yearTo int) (*Model, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Model name cannot be empty")
	}
	if len(name) > 128 {
		return nil, shared.NewDomainError("INVALID_NAME", "Model name cannot exceed 128 characters")
	}
	if yearTo != 0 && yearFrom != 0 && yearTo < yearFrom {
		return nil, shared.NewDomainError("INVALID_YEARS", "year_to cannot precede year_from")
	}
	return &Model{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BrandID:           brandID,
		Name:              name,
		YearFrom:          yearFrom,
		YearTo:            yearTo,
	}, nil
}
