package vehicle

import (
	"github.com/partsdepot/backend/internal/domain/shared"
)

// Brand represents a vehicle make (e.g. Volkswagen, Renault).
// Identified by its unique name; created on first encounter during import.
type Brand struct {
	shared.BaseAggregateRoot
	Name string `gorm:"type:varchar(128);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "vehicle_brands"
}

// NewBrand creates a new vehicle brand
func NewBrand(name string) (*Brand, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}
	if len(name) > 128 {
		return nil, shared.NewDomainError("INVALID_NAME", "Brand name cannot exceed 128 characters")
	}
	return &Brand{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}
