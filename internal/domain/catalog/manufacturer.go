package catalog

import (
	"github.com/partsdepot/backend/internal/domain/shared"
)

// Manufacturer represents a part manufacturer (e.g. Valeo, Bosch).
// Identified by its unique name; created on first encounter during import.
type Manufacturer struct {
	shared.BaseAggregateRoot
	Name string `gorm:"type:varchar(128);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Manufacturer) TableName() string {
	return "manufacturers"
}

// NewManufacturer creates a new manufacturer
func NewManufacturer(name string) (*Manufacturer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Manufacturer name cannot be empty")
	}
	if len(name) > 128 {
		return nil, shared.NewDomainError("INVALID_NAME", "Manufacturer name cannot exceed 128 characters")
	}
	return &Manufacturer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}
