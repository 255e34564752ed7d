package catalog

import (
	"github.com/partsdepot/backend/internal/domain/shared"
)

// DefaultCategoryName is the sentinel category used when a row carries no
// usable category information.
const DefaultCategoryName = "UNCLASSIFIED"

// Category groups parts for storefront navigation. Identified by unique name.
type Category struct {
	shared.BaseAggregateRoot
	Name string `gorm:"type:varchar(128);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name string) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 128 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 128 characters")
	}
	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}
