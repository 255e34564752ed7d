package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/partsdepot/backend/internal/domain/shared"
)

// PartRepository defines the persistence interface for parts
type PartRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Part, error)
	// FindBySKU returns the part carrying the given SKU, or shared.ErrNotFound.
	FindBySKU(ctx context.Context, sku string) (*Part, error)
	// FindByReferenceAndManufacturer is the fallback match key when no SKU matches.
	FindByReferenceAndManufacturer(ctx context.Context, reference string, manufacturerID uuid.UUID) (*Part, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Part, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, part *Part) error
}

// ManufacturerRepository defines the persistence interface for manufacturers
type ManufacturerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Manufacturer, error)
	FindByName(ctx context.Context, name string) (*Manufacturer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Manufacturer, error)
	Save(ctx context.Context, manufacturer *Manufacturer) error
}

// CategoryRepository defines the persistence interface for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Save(ctx context.Context, category *Category) error
}

// PartReferenceRepository defines the persistence interface for part references
type PartReferenceRepository interface {
	// FindByKey looks up a reference by its (part_id, type, code) business key.
	FindByKey(ctx context.Context, partID uuid.UUID, refType ReferenceType, code string) (*PartReference, error)
	Save(ctx context.Context, reference *PartReference) error
}
