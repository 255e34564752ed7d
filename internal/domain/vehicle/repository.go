package vehicle

import (
	"context"

	"github.com/google/uuid"
	"github.com/partsdepot/backend/internal/domain/shared"
)

// BrandRepository defines the persistence interface for vehicle brands
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindByName(ctx context.Context, name string) (*Brand, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Brand, error)
	Save(ctx context.Context, brand *Brand) error
}

// ModelRepository defines the persistence interface for vehicle models
type ModelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Model, error)
	// FindByKey looks up a model by its (brand_id, name, year_from, year_to)
	// business key. A zero year means the bound is unspecified.
	FindByKey(ctx context.Context, brandID uuid.UUID, name string, yearFrom, yearTo int) (*Model, error)
	FindByBrand(ctx context.Context, brandID uuid.UUID, filter shared.Filter) ([]Model, error)
	Save(ctx context.Context, model *Model) error
}

// FitmentRepository defines the persistence interface for fitment links
type FitmentRepository interface {
	// FindByKey looks up a fitment by its (part_id, vehicle_model_id,
	// engine_code) business key; engine code may be empty.
	FindByKey(ctx context.Context, partID, modelID uuid.UUID, engineCode string) (*Fitment, error)
	FindByPart(ctx context.Context, partID uuid.UUID) ([]Fitment, error)
	Save(ctx context.Context, fitment *Fitment) error
}
