package importapp

import (
	"context"

	"github.com/partsdepot/backend/internal/domain/catalog"
	"github.com/partsdepot/backend/internal/domain/vehicle"
)

// TransactionScope provides transactional access to the catalog repositories.
// A commit runs inside one Execute call: every repository operation in the
// callback shares the same database transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back;
	// otherwise it is committed.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories exposes the repositories the reconciler writes through.
// All of them share the same underlying transaction.
type Repositories interface {
	Parts() catalog.PartRepository
	Manufacturers() catalog.ManufacturerRepository
	Categories() catalog.CategoryRepository
	PartReferences() catalog.PartReferenceRepository
	VehicleBrands() vehicle.BrandRepository
	VehicleModels() vehicle.ModelRepository
	Fitments() vehicle.FitmentRepository

	// Atomic runs fn inside a savepoint on the enclosing transaction. When fn
	// fails, only its own statements are undone; the transaction stays usable.
	// Postgres aborts the whole transaction after any failed statement, so a
	// constraint-violation retry needs this isolation.
	Atomic(ctx context.Context, fn func(repos Repositories) error) error
}

// NoOpTransactionScope runs the callback without a real transaction.
// Used in tests where repositories are mocked.
type NoOpTransactionScope struct {
	PartRepo          catalog.PartRepository
	ManufacturerRepo  catalog.ManufacturerRepository
	CategoryRepo      catalog.CategoryRepository
	PartReferenceRepo catalog.PartReferenceRepository
	BrandRepo         vehicle.BrandRepository
	ModelRepo         vehicle.ModelRepository
	FitmentRepo       vehicle.FitmentRepository
}

// Execute runs the function directly against the configured repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

// Parts returns the part repository
func (s *NoOpTransactionScope) Parts() catalog.PartRepository { return s.PartRepo }

// Manufacturers returns the manufacturer repository
func (s *NoOpTransactionScope) Manufacturers() catalog.ManufacturerRepository {
	return s.ManufacturerRepo
}

// Categories returns the category repository
func (s *NoOpTransactionScope) Categories() catalog.CategoryRepository { return s.CategoryRepo }

// PartReferences returns the part reference repository
func (s *NoOpTransactionScope) PartReferences() catalog.PartReferenceRepository {
	return s.PartReferenceRepo
}

// VehicleBrands returns the vehicle brand repository
func (s *NoOpTransactionScope) VehicleBrands() vehicle.BrandRepository { return s.BrandRepo }

// VehicleModels returns the vehicle model repository
func (s *NoOpTransactionScope) VehicleModels() vehicle.ModelRepository { return s.ModelRepo }

// Fitments returns the fitment repository
func (s *NoOpTransactionScope) Fitments() vehicle.FitmentRepository { return s.FitmentRepo }

// Atomic runs the function directly; mocked repositories have no
// transaction to poison
func (s *NoOpTransactionScope) Atomic(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

var (
	_ TransactionScope = (*NoOpTransactionScope)(nil)
	_ Repositories     = (*NoOpTransactionScope)(nil)
)
