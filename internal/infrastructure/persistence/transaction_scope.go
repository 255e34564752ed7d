package persistence

import (
	"context"

	"gorm.io/gorm"

	importapp "github.com/partsdepot/backend/internal/application/import"
	"github.com/partsdepot/backend/internal/domain/catalog"
	"github.com/partsdepot/backend/internal/domain/vehicle"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos importapp.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Parts returns the part repository scoped to the current transaction
func (r *gormTransactionalRepositories) Parts() catalog.PartRepository {
	return NewGormPartRepository(r.tx)
}

// Manufacturers returns the manufacturer repository scoped to the current transaction
func (r *gormTransactionalRepositories) Manufacturers() catalog.ManufacturerRepository {
	return NewGormManufacturerRepository(r.tx)
}

// Categories returns the category repository scoped to the current transaction
func (r *gormTransactionalRepositories) Categories() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

// PartReferences returns the part reference repository scoped to the current transaction
func (r *gormTransactionalRepositories) PartReferences() catalog.PartReferenceRepository {
	return NewGormPartReferenceRepository(r.tx)
}

// VehicleBrands returns the vehicle brand repository scoped to the current transaction
func (r *gormTransactionalRepositories) VehicleBrands() vehicle.BrandRepository {
	return NewGormBrandRepository(r.tx)
}

// VehicleModels returns the vehicle model repository scoped to the current transaction
func (r *gormTransactionalRepositories) VehicleModels() vehicle.ModelRepository {
	return NewGormModelRepository(r.tx)
}

// Fitments returns the fitment repository scoped to the current transaction
func (r *gormTransactionalRepositories) Fitments() vehicle.FitmentRepository {
	return NewGormFitmentRepository(r.tx)
}

// Atomic runs fn inside a nested transaction, which GORM maps to a savepoint.
// A failed statement rolls back to the savepoint instead of aborting the
// enclosing transaction, so follow-up queries keep working.
func (r *gormTransactionalRepositories) Atomic(ctx context.Context, fn func(repos importapp.Repositories) error) error {
	return r.tx.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Ensure GormTransactionScope implements TransactionScope
var _ importapp.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements Repositories
var _ importapp.Repositories = (*gormTransactionalRepositories)(nil)
