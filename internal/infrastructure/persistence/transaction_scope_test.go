package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	importapp "github.com/partsdepot/backend/internal/application/import"
	"github.com/partsdepot/backend/internal/domain/catalog"
	"github.com/partsdepot/backend/internal/domain/shared"
)

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db := newTestDB(t)
		scope := NewGormTransactionScope(db)

		err := scope.Execute(ctx, func(repos importapp.Repositories) error {
			m, err := catalog.NewManufacturer("MANN")
			if err != nil {
				return err
			}
			return repos.Manufacturers().Save(ctx, m)
		})
		require.NoError(t, err)

		_, err = NewGormManufacturerRepository(db).FindByName(ctx, "MANN")
		assert.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := newTestDB(t)
		scope := NewGormTransactionScope(db)
		sentinel := errors.New("rollback please")

		err := scope.Execute(ctx, func(repos importapp.Repositories) error {
			m, err := catalog.NewManufacturer("MANN")
			if err != nil {
				return err
			}
			if err := repos.Manufacturers().Save(ctx, m); err != nil {
				return err
			}
			// the write must be visible inside the transaction
			if _, err := repos.Manufacturers().FindByName(ctx, "MANN"); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		_, err = NewGormManufacturerRepository(db).FindByName(ctx, "MANN")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("atomic isolates a failed statement", func(t *testing.T) {
		db := newTestDB(t)
		scope := NewGormTransactionScope(db)

		err := scope.Execute(ctx, func(repos importapp.Repositories) error {
			first, err := catalog.NewManufacturer("MANN")
			if err != nil {
				return err
			}
			if err := repos.Manufacturers().Save(ctx, first); err != nil {
				return err
			}

			dup, err := catalog.NewManufacturer("MANN")
			if err != nil {
				return err
			}
			saveErr := repos.Atomic(ctx, func(repos importapp.Repositories) error {
				return repos.Manufacturers().Save(ctx, dup)
			})
			require.ErrorIs(t, saveErr, gorm.ErrDuplicatedKey)

			// the transaction must still be usable after the failed insert
			if _, err := repos.Manufacturers().FindByName(ctx, "MANN"); err != nil {
				return err
			}
			second, err := catalog.NewManufacturer("BOSCH")
			if err != nil {
				return err
			}
			return repos.Manufacturers().Save(ctx, second)
		})
		require.NoError(t, err)

		repo := NewGormManufacturerRepository(db)
		_, err = repo.FindByName(ctx, "MANN")
		assert.NoError(t, err)
		_, err = repo.FindByName(ctx, "BOSCH")
		assert.NoError(t, err)
	})

	t.Run("repositories share one transaction", func(t *testing.T) {
		db := newTestDB(t)
		scope := NewGormTransactionScope(db)

		err := scope.Execute(ctx, func(repos importapp.Repositories) error {
			part, err := catalog.NewPart("OC90", "SKU-1", "Oil filter")
			if err != nil {
				return err
			}
			if err := repos.Parts().Save(ctx, part); err != nil {
				return err
			}
			ref, err := catalog.NewPartReference(part.ID, catalog.ReferenceTypeOEM, "OC90")
			if err != nil {
				return err
			}
			return repos.PartReferences().Save(ctx, ref)
		})
		require.NoError(t, err)

		part, err := NewGormPartRepository(db).FindBySKU(ctx, "SKU-1")
		require.NoError(t, err)
		_, err = NewGormPartReferenceRepository(db).FindByKey(ctx, part.ID, catalog.ReferenceTypeOEM, "OC90")
		assert.NoError(t, err)
	})
}
