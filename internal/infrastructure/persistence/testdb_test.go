package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/partsdepot/backend/internal/domain/catalog"
	"github.com/partsdepot/backend/internal/domain/vehicle"
)

// newTestDB opens a throwaway sqlite database with the full schema.
// TranslateError mirrors the production connection so unique violations
// surface as gorm.ErrDuplicatedKey.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Manufacturer{},
		&catalog.Category{},
		&catalog.Part{},
		&catalog.PartReference{},
		&vehicle.Brand{},
		&vehicle.Model{},
		&vehicle.Fitment{},
	))
	return db
}
