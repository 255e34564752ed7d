package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/partsdepot/backend/internal/domain/catalog"
	"github.com/partsdepot/backend/internal/domain/vehicle"
	"github.com/partsdepot/backend/internal/infrastructure/persistence"
)

func newCatalogRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newHandlerDB(t)
	router := gin.New()
	api := router.Group("/api/v1")

	catalogHandler := NewCatalogHandler(
		persistence.NewGormPartRepository(db),
		persistence.NewGormManufacturerRepository(db),
		persistence.NewGormCategoryRepository(db),
	)
	catalogHandler.RegisterRoutes(api)

	vehicleHandler := NewVehicleHandler(
		persistence.NewGormBrandRepository(db),
		persistence.NewGormModelRepository(db),
	)
	vehicleHandler.RegisterRoutes(api)

	return router, db
}

func seedPart(t *testing.T, db *gorm.DB, reference, name string) *catalog.Part {
	t.Helper()

	part, err := catalog.NewPart(reference, "", name)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormPartRepository(db).Save(context.Background(), part))
	return part
}

func TestListParts(t *testing.T) {
	t.Run("returns paginated parts with meta", func(t *testing.T) {
		router, db := newCatalogRouter(t)
		seedPart(t, db, "FLT-001", "Filtre à huile")
		seedPart(t, db, "FLT-002", "Filtre à air")
		seedPart(t, db, "PLQ-001", "Plaquettes avant")

		req := httptest.NewRequest(http.MethodGet, "/api/v1/parts?page=1&page_size=2&order_by=reference&order_dir=asc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)

		items, ok := resp.Data.([]any)
		require.True(t, ok)
		assert.Len(t, items, 2)
		first, ok := items[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "FLT-001", first["reference"])

		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(3), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.TotalPages)
	})

	t.Run("filters by manufacturer", func(t *testing.T) {
		router, db := newCatalogRouter(t)

		manufacturer, err := catalog.NewManufacturer("BOSCH")
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormManufacturerRepository(db).Save(context.Background(), manufacturer))

		attributed := seedPart(t, db, "FLT-001", "Filtre à huile")
		attributed.SetManufacturer(&manufacturer.ID)
		require.NoError(t, persistence.NewGormPartRepository(db).Save(context.Background(), attributed))
		seedPart(t, db, "FLT-002", "Filtre à air")

		req := httptest.NewRequest(http.MethodGet, "/api/v1/parts?manufacturer_id="+manufacturer.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		items, ok := resp.Data.([]any)
		require.True(t, ok)
		require.Len(t, items, 1)
		only, ok := items[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "FLT-001", only["reference"])
		assert.Equal(t, manufacturer.ID.String(), only["manufacturer_id"])
	})

	t.Run("invalid manufacturer filter", func(t *testing.T) {
		router, _ := newCatalogRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/parts?manufacturer_id=not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetPart(t *testing.T) {
	t.Run("returns part by id", func(t *testing.T) {
		router, db := newCatalogRouter(t)
		part := seedPart(t, db, "FLT-001", "Filtre à huile")

		req := httptest.NewRequest(http.MethodGet, "/api/v1/parts/"+part.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, part.ID.String(), data["id"])
		assert.Equal(t, "Filtre à huile", data["name"])
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		router, _ := newCatalogRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/parts/86f3a9a3-11a6-4cf1-8c8b-6c2c5f8ab001", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id returns bad request", func(t *testing.T) {
		router, _ := newCatalogRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/parts/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListManufacturers(t *testing.T) {
	router, db := newCatalogRouter(t)

	for _, name := range []string{"VALEO", "BOSCH", "MANN"} {
		m, err := catalog.NewManufacturer(name)
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormManufacturerRepository(db).Save(context.Background(), m))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/manufacturers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	items, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, items, 3)

	// manufacturers come back sorted by name
	names := make([]string, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		require.True(t, ok)
		names = append(names, m["name"].(string))
	}
	assert.Equal(t, []string{"BOSCH", "MANN", "VALEO"}, names)
}

func TestListVehicleBrandsAndModels(t *testing.T) {
	router, db := newCatalogRouter(t)

	brand, err := vehicle.NewBrand("RENAULT")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormBrandRepository(db).Save(context.Background(), brand))

	clio, err := vehicle.NewModel(brand.ID, "CLIO III", 2005, 2012)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormModelRepository(db).Save(context.Background(), clio))
	megane, err := vehicle.NewModel(brand.ID, "MEGANE II", 2002, 2009)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormModelRepository(db).Save(context.Background(), megane))

	t.Run("list brands", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicle-brands", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		items, ok := resp.Data.([]any)
		require.True(t, ok)
		require.Len(t, items, 1)
		b, ok := items[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "RENAULT", b["name"])
	})

	t.Run("list models for brand", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicle-brands/"+brand.ID.String()+"/models", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		items, ok := resp.Data.([]any)
		require.True(t, ok)
		require.Len(t, items, 2)
		first, ok := items[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "CLIO III", first["name"])
		assert.Equal(t, float64(2005), first["year_from"])
	})

	t.Run("unknown brand returns empty list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicle-brands/86f3a9a3-11a6-4cf1-8c8b-6c2c5f8ab001/models", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		items, ok := resp.Data.([]any)
		require.True(t, ok)
		assert.Empty(t, items)
	})
}
