package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	importapp "github.com/partsdepot/backend/internal/application/import"
	"github.com/partsdepot/backend/internal/domain/catalog"
	"github.com/partsdepot/backend/internal/domain/vehicle"
	csvimport "github.com/partsdepot/backend/internal/infrastructure/import"
	"github.com/partsdepot/backend/internal/infrastructure/persistence"
	"github.com/partsdepot/backend/internal/interfaces/http/dto"
	"github.com/partsdepot/backend/internal/interfaces/http/middleware"
)

const testMaxFileSize = 1 << 20

// newHandlerDB opens a throwaway sqlite database with the full schema
func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
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

func newImportRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())

	db := newHandlerDB(t)
	store := csvimport.NewInMemorySessionStore(time.Hour)
	t.Cleanup(store.Stop)

	service := importapp.NewCatalogImportService(
		persistence.NewGormTransactionScope(db),
		store,
		zap.NewNop(),
	)

	router := gin.New()
	h := NewImportHandler(service, testMaxFileSize)
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func multipartCSV(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestImportPreview(t *testing.T) {
	t.Run("detects structure and proposes mapping", func(t *testing.T) {
		router := newImportRouter(t)

		csv := "Référence;Désignation;Marque;Prix Vente\nFLT-001;Filtre à huile;BOSCH;12,50\n"
		body, contentType := multipartCSV(t, "catalogue.csv", csv, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/preview", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)

		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, ";", data["detected_delimiter"])
		assert.NotEmpty(t, data["session_id"])

		headers, ok := data["headers"].([]any)
		require.True(t, ok)
		assert.Len(t, headers, 4)
		assert.Equal(t, "Référence", headers[0])

		mapping, ok := data["auto_mapping"].([]any)
		require.True(t, ok)
		assert.Len(t, mapping, 4)
	})

	t.Run("missing file returns bad request", func(t *testing.T) {
		router := newImportRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/preview", strings.NewReader(""))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	})

	t.Run("empty file is rejected", func(t *testing.T) {
		router := newImportRouter(t)

		body, contentType := multipartCSV(t, "empty.csv", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/preview", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeImportEmptyFile, resp.Error.Code)
	})

	t.Run("oversized file is rejected", func(t *testing.T) {
		router := newImportRouter(t)

		big := strings.Repeat("a", testMaxFileSize+1)
		body, contentType := multipartCSV(t, "big.csv", big, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/preview", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeImportFileTooLarge, resp.Error.Code)
	})

	t.Run("delimiter override is honored", func(t *testing.T) {
		router := newImportRouter(t)

		csv := "ref|name\nA|B\n"
		body, contentType := multipartCSV(t, "pipes.csv", csv, map[string]string{"delimiter": "|"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/preview", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "|", data["detected_delimiter"])
	})
}

func TestImportCommit(t *testing.T) {
	commitBody := func(t *testing.T, req dto.CommitImportRequest) *bytes.Reader {
		t.Helper()
		raw, err := json.Marshal(req)
		require.NoError(t, err)
		return bytes.NewReader(raw)
	}

	validRequest := func() dto.CommitImportRequest {
		return dto.CommitImportRequest{
			Headers: []string{"reference", "designation", "marque", "prix_vente"},
			Rows: [][]string{
				{"FLT-001", "Filtre à huile", "BOSCH", "12,50"},
				{"FLT-002", "Filtre à air", "MANN", "9,90"},
			},
			Mapping: []dto.ColumnMappingRequest{
				{Column: 0, Field: "reference"},
				{Column: 1, Field: "name"},
				{Column: 2, Field: "manufacturer"},
				{Column: 3, Field: "price_retail"},
			},
		}
	}

	t.Run("reconciles rows and reports counters", func(t *testing.T) {
		router := newImportRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/commit", commitBody(t, validRequest()))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)

		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(2), data["parts_created"])
		assert.Equal(t, float64(2), data["manufacturers_created"])
		assert.Equal(t, float64(2), data["prices_created"])
		assert.Equal(t, false, data["dry_run"])
	})

	t.Run("dry run does not persist", func(t *testing.T) {
		router := newImportRouter(t)

		body := validRequest()
		body.Options.DryRun = true
		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/commit", commitBody(t, body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeResponse(t, rec)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, true, data["dry_run"])
		assert.Equal(t, float64(2), data["parts_created"])

		// a second non-dry-run commit creates everything from scratch
		req2 := httptest.NewRequest(http.MethodPost, "/api/v1/imports/commit", commitBody(t, validRequest()))
		req2.Header.Set("Content-Type", "application/json")
		rec2 := httptest.NewRecorder()
		router.ServeHTTP(rec2, req2)

		require.Equal(t, http.StatusOK, rec2.Code)
		resp2 := decodeResponse(t, rec2)
		data2, ok := resp2.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(2), data2["parts_created"])
	})

	t.Run("malformed json returns invalid json code", func(t *testing.T) {
		router := newImportRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/commit", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})

	t.Run("unknown mapping field is rejected", func(t *testing.T) {
		router := newImportRouter(t)

		body := validRequest()
		body.Mapping[0].Field = "serial_number"
		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/commit", commitBody(t, body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})

	t.Run("mapping column out of range is rejected", func(t *testing.T) {
		router := newImportRouter(t)

		body := validRequest()
		body.Mapping[0].Column = 10
		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/commit", commitBody(t, body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid tva default is rejected", func(t *testing.T) {
		router := newImportRouter(t)

		body := validRequest()
		body.Options.TVARateDefault = "-5"
		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/commit", commitBody(t, body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Message, "tva_rate_default")
	})
}

func TestImportSessionStatus(t *testing.T) {
	t.Run("returns session from preview", func(t *testing.T) {
		router := newImportRouter(t)

		csv := "reference;name\nA-1;Widget\n"
		body, contentType := multipartCSV(t, "in.csv", csv, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/preview", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		sessionID, ok := data["session_id"].(string)
		require.True(t, ok)

		statusReq := httptest.NewRequest(http.MethodGet, "/api/v1/imports/sessions/"+sessionID, nil)
		statusRec := httptest.NewRecorder()
		router.ServeHTTP(statusRec, statusReq)

		require.Equal(t, http.StatusOK, statusRec.Code)
		statusResp := decodeResponse(t, statusRec)
		session, ok := statusResp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, sessionID, session["id"])
		assert.Equal(t, string(csvimport.StateParsed), session["state"])
		assert.Equal(t, "in.csv", session["file_name"])
	})

	t.Run("invalid id returns bad request", func(t *testing.T) {
		router := newImportRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/sessions/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown session returns not found", func(t *testing.T) {
		router := newImportRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/sessions/6f7f0cb2-57a1-4f4d-9d3e-0a4f3f5a9b10", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})
}
