package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.POST("/echo", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})
	return router
}

func TestRequestID(t *testing.T) {
	t.Run("generates id when missing", func(t *testing.T) {
		router := newTestRouter(RequestID())

		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		id := rec.Header().Get("X-Request-ID")
		assert.NotEmpty(t, id)
		// generated IDs are 16 random bytes hex encoded
		assert.Len(t, id, 32)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("preserves client id", func(t *testing.T) {
		router := newTestRouter(RequestID())

		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		req.Header.Set("X-Request-ID", "client-id-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "client-id-123", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "client-id-123", rec.Body.String())
	})

	t.Run("ids differ between requests", func(t *testing.T) {
		router := newTestRouter(RequestID())

		ids := make(map[string]bool)
		for i := 0; i < 10; i++ {
			req := httptest.NewRequest(http.MethodGet, "/echo", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			ids[rec.Header().Get("X-Request-ID")] = true
		}
		assert.Len(t, ids, 10)
	})
}

func TestBodyLimit(t *testing.T) {
	t.Run("allows small bodies", func(t *testing.T) {
		router := newTestRouter(BodyLimit(64))

		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("small"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects oversized content length", func(t *testing.T) {
		router := newTestRouter(BodyLimit(8))

		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("this body is way too large"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Contains(t, rec.Body.String(), "ERR_IMPORT_FILE_TOO_LARGE")
	})
}

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	type mappingEntry struct {
		Field string `binding:"required,import_field"`
	}

	t.Run("accepts known field", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&mappingEntry{Field: "reference"})
		assert.NoError(t, err)
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&mappingEntry{Field: "serial_number"})
		assert.Error(t, err)
	})
}

func TestSecurityHeaders(t *testing.T) {
	router := newTestRouter(SecurityHeaders())

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
