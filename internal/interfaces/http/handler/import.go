package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	importapp "github.com/partsdepot/backend/internal/application/import"
	"github.com/partsdepot/backend/internal/domain/shared"
	csvimport "github.com/partsdepot/backend/internal/infrastructure/import"
	"github.com/partsdepot/backend/internal/interfaces/http/dto"
)

// ImportHandler handles catalog import API endpoints
type ImportHandler struct {
	BaseHandler
	service     *importapp.CatalogImportService
	maxFileSize int64
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(service *importapp.CatalogImportService, maxFileSize int64) *ImportHandler {
	return &ImportHandler{
		service:     service,
		maxFileSize: maxFileSize,
	}
}

// RegisterRoutes registers import routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	imports := rg.Group("/imports")
	{
		imports.POST("/preview", h.Preview)
		imports.POST("/commit", h.Commit)
		imports.GET("/sessions/:id", h.SessionStatus)
	}
}

// Preview accepts a CSV upload and returns detected structure, sample rows
// and a proposed column mapping
func (h *ImportHandler) Preview(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		h.ErrorWithCode(c, dto.ErrCodeImportFileTooLarge, "file exceeds maximum allowed size")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && contentType != "text/csv" && contentType != "application/octet-stream" &&
		contentType != "text/plain" && contentType != "application/vnd.ms-excel" {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return
	}
	if int64(len(content)) > h.maxFileSize {
		h.ErrorWithCode(c, dto.ErrCodeImportFileTooLarge, "file exceeds maximum allowed size")
		return
	}

	hasHeader := true
	if v := c.PostForm("has_header"); v != "" {
		hasHeader = v != "false" && v != "0"
	}

	result, err := h.service.Preview(c.Request.Context(), importapp.PreviewInput{
		FileName:  header.Filename,
		Content:   content,
		Delimiter: c.PostForm("delimiter"),
		HasHeader: hasHeader,
	})
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	h.Success(c, result)
}

// Commit reconciles the confirmed rows against the catalog
func (h *ImportHandler) Commit(c *gin.Context) {
	var req dto.CommitImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	mapping, err := buildMapping(req.Headers, req.Mapping)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	options := importapp.CommitOptions{
		DefaultManufacturer: strings.TrimSpace(req.Options.DefaultManufacturer),
		DryRun:              req.Options.DryRun,
	}
	if raw := strings.TrimSpace(req.Options.TVARateDefault); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil || rate.IsNegative() {
			h.BadRequest(c, "tva_rate_default must be a non-negative decimal")
			return
		}
		options.TVARateDefault = &rate
	}

	result, err := h.service.Commit(c.Request.Context(), importapp.CommitInput{
		SessionID: req.SessionID,
		Headers:   req.Headers,
		Rows:      req.Rows,
		Mapping:   mapping,
		Options:   options,
	})
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	h.Success(c, result)
}

// SessionStatus returns the state of an import session
func (h *ImportHandler) SessionStatus(c *gin.Context) {
	var req dto.SessionIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "invalid session id")
		return
	}

	session, err := h.service.SessionStatus(req.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "import session not found")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// buildMapping converts the request mapping entries into the pipeline's
// column mapping, validating field names and column bounds
func buildMapping(headers []string, entries []dto.ColumnMappingRequest) (csvimport.Mapping, error) {
	mapping := make(csvimport.Mapping, 0, len(entries))
	for _, entry := range entries {
		if !csvimport.IsValidField(entry.Field) {
			return nil, shared.NewDomainError("INVALID_INPUT", "unknown field: "+entry.Field)
		}
		if entry.Column >= len(headers) {
			return nil, shared.NewDomainError("INVALID_INPUT", "mapping column out of range")
		}
		header := headers[entry.Column]
		mapping = append(mapping, csvimport.ColumnMapping{
			Column:           entry.Column,
			Header:           header,
			NormalizedHeader: csvimport.NormalizeHeader(header),
			Field:            csvimport.Field(entry.Field),
		})
	}
	return mapping, nil
}

// handleImportError maps pipeline errors to response codes
func (h *ImportHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, csvimport.ErrEmptyFile):
		h.ErrorWithCode(c, dto.ErrCodeImportEmptyFile, "uploaded file is empty")
	case errors.Is(err, csvimport.ErrInvalidEncoding):
		h.ErrorWithCode(c, dto.ErrCodeImportInvalidEncoding, "file must be UTF-8 encoded")
	default:
		var rowErr csvimport.RowError
		if errors.As(err, &rowErr) {
			h.ErrorWithCode(c, rowErr.Code, rowErr.Message)
			return
		}
		h.ErrorWithCode(c, dto.ErrCodeImportFailed, err.Error())
	}
}
