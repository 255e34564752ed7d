package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partsdepot/backend/internal/domain/catalog"
	"github.com/partsdepot/backend/internal/domain/shared"
	"github.com/partsdepot/backend/internal/interfaces/http/dto"
)

// CatalogHandler handles catalog read API endpoints
type CatalogHandler struct {
	BaseHandler
	parts         catalog.PartRepository
	manufacturers catalog.ManufacturerRepository
	categories    catalog.CategoryRepository
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(parts catalog.PartRepository, manufacturers catalog.ManufacturerRepository, categories catalog.CategoryRepository) *CatalogHandler {
	return &CatalogHandler{
		parts:         parts,
		manufacturers: manufacturers,
		categories:    categories,
	}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/parts", h.ListParts)
	rg.GET("/parts/:id", h.GetPart)
	rg.GET("/manufacturers", h.ListManufacturers)
	rg.GET("/categories", h.ListCategories)
}

// PartResponse represents a part in API responses
type PartResponse struct {
	ID             string          `json:"id"`
	Reference      string          `json:"reference"`
	SKU            string          `json:"sku,omitempty"`
	Barcode        string          `json:"barcode,omitempty"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	ManufacturerID *string         `json:"manufacturer_id,omitempty"`
	CategoryID     *string         `json:"category_id,omitempty"`
	PriceRetail    decimal.Decimal `json:"price_retail"`
	PriceWholesale decimal.Decimal `json:"price_wholesale"`
	TVARate        decimal.Decimal `json:"tva_rate"`
	StockReal      int             `json:"stock_real"`
	StockAvailable int             `json:"stock_available"`
	IsActive       bool            `json:"is_active"`
	dto.TimestampResponse
}

func toPartResponse(p *catalog.Part) PartResponse {
	resp := PartResponse{
		ID:             p.ID.String(),
		Reference:      p.Reference,
		SKU:            p.SKU,
		Barcode:        p.Barcode,
		Name:           p.Name,
		Description:    p.Description,
		PriceRetail:    p.PriceRetail,
		PriceWholesale: p.PriceWholesale,
		TVARate:        p.TVARate,
		StockReal:      p.StockReal,
		StockAvailable: p.StockAvailable,
		IsActive:       p.IsActive,
		TimestampResponse: dto.TimestampResponse{
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
	}
	if p.ManufacturerID != nil {
		id := p.ManufacturerID.String()
		resp.ManufacturerID = &id
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		resp.CategoryID = &id
	}
	return resp
}

// ListParts returns a paginated part listing
func (h *CatalogHandler) ListParts(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  make(map[string]interface{}),
	}
	if manufacturerID := c.Query("manufacturer_id"); manufacturerID != "" {
		id, err := uuid.Parse(manufacturerID)
		if err != nil {
			h.BadRequest(c, "invalid manufacturer_id")
			return
		}
		filter.Filters["manufacturer_id"] = id
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			h.BadRequest(c, "invalid category_id")
			return
		}
		filter.Filters["category_id"] = id
	}

	parts, err := h.parts.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.parts.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]PartResponse, 0, len(parts))
	for i := range parts {
		items = append(items, toPartResponse(&parts[i]))
	}

	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// GetPart returns one part by ID
func (h *CatalogHandler) GetPart(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "invalid part id")
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "invalid part id")
		return
	}

	part, err := h.parts.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "part not found")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPartResponse(part))
}

// ManufacturerResponse represents a manufacturer in API responses
type ManufacturerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListManufacturers returns all manufacturers, optionally filtered by search
func (h *CatalogHandler) ListManufacturers(c *gin.Context) {
	filter := shared.DefaultFilter()
	filter.PageSize = 100
	filter.Search = c.Query("search")

	manufacturers, err := h.manufacturers.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ManufacturerResponse, 0, len(manufacturers))
	for i := range manufacturers {
		items = append(items, ManufacturerResponse{
			ID:   manufacturers[i].ID.String(),
			Name: manufacturers[i].Name,
		})
	}

	h.Success(c, items)
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListCategories returns all categories, optionally filtered by search
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	filter := shared.DefaultFilter()
	filter.PageSize = 100
	filter.Search = c.Query("search")

	categories, err := h.categories.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, CategoryResponse{
			ID:   categories[i].ID.String(),
			Name: categories[i].Name,
		})
	}

	h.Success(c, items)
}
