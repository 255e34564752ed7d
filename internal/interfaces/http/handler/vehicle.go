package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/partsdepot/backend/internal/domain/shared"
	"github.com/partsdepot/backend/internal/domain/vehicle"
	"github.com/partsdepot/backend/internal/interfaces/http/dto"
)

// VehicleHandler handles vehicle reference data API endpoints
type VehicleHandler struct {
	BaseHandler
	brands vehicle.BrandRepository
	models vehicle.ModelRepository
}

// NewVehicleHandler creates a new VehicleHandler
func NewVehicleHandler(brands vehicle.BrandRepository, models vehicle.ModelRepository) *VehicleHandler {
	return &VehicleHandler{
		brands: brands,
		models: models,
	}
}

// RegisterRoutes registers vehicle routes
func (h *VehicleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/vehicle-brands", h.ListBrands)
	rg.GET("/vehicle-brands/:id/models", h.ListModels)
}

// BrandResponse represents a vehicle brand in API responses
type BrandResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ModelResponse represents a vehicle model in API responses
type ModelResponse struct {
	ID       string `json:"id"`
	BrandID  string `json:"brand_id"`
	Name     string `json:"name"`
	YearFrom int    `json:"year_from,omitempty"`
	YearTo   int    `json:"year_to,omitempty"`
}

// ListBrands returns all vehicle brands, optionally filtered by search
func (h *VehicleHandler) ListBrands(c *gin.Context) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200
	filter.Search = c.Query("search")

	brands, err := h.brands.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]BrandResponse, 0, len(brands))
	for i := range brands {
		items = append(items, BrandResponse{
			ID:   brands[i].ID.String(),
			Name: brands[i].Name,
		})
	}

	h.Success(c, items)
}

// ListModels returns all models for a vehicle brand
func (h *VehicleHandler) ListModels(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "invalid brand id")
		return
	}

	brandID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "invalid brand id")
		return
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	models, err := h.models.FindByBrand(c.Request.Context(), brandID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ModelResponse, 0, len(models))
	for i := range models {
		items = append(items, ModelResponse{
			ID:       models[i].ID.String(),
			BrandID:  models[i].BrandID.String(),
			Name:     models[i].Name,
			YearFrom: models[i].YearFrom,
			YearTo:   models[i].YearTo,
		})
	}

	h.Success(c, items)
}
