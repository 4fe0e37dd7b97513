package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appregistry "github.com/garagehq/gms-backend/internal/application/registry"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// VehicleCatalogHandler handles the per-garage brand/model catalog endpoints
type VehicleCatalogHandler struct {
	BaseHandler
	catalogService *appregistry.VehicleCatalogService
}

// NewVehicleCatalogHandler creates a new VehicleCatalogHandler
func NewVehicleCatalogHandler(catalogService *appregistry.VehicleCatalogService) *VehicleCatalogHandler {
	return &VehicleCatalogHandler{catalogService: catalogService}
}

// EnsureBrandRequest represents a request to register a brand name
type EnsureBrandRequest struct {
	VehicleType int    `json:"vehicle_type" binding:"required,oneof=2 3 4 6"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
}

// EnsureBrand returns the brand with the given normalized name, creating it
// if it does not exist yet
func (h *VehicleCatalogHandler) EnsureBrand(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req EnsureBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	brand, err := h.catalogService.EnsureBrand(c.Request.Context(), garageID, registry.VehicleType(req.VehicleType), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromVehicleBrand(brand))
}

// ListBrands returns all brands for a vehicle type
func (h *VehicleCatalogHandler) ListBrands(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var query struct {
		VehicleType int `form:"vehicle_type" binding:"required,oneof=2 3 4 6"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	brands, err := h.catalogService.ListBrands(c.Request.Context(), garageID, registry.VehicleType(query.VehicleType))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromVehicleBrands(brands))
}

// EnsureModelRequest represents a request to register a model under a brand
type EnsureModelRequest struct {
	VehicleType int    `json:"vehicle_type" binding:"required,oneof=2 3 4 6"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
}

// EnsureModel returns the model with the given normalized name under a brand,
// creating it if it does not exist yet
func (h *VehicleCatalogHandler) EnsureModel(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid brand ID")
		return
	}

	var req EnsureModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	model, err := h.catalogService.EnsureModel(c.Request.Context(), garageID, brandID, registry.VehicleType(req.VehicleType), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromVehicleModel(model))
}

// ListModels returns all models under a brand
func (h *VehicleCatalogHandler) ListModels(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid brand ID")
		return
	}

	models, err := h.catalogService.ListModels(c.Request.Context(), garageID, brandID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromVehicleModels(models))
}

// RegisterRoutes registers the vehicle brand/model catalog routes
func (h *VehicleCatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	brands := rg.Group("/vehicle-brands")
	{
		brands.POST("", h.EnsureBrand)
		brands.GET("", h.ListBrands)
		brands.POST("/:id/models", h.EnsureModel)
		brands.GET("/:id/models", h.ListModels)
	}
}
