package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/garagehq/gms-backend/internal/application/catalog"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// MasterHandler handles catalog master data: service items, part categories,
// part brands and suppliers
type MasterHandler struct {
	BaseHandler
	masterService *appcatalog.MasterService
}

// NewMasterHandler creates a new MasterHandler
func NewMasterHandler(masterService *appcatalog.MasterService) *MasterHandler {
	return &MasterHandler{masterService: masterService}
}

// ServiceItemRequest represents a request to create or reprice a service item
type ServiceItemRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Value    string `json:"value" binding:"required,money"`
	Tax      string `json:"tax" binding:"omitempty,percent"`
	Discount string `json:"discount" binding:"omitempty,percent"`
}

func (r ServiceItemRequest) pricing() (valueobject.Money, valueobject.Percent, valueobject.Percent, error) {
	value, err := valueobject.NewMoneyINRFromString(r.Value)
	if err != nil {
		return valueobject.Money{}, valueobject.Percent{}, valueobject.Percent{}, err
	}
	tax := valueobject.ZeroPercent()
	if r.Tax != "" {
		if tax, err = valueobject.NewPercentFromString(r.Tax); err != nil {
			return valueobject.Money{}, valueobject.Percent{}, valueobject.Percent{}, err
		}
	}
	discount := valueobject.ZeroPercent()
	if r.Discount != "" {
		if discount, err = valueobject.NewPercentFromString(r.Discount); err != nil {
			return valueobject.Money{}, valueobject.Percent{}, valueobject.Percent{}, err
		}
	}
	return value, tax, discount, nil
}

// CreateServiceItem registers a reusable labour/service line template
func (h *MasterHandler) CreateServiceItem(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req ServiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	value, tax, discount, err := req.pricing()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.masterService.CreateServiceItem(c.Request.Context(), garageID, req.Name, value, tax, discount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromServiceItem(item))
}

// UpdateServiceItem reprices a service item
func (h *MasterHandler) UpdateServiceItem(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service item ID")
		return
	}

	var req ServiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	value, tax, discount, err := req.pricing()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.masterService.UpdateServiceItem(c.Request.Context(), garageID, id, value, tax, discount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromServiceItem(item))
}

// ListServiceItems returns service items, optionally filtered by search term
func (h *MasterHandler) ListServiceItems(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, err := h.masterService.ListServiceItems(c.Request.Context(), garageID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromServiceItems(items))
}

// DeleteServiceItem removes a service item from the master list
func (h *MasterHandler) DeleteServiceItem(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service item ID")
		return
	}

	if err := h.masterService.DeleteServiceItem(c.Request.Context(), garageID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// NamedRequest represents a request carrying a single display name
type NamedRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateCategory registers a part category
func (h *MasterHandler) CreateCategory(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req NamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.masterService.CreateCategory(c.Request.Context(), garageID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NamedResponse{ID: category.ID, Name: category.Name, CreatedAt: category.CreatedAt})
}

// ListCategories returns all part categories
func (h *MasterHandler) ListCategories(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	categories, err := h.masterService.ListCategories(c.Request.Context(), garageID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromCategories(categories))
}

// CreateBrand registers a part brand
func (h *MasterHandler) CreateBrand(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req NamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	brand, err := h.masterService.CreateBrand(c.Request.Context(), garageID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NamedResponse{ID: brand.ID, Name: brand.Name, CreatedAt: brand.CreatedAt})
}

// ListBrands returns all part brands
func (h *MasterHandler) ListBrands(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	brands, err := h.masterService.ListBrands(c.Request.Context(), garageID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromBrands(brands))
}

// SupplierRequest represents a request to register or update a supplier
type SupplierRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Mobile   string `json:"mobile" binding:"required,phone"`
	Location string `json:"location" binding:"max=255"`
}

// UpsertSupplier creates a supplier or updates the one with the same mobile
func (h *MasterHandler) UpsertSupplier(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	mobile, err := valueobject.NewPhone(req.Mobile)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.masterService.UpsertSupplier(c.Request.Context(), garageID, req.Name, mobile, req.Location)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromSupplier(supplier))
}

// ListSuppliers returns all suppliers
func (h *MasterHandler) ListSuppliers(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	suppliers, err := h.masterService.ListSuppliers(c.Request.Context(), garageID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromSuppliers(suppliers))
}

// RegisterRoutes registers the master data routes
func (h *MasterHandler) RegisterRoutes(rg *gin.RouterGroup) {
	masters := rg.Group("/masters")
	{
		masters.POST("/services", h.CreateServiceItem)
		masters.GET("/services", h.ListServiceItems)
		masters.PUT("/services/:id", h.UpdateServiceItem)
		masters.DELETE("/services/:id", h.DeleteServiceItem)

		masters.POST("/categories", h.CreateCategory)
		masters.GET("/categories", h.ListCategories)

		masters.POST("/brands", h.CreateBrand)
		masters.GET("/brands", h.ListBrands)

		masters.POST("/suppliers", h.UpsertSupplier)
		masters.GET("/suppliers", h.ListSuppliers)
	}
}
