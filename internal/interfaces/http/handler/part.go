package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/garagehq/gms-backend/internal/application/catalog"
	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// PartHandler handles part catalog endpoints
type PartHandler struct {
	BaseHandler
	partService *appcatalog.PartService
}

// NewPartHandler creates a new PartHandler
func NewPartHandler(partService *appcatalog.PartService) *PartHandler {
	return &PartHandler{partService: partService}
}

// PartRequest represents a request to create or update a part
type PartRequest struct {
	Code             string  `json:"code" binding:"max=50"`
	Name             string  `json:"name" binding:"required,min=1,max=255"`
	PartNumber       string  `json:"part_number" binding:"max=100"`
	Model            string  `json:"model" binding:"max=100"`
	CC               string  `json:"cc" binding:"max=50"`
	CategoryID       string  `json:"category_id" binding:"required,uuid"`
	SubCategory      string  `json:"sub_category" binding:"max=100"`
	BrandID          *string `json:"brand_id" binding:"omitempty,uuid"`
	Description      string  `json:"description" binding:"max=1000"`
	Price            string  `json:"price" binding:"required,money"`
	GST              string  `json:"gst" binding:"omitempty,percent"`
	Discount         string  `json:"discount" binding:"omitempty,percent"`
	PurchasePrice    string  `json:"purchase_price" binding:"omitempty,money"`
	MeasuringUnit    string  `json:"measuring_unit" binding:"max=20"`
	MinStock         int     `json:"min_stock" binding:"min=0"`
	PriceIncludesGST bool    `json:"price_includes_gst"`
}

func (r PartRequest) toFields() (catalog.PartFields, error) {
	fields := catalog.PartFields{
		Code:             r.Code,
		Name:             r.Name,
		PartNumber:       r.PartNumber,
		Model:            r.Model,
		CC:               r.CC,
		SubCategory:      r.SubCategory,
		Description:      r.Description,
		MeasuringUnit:    r.MeasuringUnit,
		MinStock:         r.MinStock,
		PriceIncludesGST: r.PriceIncludesGST,
	}

	categoryID, err := uuid.Parse(r.CategoryID)
	if err != nil {
		return fields, err
	}
	fields.CategoryID = categoryID
	if r.BrandID != nil {
		brandID, err := uuid.Parse(*r.BrandID)
		if err != nil {
			return fields, err
		}
		fields.BrandID = &brandID
	}

	if fields.Price, err = valueobject.NewMoneyINRFromString(r.Price); err != nil {
		return fields, err
	}
	fields.GST = valueobject.ZeroPercent()
	if r.GST != "" {
		if fields.GST, err = valueobject.NewPercentFromString(r.GST); err != nil {
			return fields, err
		}
	}
	fields.Discount = valueobject.ZeroPercent()
	if r.Discount != "" {
		if fields.Discount, err = valueobject.NewPercentFromString(r.Discount); err != nil {
			return fields, err
		}
	}
	fields.PurchasePrice = valueobject.NewMoneyINRFromFloat(0)
	if r.PurchasePrice != "" {
		if fields.PurchasePrice, err = valueobject.NewMoneyINRFromString(r.PurchasePrice); err != nil {
			return fields, err
		}
	}
	return fields, nil
}

// Create registers a part in the catalog
func (h *PartHandler) Create(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req PartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	fields, err := req.toFields()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	part, err := h.partService.CreatePart(c.Request.Context(), garageID, fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromPart(part))
}

// Update changes catalog attributes of a part
func (h *PartHandler) Update(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid part ID")
		return
	}

	var req PartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	fields, err := req.toFields()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	part, err := h.partService.UpdatePart(c.Request.Context(), garageID, id, fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromPart(part))
}

// Get returns one part with computed stock level
func (h *PartHandler) Get(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid part ID")
		return
	}

	part, err := h.partService.GetPart(c.Request.Context(), garageID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromPart(part))
}

// List returns a page of parts
func (h *PartHandler) List(c *gin.Context) {
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

	page, err := h.partService.ListParts(c.Request.Context(), garageID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, dto.FromPartPage(page))
}

// ListLowStock returns parts whose stock is at or below their minimum level
func (h *PartHandler) ListLowStock(c *gin.Context) {
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

	parts, err := h.partService.ListLowStock(c.Request.Context(), garageID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromParts(parts))
}

// Delete removes a part without stock movements
func (h *PartHandler) Delete(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid part ID")
		return
	}

	if err := h.partService.DeletePart(c.Request.Context(), garageID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers the part catalog routes
func (h *PartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	parts := rg.Group("/parts")
	{
		parts.POST("", h.Create)
		parts.GET("", h.List)
		parts.GET("/low-stock", h.ListLowStock)
		parts.GET("/:id", h.Get)
		parts.PUT("/:id", h.Update)
		parts.DELETE("/:id", h.Delete)
	}
}
