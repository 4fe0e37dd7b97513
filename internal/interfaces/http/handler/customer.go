package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appregistry "github.com/garagehq/gms-backend/internal/application/registry"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// CustomerHandler handles customer registry endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *appregistry.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *appregistry.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// UpsertCustomerRequest represents a request to create or merge a customer.
// The phone is the customer identity within a garage.
type UpsertCustomerRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Phone    string `json:"phone" binding:"required,phone"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
	GST      string `json:"gst" binding:"max=20"`
	Address  string `json:"address" binding:"max=1000"`
	Pincode  string `json:"pincode" binding:"max=10"`
	AltPhone string `json:"alt_phone" binding:"omitempty,max=20,phone"`
	Comments string `json:"comments"`
	// SkipMerge returns the existing record untouched when the phone is
	// already known
	SkipMerge bool `json:"skip_merge"`
}

func (r UpsertCustomerRequest) toFields() registry.CustomerFields {
	return registry.CustomerFields{
		Name:     r.Name,
		Email:    r.Email,
		GST:      r.GST,
		Address:  r.Address,
		Pincode:  r.Pincode,
		AltPhone: r.AltPhone,
		Comments: r.Comments,
	}
}

// Upsert creates a customer or merges the request onto the existing record
// with the same phone
func (h *CustomerHandler) Upsert(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req UpsertCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	phone, err := valueobject.NewPhone(req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	customer, err := h.customerService.UpsertCustomer(c.Request.Context(), garageID, phone, req.toFields(), req.SkipMerge)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromCustomer(customer))
}

// Get returns one customer
func (h *CustomerHandler) Get(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), garageID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromCustomer(customer))
}

// List returns a page of customers
func (h *CustomerHandler) List(c *gin.Context) {
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

	page, err := h.customerService.ListCustomers(c.Request.Context(), garageID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, dto.FromCustomerPage(page))
}

// SearchByPhone returns the customer matching a phone, vehicles included
func (h *CustomerHandler) SearchByPhone(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	phone, err := valueobject.NewPhone(c.Query("phone"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	customer, err := h.customerService.SearchByPhone(c.Request.Context(), garageID, phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromCustomer(customer))
}

// UpdateCustomerRequest represents a customer profile update
type UpdateCustomerRequest struct {
	Name     string `json:"name" binding:"omitempty,min=1,max=255"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
	GST      string `json:"gst" binding:"max=20"`
	Address  string `json:"address" binding:"max=1000"`
	Pincode  string `json:"pincode" binding:"max=10"`
	AltPhone string `json:"alt_phone" binding:"omitempty,max=20,phone"`
	Comments string `json:"comments"`
}

// Update merges non-empty fields onto a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), garageID, id, registry.CustomerFields{
		Name:     req.Name,
		Email:    req.Email,
		GST:      req.GST,
		Address:  req.Address,
		Pincode:  req.Pincode,
		AltPhone: req.AltPhone,
		Comments: req.Comments,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromCustomer(customer))
}

// Delete removes a customer without vehicles or open history
func (h *CustomerHandler) Delete(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), garageID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers the customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Upsert)
		customers.GET("", h.List)
		customers.GET("/search", h.SearchByPhone)
		customers.GET("/:id", h.Get)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
	}
}
