package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/garagehq/gms-backend/internal/application/identity"
	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// StaffHandler handles staff account endpoints
type StaffHandler struct {
	BaseHandler
	staffService *appidentity.StaffService
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staffService *appidentity.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// CreateStaffRequest represents a request to register a staff account
type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Phone    string `json:"phone" binding:"required,phone"`
	Role     string `json:"role" binding:"required,oneof=owner supervisor mechanic front_desk"`
	Password string `json:"password" binding:"required,min=8"`
}

// Create registers a staff account under the authenticated garage
func (h *StaffHandler) Create(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	phone, err := valueobject.NewPhone(req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	staff, err := h.staffService.CreateStaff(c.Request.Context(), garageID, req.Name, phone, identity.StaffRole(req.Role), req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromStaff(staff))
}

// Get returns one staff account
func (h *StaffHandler) Get(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid staff ID")
		return
	}

	staff, err := h.staffService.GetStaff(c.Request.Context(), garageID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromStaff(staff))
}

// List returns the garage's staff accounts
func (h *StaffHandler) List(c *gin.Context) {
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

	staff, err := h.staffService.ListStaff(c.Request.Context(), garageID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromStaffList(staff))
}

// ChangePasswordRequest represents a password change for the authenticated
// staff member
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword sets a new password for the calling staff member
func (h *StaffHandler) ChangePassword(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	staffID, err := getStaffID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid staff context")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.staffService.ChangePassword(c.Request.Context(), garageID, staffID, req.CurrentPassword, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Deactivate disables a staff account without deleting its history
func (h *StaffHandler) Deactivate(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid staff ID")
		return
	}

	if err := h.staffService.DeactivateStaff(c.Request.Context(), garageID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers the staff routes
func (h *StaffHandler) RegisterRoutes(rg *gin.RouterGroup) {
	staff := rg.Group("/staff")
	{
		staff.POST("", h.Create)
		staff.GET("", h.List)
		staff.PUT("/password", h.ChangePassword)
		staff.GET("/:id", h.Get)
		staff.POST("/:id/deactivate", h.Deactivate)
	}
}
