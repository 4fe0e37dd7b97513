package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/garagehq/gms-backend/internal/application/identity"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/garagehq/gms-backend/internal/infrastructure/auth"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// AuthHandler handles console login and token refresh
type AuthHandler struct {
	BaseHandler
	staffService *appidentity.StaffService
	jwtService   *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(staffService *appidentity.StaffService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		staffService: staffService,
		jwtService:   jwtService,
	}
}

// LoginRequest represents a console login request
type LoginRequest struct {
	GarageID string `json:"garage_id" binding:"required,uuid"`
	Phone    string `json:"phone" binding:"required,phone"`
	Password string `json:"password" binding:"required"`
}

// Login verifies staff credentials and mints a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	garageID, err := uuid.Parse(req.GarageID)
	if err != nil {
		h.BadRequest(c, "Invalid garage ID")
		return
	}
	phone, err := valueobject.NewPhone(req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	session, err := h.staffService.Login(c.Request.Context(), garageID, phone, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromSession(session))
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a valid refresh token for a fresh token pair. The staff
// record is reloaded so a deactivated account cannot keep refreshing.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		h.Unauthorized(c, "Invalid refresh token")
		return
	}
	garageID, err := claims.GetGarageUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid refresh token")
		return
	}
	staffID, err := claims.GetStaffUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid refresh token")
		return
	}

	staff, err := h.staffService.GetStaff(c.Request.Context(), garageID, staffID)
	if err != nil || staff == nil || !staff.Active {
		h.Unauthorized(c, "Account is no longer active")
		return
	}

	pair, err := h.jwtService.RefreshTokenPair(req.RefreshToken, staff.Name, string(staff.Role))
	if err != nil {
		h.Unauthorized(c, "Invalid refresh token")
		return
	}
	h.Success(c, pair)
}

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}
}
