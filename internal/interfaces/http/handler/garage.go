package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/garagehq/gms-backend/internal/application/identity"
	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// GarageHandler handles garage tenant endpoints
type GarageHandler struct {
	BaseHandler
	garageService *appidentity.GarageService
}

// NewGarageHandler creates a new GarageHandler
func NewGarageHandler(garageService *appidentity.GarageService) *GarageHandler {
	return &GarageHandler{garageService: garageService}
}

// GarageRequest represents a garage registration or profile update
type GarageRequest struct {
	Name      string   `json:"name" binding:"required,min=1,max=255"`
	Address   string   `json:"address" binding:"max=1000"`
	City      string   `json:"city" binding:"max=100"`
	Pincode   string   `json:"pincode" binding:"max=10"`
	GSTIN     string   `json:"gstin" binding:"max=20"`
	PAN       string   `json:"pan" binding:"max=15"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Terms     string   `json:"terms"`
}

func (r GarageRequest) toFields() identity.GarageFields {
	return identity.GarageFields{
		Name:      r.Name,
		Address:   r.Address,
		City:      r.City,
		Pincode:   r.Pincode,
		GSTIN:     r.GSTIN,
		PAN:       r.PAN,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Terms:     r.Terms,
	}
}

// Register creates a new garage tenant
func (h *GarageHandler) Register(c *gin.Context) {
	var req GarageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	garage, err := h.garageService.RegisterGarage(c.Request.Context(), req.toFields())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromGarage(garage))
}

// Get returns the authenticated staff's garage profile
func (h *GarageHandler) Get(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	garage, err := h.garageService.GetGarage(c.Request.Context(), garageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromGarage(garage))
}

// Update updates the authenticated staff's garage profile
func (h *GarageHandler) Update(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}

	var req GarageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	garage, err := h.garageService.UpdateGarage(c.Request.Context(), garageID, req.toFields())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromGarage(garage))
}

// RegisterRoutes registers the garage routes. Registration is public; the
// rest operate on the caller's own garage.
func (h *GarageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	garages := rg.Group("/garages")
	{
		garages.POST("", h.Register)
		garages.GET("/me", h.Get)
		garages.PUT("/me", h.Update)
	}
}
