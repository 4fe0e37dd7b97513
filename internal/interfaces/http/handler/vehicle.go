package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appregistry "github.com/garagehq/gms-backend/internal/application/registry"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// VehicleHandler handles customer vehicle endpoints
type VehicleHandler struct {
	BaseHandler
	vehicleService *appregistry.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler
func NewVehicleHandler(vehicleService *appregistry.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// VehicleRequest represents a request to create or update a vehicle
type VehicleRequest struct {
	VehicleType       int        `json:"vehicle_type" binding:"required,oneof=2 3 4 6"`
	BrandID           *string    `json:"brand_id" binding:"omitempty,uuid"`
	ModelID           *string    `json:"model_id" binding:"omitempty,uuid"`
	Model             string     `json:"model" binding:"required,min=1,max=100"`
	Make              string     `json:"make" binding:"max=100"`
	LicensePlateNo    string     `json:"license_plate_no" binding:"max=20"`
	RegistrationNo    string     `json:"registration_no" binding:"max=20"`
	YearOfManufacture *int       `json:"year_of_manufacture" binding:"omitempty,min=1950,max=2100"`
	FuelType          string     `json:"fuel_type" binding:"max=20"`
	TransmissionType  string     `json:"transmission_type" binding:"max=20"`
	EngineNo          string     `json:"engine_no" binding:"max=50"`
	ChassisNo         string     `json:"chassis_no" binding:"max=50"`
	VinNo             string     `json:"vin_no" binding:"max=50"`
	Color             string     `json:"color" binding:"max=30"`
	RegState          string     `json:"reg_state" binding:"max=50"`
	RegExpiry         *time.Time `json:"reg_expiry"`
	OdometerReading   int        `json:"odometer_reading" binding:"min=0"`
	DailyRunning      int        `json:"daily_running" binding:"min=0"`
	VehicleMileage    int        `json:"vehicle_mileage" binding:"min=0"`
	VehicleAge        int        `json:"vehicle_age" binding:"min=0"`
	FuelPercentage    int        `json:"fuel_percentage" binding:"min=0,max=100"`
}

func (r VehicleRequest) toFields() (registry.VehicleFields, error) {
	fields := registry.VehicleFields{
		VehicleType:       registry.VehicleType(r.VehicleType),
		Model:             r.Model,
		Make:              r.Make,
		LicensePlateNo:    r.LicensePlateNo,
		RegistrationNo:    r.RegistrationNo,
		YearOfManufacture: r.YearOfManufacture,
		FuelType:          r.FuelType,
		TransmissionType:  r.TransmissionType,
		EngineNo:          r.EngineNo,
		ChassisNo:         r.ChassisNo,
		VinNo:             r.VinNo,
		Color:             r.Color,
		RegState:          r.RegState,
		RegExpiry:         r.RegExpiry,
		OdometerReading:   r.OdometerReading,
		DailyRunning:      r.DailyRunning,
		VehicleMileage:    r.VehicleMileage,
		VehicleAge:        r.VehicleAge,
		FuelPercentage:    r.FuelPercentage,
	}
	if r.BrandID != nil {
		id, err := uuid.Parse(*r.BrandID)
		if err != nil {
			return fields, err
		}
		fields.BrandID = &id
	}
	if r.ModelID != nil {
		id, err := uuid.Parse(*r.ModelID)
		if err != nil {
			return fields, err
		}
		fields.ModelID = &id
	}
	return fields, nil
}

// Create registers a vehicle under a customer
func (h *VehicleHandler) Create(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	fields, err := req.toFields()
	if err != nil {
		h.BadRequest(c, "Invalid brand or model ID")
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), garageID, customerID, fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromVehicle(vehicle))
}

// ListForCustomer returns a customer's vehicles
func (h *VehicleHandler) ListForCustomer(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	vehicles, err := h.vehicleService.ListVehiclesForCustomer(c.Request.Context(), garageID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromVehicles(vehicles))
}

// Get returns one vehicle
func (h *VehicleHandler) Get(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vehicle ID")
		return
	}

	vehicle, err := h.vehicleService.GetVehicle(c.Request.Context(), garageID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromVehicle(vehicle))
}

// Update applies new attributes to a vehicle
func (h *VehicleHandler) Update(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vehicle ID")
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	fields, err := req.toFields()
	if err != nil {
		h.BadRequest(c, "Invalid brand or model ID")
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), garageID, id, fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromVehicle(vehicle))
}

// AttachImage stores an uploaded vehicle photo in the blob store and links
// its handle to the vehicle
func (h *VehicleHandler) AttachImage(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vehicle ID")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.BadRequest(c, "Missing image file")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Cannot read image file")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Cannot read image file")
		return
	}

	vehicle, err := h.vehicleService.AttachImage(c.Request.Context(), garageID, id, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.FromVehicle(vehicle))
}

// Delete removes a vehicle without dependent jobcards
func (h *VehicleHandler) Delete(c *gin.Context) {
	garageID, err := getGarageID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid garage context")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vehicle ID")
		return
	}

	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), garageID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers the vehicle routes
func (h *VehicleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/customers/:id/vehicles", h.Create)
	rg.GET("/customers/:id/vehicles", h.ListForCustomer)

	vehicles := rg.Group("/vehicles")
	{
		vehicles.GET("/:id", h.Get)
		vehicles.PUT("/:id", h.Update)
		vehicles.DELETE("/:id", h.Delete)
		vehicles.POST("/:id/image", h.AttachImage)
	}
}
