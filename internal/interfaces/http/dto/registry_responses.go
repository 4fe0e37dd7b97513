package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID         `json:"id"`
	GarageID  uuid.UUID         `json:"garage_id"`
	Name      string            `json:"name"`
	Phone     valueobject.Phone `json:"phone"`
	Email     string            `json:"email,omitempty"`
	GST       string            `json:"gst,omitempty"`
	Address   string            `json:"address,omitempty"`
	Pincode   string            `json:"pincode,omitempty"`
	AltPhone  string            `json:"alt_phone,omitempty"`
	Comments  string            `json:"comments,omitempty"`
	Vehicles  []VehicleResponse `json:"vehicles,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// FromCustomer maps a customer to its response representation, including any
// preloaded vehicles
func FromCustomer(c *registry.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:        c.ID,
		GarageID:  c.GarageID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		GST:       c.GST,
		Address:   c.Address,
		Pincode:   c.Pincode,
		AltPhone:  c.AltPhone,
		Comments:  c.Comments,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if len(c.Vehicles) > 0 {
		resp.Vehicles = FromVehicles(c.Vehicles)
	}
	return resp
}

// FromCustomerPage maps a page of customers
func FromCustomerPage(page shared.Paginated[registry.Customer]) shared.Paginated[CustomerResponse] {
	items := make([]CustomerResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, FromCustomer(&page.Items[i]))
	}
	return shared.Paginated[CustomerResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

// VehicleResponse represents a customer vehicle in API responses
type VehicleResponse struct {
	ID                uuid.UUID            `json:"id"`
	GarageID          uuid.UUID            `json:"garage_id"`
	CustomerID        uuid.UUID            `json:"customer_id"`
	VehicleType       registry.VehicleType `json:"vehicle_type"`
	BrandID           *uuid.UUID           `json:"brand_id,omitempty"`
	ModelID           *uuid.UUID           `json:"model_id,omitempty"`
	Model             string               `json:"model"`
	Make              string               `json:"make,omitempty"`
	LicensePlateNo    string               `json:"license_plate_no,omitempty"`
	RegistrationNo    string               `json:"registration_no,omitempty"`
	YearOfManufacture *int                 `json:"year_of_manufacture,omitempty"`
	FuelType          string               `json:"fuel_type,omitempty"`
	TransmissionType  string               `json:"transmission_type,omitempty"`
	EngineNo          string               `json:"engine_no,omitempty"`
	ChassisNo         string               `json:"chassis_no,omitempty"`
	VinNo             string               `json:"vin_no,omitempty"`
	Color             string               `json:"color,omitempty"`
	RegState          string               `json:"reg_state,omitempty"`
	RegExpiry         *time.Time           `json:"reg_expiry,omitempty"`
	OdometerReading   int                  `json:"odometer_reading"`
	DailyRunning      int                  `json:"daily_running"`
	VehicleMileage    int                  `json:"vehicle_mileage"`
	VehicleAge        int                  `json:"vehicle_age"`
	FuelPercentage    int                  `json:"fuel_percentage"`
	ImageHandle       string               `json:"image_handle,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// FromVehicle maps a vehicle to its response representation
func FromVehicle(v *registry.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:                v.ID,
		GarageID:          v.GarageID,
		CustomerID:        v.CustomerID,
		VehicleType:       v.VehicleType,
		BrandID:           v.BrandID,
		ModelID:           v.ModelID,
		Model:             v.Model,
		Make:              v.Make,
		LicensePlateNo:    v.LicensePlateNo,
		RegistrationNo:    v.RegistrationNo,
		YearOfManufacture: v.YearOfManufacture,
		FuelType:          v.FuelType,
		TransmissionType:  v.TransmissionType,
		EngineNo:          v.EngineNo,
		ChassisNo:         v.ChassisNo,
		VinNo:             v.VinNo,
		Color:             v.Color,
		RegState:          v.RegState,
		RegExpiry:         v.RegExpiry,
		OdometerReading:   v.OdometerReading,
		DailyRunning:      v.DailyRunning,
		VehicleMileage:    v.VehicleMileage,
		VehicleAge:        v.VehicleAge,
		FuelPercentage:    v.FuelPercentage,
		ImageHandle:       v.ImageHandle,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

// FromVehicles maps a slice of vehicles
func FromVehicles(vehicles []registry.Vehicle) []VehicleResponse {
	out := make([]VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		out = append(out, FromVehicle(&vehicles[i]))
	}
	return out
}

// VehicleBrandResponse represents a vehicle catalogue brand
type VehicleBrandResponse struct {
	ID          uuid.UUID            `json:"id"`
	VehicleType registry.VehicleType `json:"vehicle_type"`
	Name        string               `json:"name"`
	DisplayName string               `json:"display_name"`
}

// FromVehicleBrand maps a catalogue brand
func FromVehicleBrand(b *registry.VehicleBrand) VehicleBrandResponse {
	return VehicleBrandResponse{
		ID:          b.ID,
		VehicleType: b.VehicleType,
		Name:        b.Name,
		DisplayName: b.DisplayName,
	}
}

// FromVehicleBrands maps a slice of catalogue brands
func FromVehicleBrands(brands []registry.VehicleBrand) []VehicleBrandResponse {
	out := make([]VehicleBrandResponse, 0, len(brands))
	for i := range brands {
		out = append(out, FromVehicleBrand(&brands[i]))
	}
	return out
}

// VehicleModelResponse represents a vehicle catalogue model
type VehicleModelResponse struct {
	ID          uuid.UUID            `json:"id"`
	BrandID     uuid.UUID            `json:"brand_id"`
	VehicleType registry.VehicleType `json:"vehicle_type"`
	Name        string               `json:"name"`
	DisplayName string               `json:"display_name"`
}

// FromVehicleModel maps a catalogue model
func FromVehicleModel(m *registry.VehicleModel) VehicleModelResponse {
	return VehicleModelResponse{
		ID:          m.ID,
		BrandID:     m.BrandID,
		VehicleType: m.VehicleType,
		Name:        m.Name,
		DisplayName: m.DisplayName,
	}
}

// FromVehicleModels maps a slice of catalogue models
func FromVehicleModels(models []registry.VehicleModel) []VehicleModelResponse {
	out := make([]VehicleModelResponse, 0, len(models))
	for i := range models {
		out = append(out, FromVehicleModel(&models[i]))
	}
	return out
}
