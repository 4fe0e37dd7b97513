package registry

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// VehicleType is the wheel count of a vehicle
type VehicleType int

const (
	TwoWheeler   VehicleType = 2
	ThreeWheeler VehicleType = 3
	FourWheeler  VehicleType = 4
	SixWheeler   VehicleType = 6
)

// IsValid reports whether the vehicle type is one of the supported classes
func (v VehicleType) IsValid() bool {
	switch v {
	case TwoWheeler, ThreeWheeler, FourWheeler, SixWheeler:
		return true
	}
	return false
}

// Vehicle belongs to exactly one customer
type Vehicle struct {
	shared.GarageAggregateRoot
	CustomerID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	VehicleType       VehicleType `gorm:"not null;default:2"`
	BrandID           *uuid.UUID  `gorm:"type:uuid;index"`
	ModelID           *uuid.UUID  `gorm:"type:uuid;index"`
	Model             string      `gorm:"size:100;not null"`
	Make              string      `gorm:"size:100"`
	LicensePlateNo    string      `gorm:"size:20"`
	RegistrationNo    string      `gorm:"size:20;index"`
	YearOfManufacture *int
	FuelType          string `gorm:"size:20"`
	TransmissionType  string `gorm:"size:20"`
	EngineNo          string `gorm:"size:50"`
	ChassisNo         string `gorm:"size:50"`
	VinNo             string `gorm:"size:50"`
	Color             string `gorm:"size:30"`
	RegState          string `gorm:"size:50"`
	RegExpiry         *time.Time
	OdometerReading   int `gorm:"not null;default:0"`
	DailyRunning      int `gorm:"not null;default:0"`
	VehicleMileage    int `gorm:"not null;default:0"`
	VehicleAge        int `gorm:"not null;default:0"`
	FuelPercentage    int `gorm:"not null;default:0"`
	ImageHandle       string `gorm:"size:128"` // blob store handle for the vehicle photo
}

// TableName returns the table name for GORM
func (Vehicle) TableName() string {
	return "vehicles"
}

// VehicleFields carries the mutable attributes of a vehicle
type VehicleFields struct {
	VehicleType       VehicleType
	BrandID           *uuid.UUID
	ModelID           *uuid.UUID
	Model             string
	Make              string
	LicensePlateNo    string
	RegistrationNo    string
	YearOfManufacture *int
	FuelType          string
	TransmissionType  string
	EngineNo          string
	ChassisNo         string
	VinNo             string
	Color             string
	RegState          string
	RegExpiry         *time.Time
	OdometerReading   int
	DailyRunning      int
	VehicleMileage    int
	VehicleAge        int
	FuelPercentage    int
}

// NewVehicle creates a new vehicle bound to a customer
func NewVehicle(garageID, customerID uuid.UUID, fields VehicleFields) (*Vehicle, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer_id", "cannot be empty")
	}
	if strings.TrimSpace(fields.Model) == "" {
		return nil, shared.NewValidationError("model", "cannot be empty")
	}
	if fields.VehicleType == 0 {
		fields.VehicleType = TwoWheeler
	}
	if !fields.VehicleType.IsValid() {
		return nil, shared.NewValidationError("vehicletype", "must be a 2, 3, 4 or 6 wheeler")
	}
	if fields.FuelPercentage < 0 || fields.FuelPercentage > 100 {
		return nil, shared.NewValidationError("fuelpercentage", "must be between 0 and 100")
	}

	v := &Vehicle{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		CustomerID:          customerID,
	}
	v.apply(fields)
	return v, nil
}

// Update replaces the vehicle's mutable attributes
func (v *Vehicle) Update(fields VehicleFields) error {
	if strings.TrimSpace(fields.Model) == "" {
		return shared.NewValidationError("model", "cannot be empty")
	}
	if fields.VehicleType != 0 && !fields.VehicleType.IsValid() {
		return shared.NewValidationError("vehicletype", "must be a 2, 3, 4 or 6 wheeler")
	}
	if fields.FuelPercentage < 0 || fields.FuelPercentage > 100 {
		return shared.NewValidationError("fuelpercentage", "must be between 0 and 100")
	}
	if fields.VehicleType == 0 {
		fields.VehicleType = v.VehicleType
	}
	v.apply(fields)
	v.Touch()
	v.IncrementVersion()
	return nil
}

func (v *Vehicle) apply(fields VehicleFields) {
	v.VehicleType = fields.VehicleType
	v.BrandID = fields.BrandID
	v.ModelID = fields.ModelID
	v.Model = strings.TrimSpace(fields.Model)
	v.Make = strings.TrimSpace(fields.Make)
	v.LicensePlateNo = fields.LicensePlateNo
	v.RegistrationNo = strings.ToUpper(strings.TrimSpace(fields.RegistrationNo))
	v.YearOfManufacture = fields.YearOfManufacture
	v.FuelType = fields.FuelType
	v.TransmissionType = fields.TransmissionType
	v.EngineNo = fields.EngineNo
	v.ChassisNo = fields.ChassisNo
	v.VinNo = fields.VinNo
	v.Color = fields.Color
	v.RegState = fields.RegState
	v.RegExpiry = fields.RegExpiry
	v.OdometerReading = fields.OdometerReading
	v.DailyRunning = fields.DailyRunning
	v.VehicleMileage = fields.VehicleMileage
	v.VehicleAge = fields.VehicleAge
	v.FuelPercentage = fields.FuelPercentage
}

// SetImageHandle records the blob store handle for the vehicle photo
func (v *Vehicle) SetImageHandle(handle string) {
	v.ImageHandle = handle
	v.Touch()
}
