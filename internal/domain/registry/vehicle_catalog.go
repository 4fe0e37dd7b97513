package registry

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// NormalizeName folds a brand or model name to its catalogue identity:
// unicode-normalised, lowercased, with spaces and underscores stripped.
// The original spelling is preserved separately as the display name.
func NormalizeName(name string) string {
	folded := strings.ToLower(norm.NFKC.String(strings.TrimSpace(name)))
	folded = strings.ReplaceAll(folded, " ", "")
	folded = strings.ReplaceAll(folded, "_", "")
	return folded
}

// VehicleBrand is a per-garage, per-vehicletype brand in the vehicle
// catalogue. Created lazily when a booking for an unknown brand is promoted.
type VehicleBrand struct {
	shared.GarageAggregateRoot
	VehicleType VehicleType `gorm:"not null"`
	Name        string      `gorm:"size:100;not null"`
	DisplayName string      `gorm:"size:100;not null"`
}

// TableName returns the table name for GORM
func (VehicleBrand) TableName() string {
	return "jobcard_brands"
}

// NewVehicleBrand creates a brand with a normalised identity name
func NewVehicleBrand(garageID uuid.UUID, vehicleType VehicleType, displayName string) (*VehicleBrand, error) {
	name := NormalizeName(displayName)
	if name == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	if !vehicleType.IsValid() {
		return nil, shared.NewValidationError("vehicletype", "must be a 2, 3, 4 or 6 wheeler")
	}
	return &VehicleBrand{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		VehicleType:         vehicleType,
		Name:                name,
		DisplayName:         strings.TrimSpace(displayName),
	}, nil
}

// VehicleModel is a per-garage, per-brand model in the vehicle catalogue
type VehicleModel struct {
	shared.GarageAggregateRoot
	BrandID     uuid.UUID   `gorm:"type:uuid;not null"`
	VehicleType VehicleType `gorm:"not null"`
	Name        string      `gorm:"size:100;not null"`
	DisplayName string      `gorm:"size:100;not null"`
}

// TableName returns the table name for GORM
func (VehicleModel) TableName() string {
	return "jobcard_models"
}

// NewVehicleModel creates a model with a normalised identity name
func NewVehicleModel(garageID, brandID uuid.UUID, vehicleType VehicleType, displayName string) (*VehicleModel, error) {
	if brandID == uuid.Nil {
		return nil, shared.NewValidationError("brand_id", "cannot be empty")
	}
	name := NormalizeName(displayName)
	if name == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	if !vehicleType.IsValid() {
		return nil, shared.NewValidationError("vehicletype", "must be a 2, 3, 4 or 6 wheeler")
	}
	return &VehicleModel{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		BrandID:             brandID,
		VehicleType:         vehicleType,
		Name:                name,
		DisplayName:         strings.TrimSpace(displayName),
	}, nil
}
