package registry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Royal Enfield", "royalenfield"},
		{"  Honda ", "honda"},
		{"TVS_Apache RR", "tvsapacherr"},
		{"HERO", "hero"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeName(tc.in))
	}
}

func TestNewVehicleBrand(t *testing.T) {
	t.Run("normalises identity and keeps display name", func(t *testing.T) {
		b, err := NewVehicleBrand(uuid.New(), TwoWheeler, "Royal Enfield")
		require.NoError(t, err)
		assert.Equal(t, "royalenfield", b.Name)
		assert.Equal(t, "Royal Enfield", b.DisplayName)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewVehicleBrand(uuid.New(), TwoWheeler, " _ ")
		assert.Error(t, err)
	})

	t.Run("rejects invalid vehicle type", func(t *testing.T) {
		_, err := NewVehicleBrand(uuid.New(), VehicleType(5), "Honda")
		assert.Error(t, err)
	})
}

func TestNewVehicleModel(t *testing.T) {
	brandID := uuid.New()

	t.Run("normalises identity", func(t *testing.T) {
		m, err := NewVehicleModel(uuid.New(), brandID, TwoWheeler, "Classic 350")
		require.NoError(t, err)
		assert.Equal(t, "classic350", m.Name)
		assert.Equal(t, "Classic 350", m.DisplayName)
	})

	t.Run("requires brand", func(t *testing.T) {
		_, err := NewVehicleModel(uuid.New(), uuid.Nil, TwoWheeler, "Classic 350")
		assert.Error(t, err)
	})
}

func TestNewVehicle(t *testing.T) {
	garageID := uuid.New()
	customerID := uuid.New()

	t.Run("creates vehicle with defaults", func(t *testing.T) {
		v, err := NewVehicle(garageID, customerID, VehicleFields{Model: "Splendor", Make: "Hero", RegistrationNo: "mh12ab1234"})
		require.NoError(t, err)
		assert.Equal(t, TwoWheeler, v.VehicleType)
		assert.Equal(t, "MH12AB1234", v.RegistrationNo)
	})

	t.Run("rejects missing customer", func(t *testing.T) {
		_, err := NewVehicle(garageID, uuid.Nil, VehicleFields{Model: "Splendor"})
		assert.Error(t, err)
	})

	t.Run("rejects fuel percentage out of range", func(t *testing.T) {
		_, err := NewVehicle(garageID, customerID, VehicleFields{Model: "Splendor", FuelPercentage: 120})
		assert.Error(t, err)
	})
}
