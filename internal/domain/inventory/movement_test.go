package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

func TestNewStockInward(t *testing.T) {
	garageID := uuid.New()
	fields := StockInwardFields{
		ProductID:  uuid.New(),
		Quantity:   10,
		Rate:       valueobject.NewMoneyINRFromFloat(50),
		TotalPrice: valueobject.NewMoneyINRFromFloat(500),
		SupplierID: uuid.New(),
	}

	t.Run("creates valid inward", func(t *testing.T) {
		m, err := NewStockInward(garageID, fields)
		require.NoError(t, err)
		assert.Equal(t, 10, m.Quantity)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		bad := fields
		bad.Quantity = 0
		_, err := NewStockInward(garageID, bad)
		assert.Error(t, err)
	})

	t.Run("rejects missing supplier", func(t *testing.T) {
		bad := fields
		bad.SupplierID = uuid.Nil
		_, err := NewStockInward(garageID, bad)
		assert.Error(t, err)
	})

	t.Run("rejects expiry tracking without date", func(t *testing.T) {
		bad := fields
		bad.TrackExpiry = true
		_, err := NewStockInward(garageID, bad)
		assert.Error(t, err)
	})
}

func TestStockInwardQuantityDelta(t *testing.T) {
	m, err := NewStockInward(uuid.New(), StockInwardFields{
		ProductID:  uuid.New(),
		Quantity:   10,
		Rate:       valueobject.NewMoneyINRFromFloat(50),
		TotalPrice: valueobject.NewMoneyINRFromFloat(500),
		SupplierID: uuid.New(),
	})
	require.NoError(t, err)

	delta, err := m.QuantityDelta(7)
	require.NoError(t, err)
	assert.Equal(t, -3, delta)

	_, err = m.QuantityDelta(0)
	assert.Error(t, err)
}

func TestNewStockOutward(t *testing.T) {
	garageID := uuid.New()
	fields := StockOutwardFields{
		ProductID:         uuid.New(),
		Quantity:          2,
		Rate:              valueobject.NewMoneyINRFromFloat(100),
		UsagePurpose:      UsageJobcard,
		ReferenceDocument: "some-jobcard-id",
	}

	t.Run("creates valid outward", func(t *testing.T) {
		m, err := NewStockOutward(garageID, fields)
		require.NoError(t, err)
		assert.Equal(t, UsageJobcard, m.UsagePurpose)
	})

	t.Run("rejects unknown usage purpose", func(t *testing.T) {
		bad := fields
		bad.UsagePurpose = "Giveaway"
		_, err := NewStockOutward(garageID, bad)
		assert.Error(t, err)
	})

	t.Run("requires reference for jobcard usage", func(t *testing.T) {
		bad := fields
		bad.ReferenceDocument = ""
		_, err := NewStockOutward(garageID, bad)
		assert.Error(t, err)
	})

	t.Run("manual usage needs no reference", func(t *testing.T) {
		manual := fields
		manual.UsagePurpose = UsageManual
		manual.ReferenceDocument = ""
		_, err := NewStockOutward(garageID, manual)
		assert.NoError(t, err)
	})
}

func TestStockOutwardLineValue(t *testing.T) {
	m, err := NewStockOutward(uuid.New(), StockOutwardFields{
		ProductID:         uuid.New(),
		Quantity:          2,
		Rate:              valueobject.NewMoneyINRFromFloat(100),
		Discount:          valueobject.MustNewPercent(decimal.NewFromInt(10)),
		GST:               valueobject.MustNewPercent(decimal.NewFromInt(18)),
		UsagePurpose:      UsageManual,
	})
	require.NoError(t, err)

	// 200 gross, 20 discount, 180 taxable, 32.40 tax
	assert.True(t, m.LineValue().Equal(decimal.NewFromFloat(212.40)))
}
