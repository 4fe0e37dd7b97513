package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

func setupPartTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&catalog.Part{}))
	return db
}

func newTestPart(t *testing.T, garageID uuid.UUID, name string, minStock int) *catalog.Part {
	part, err := catalog.NewPart(garageID, catalog.PartFields{
		Code:          "BP-01",
		Name:          name,
		PartNumber:    "PN-" + name,
		CategoryID:    uuid.New(),
		Price:         valueobject.NewMoneyINRFromFloat(450),
		PurchasePrice: valueobject.NewMoneyINRFromFloat(300),
		GST:           valueobject.ZeroPercent(),
		Discount:      valueobject.ZeroPercent(),
		MinStock:      minStock,
	})
	require.NoError(t, err)
	return part
}

func TestGormPartRepository_SaveAndFind(t *testing.T) {
	db := setupPartTestDB(t)
	repo := NewGormPartRepository(db)
	ctx := context.Background()
	garageID := uuid.New()

	t.Run("round-trips a part", func(t *testing.T) {
		part := newTestPart(t, garageID, "Brake Pad", 0)
		require.NoError(t, repo.Save(ctx, part))

		found, err := repo.FindByIDForGarage(ctx, garageID, part.ID)
		require.NoError(t, err)
		assert.Equal(t, "Brake Pad", found.Name)
		assert.Equal(t, part.CategoryID, found.CategoryID)
		assert.True(t, found.Price.Equals(valueobject.NewMoneyINRFromFloat(450)))
	})

	t.Run("does not leak across garages", func(t *testing.T) {
		part := newTestPart(t, garageID, "Oil Filter", 0)
		require.NoError(t, repo.Save(ctx, part))

		_, err := repo.FindByIDForGarage(ctx, uuid.New(), part.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("finds by part number", func(t *testing.T) {
		part := newTestPart(t, garageID, "Clutch Plate", 0)
		require.NoError(t, repo.Save(ctx, part))

		found, err := repo.FindByPartNumber(ctx, garageID, "PN-Clutch Plate")
		require.NoError(t, err)
		assert.Equal(t, part.ID, found.ID)
	})
}

func TestGormPartRepository_FindBelowMinimum(t *testing.T) {
	db := setupPartTestDB(t)
	repo := NewGormPartRepository(db)
	ctx := context.Background()
	garageID := uuid.New()

	low := newTestPart(t, garageID, "Spark Plug", 5)
	require.NoError(t, low.RecordInward(4))
	require.NoError(t, repo.Save(ctx, low))

	healthy := newTestPart(t, garageID, "Air Filter", 5)
	require.NoError(t, healthy.RecordInward(20))
	require.NoError(t, repo.Save(ctx, healthy))

	untracked := newTestPart(t, garageID, "Chain Spray", 0)
	require.NoError(t, repo.Save(ctx, untracked))

	parts, err := repo.FindBelowMinimum(ctx, garageID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "Spark Plug", parts[0].Name)
}

func TestGormPartRepository_Delete(t *testing.T) {
	db := setupPartTestDB(t)
	repo := NewGormPartRepository(db)
	ctx := context.Background()
	garageID := uuid.New()

	t.Run("removes an existing part", func(t *testing.T) {
		part := newTestPart(t, garageID, "Headlight", 0)
		require.NoError(t, repo.Save(ctx, part))

		require.NoError(t, repo.Delete(ctx, part.ID))
		_, err := repo.FindByIDForGarage(ctx, garageID, part.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}

func TestGormPartRepository_CountForGarage(t *testing.T) {
	db := setupPartTestDB(t)
	repo := NewGormPartRepository(db)
	ctx := context.Background()
	garageID := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestPart(t, garageID, "Mirror", 0)))
	require.NoError(t, repo.Save(ctx, newTestPart(t, garageID, "Indicator", 0)))
	require.NoError(t, repo.Save(ctx, newTestPart(t, uuid.New(), "Horn", 0)))

	count, err := repo.CountForGarage(ctx, garageID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
