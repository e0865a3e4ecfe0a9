package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	pkgerrors "github.com/provisionhq/procurehub-backend/pkg/errors"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	lots := `
CREATE TABLE IF NOT EXISTS sku_lots (
  id TEXT PRIMARY KEY,
  sku_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(lots).Error)
	return db
}

func newInventoryService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func seedLot(t *testing.T, db *gorm.DB, skuID uuid.UUID, qty int64, updatedAt time.Time) uuid.UUID {
	t.Helper()
	lot := models.SkuLot{ID: uuid.New(), SKUID: skuID, Quantity: qty, UpdatedAt: updatedAt}
	require.NoError(t, db.Create(&lot).Error)
	return lot.ID
}

func TestDeductDrainsLargestLotFirst(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)
	ctx := context.Background()
	skuID := uuid.New()

	now := time.Now()
	small := seedLot(t, db, skuID, 3, now.Add(-time.Hour))
	big := seedLot(t, db, skuID, 5, now)

	var takes []LotTake
	err := db.Transaction(func(tx *gorm.DB) error {
		var terr error
		takes, terr = svc.Deduct(ctx, tx, skuID, 6)
		return terr
	})
	require.NoError(t, err)

	require.Len(t, takes, 2)
	require.Equal(t, big, takes[0].LotID)
	require.Equal(t, int64(5), takes[0].Amount)
	require.Equal(t, small, takes[1].LotID)
	require.Equal(t, int64(1), takes[1].Amount)

	total, err := svc.TotalAvailable(ctx, skuID)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
}

func TestDeductPrefersStalestAmongEqualLots(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)
	ctx := context.Background()
	skuID := uuid.New()

	now := time.Now()
	stale := seedLot(t, db, skuID, 4, now.Add(-2*time.Hour))
	seedLot(t, db, skuID, 4, now)

	var takes []LotTake
	err := db.Transaction(func(tx *gorm.DB) error {
		var terr error
		takes, terr = svc.Deduct(ctx, tx, skuID, 2)
		return terr
	})
	require.NoError(t, err)
	require.Len(t, takes, 1)
	require.Equal(t, stale, takes[0].LotID)
}

func TestDeductInsufficientStockLeavesLotsUntouched(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)
	ctx := context.Background()
	skuID := uuid.New()

	seedLot(t, db, skuID, 4, time.Now())

	err := db.Transaction(func(tx *gorm.DB) error {
		_, terr := svc.Deduct(ctx, tx, skuID, 6)
		return terr
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))

	typed := pkgerrors.As(err)
	require.NotNil(t, typed.Details())

	total, terr := svc.TotalAvailable(ctx, skuID)
	require.NoError(t, terr)
	require.Equal(t, int64(4), total)
}

func TestDeductRejectsNonPositiveQuantity(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)

	_, err := svc.Deduct(context.Background(), db, uuid.New(), 0)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestTotalAvailableEmptySKU(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)

	total, err := svc.TotalAvailable(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestDeductAccumulatesAcrossMultipleDeductions(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)
	ctx := context.Background()
	skuID := uuid.New()

	seedLot(t, db, skuID, 10, time.Now())

	for i := 0; i < 3; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			_, terr := svc.Deduct(ctx, tx, skuID, 3)
			return terr
		})
		require.NoError(t, err)
	}

	total, err := svc.TotalAvailable(ctx, skuID)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, terr := svc.Deduct(ctx, tx, skuID, 2)
		return terr
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))
}
