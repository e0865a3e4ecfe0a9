package storeinv

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/provisionhq/procurehub-backend/pkg/errors"
	"github.com/provisionhq/procurehub-backend/pkg/pagination"
)

func setupProjectionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:storeinv_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	rows := `
CREATE TABLE IF NOT EXISTS store_inventories (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  vendor_product_id TEXT NOT NULL,
  sku_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (store_id, vendor_product_id, sku_id)
);`
	require.NoError(t, db.Exec(rows).Error)
	return db
}

func newProjectionService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestIncrementCreatesRowThenAccumulates(t *testing.T) {
	db := setupProjectionTestDB(t)
	svc := newProjectionService(t, db)
	ctx := context.Background()

	storeID := uuid.New()
	productID := uuid.New()
	skuID := uuid.New()

	require.NoError(t, svc.Increment(ctx, db, storeID, productID, skuID, 6))
	require.NoError(t, svc.Increment(ctx, db, storeID, productID, skuID, 4))

	row, err := NewRepository(db).GetTriple(ctx, storeID, productID, skuID)
	require.NoError(t, err)
	require.Equal(t, int64(10), row.Quantity)
}

func TestIncrementKeepsTriplesIndependent(t *testing.T) {
	db := setupProjectionTestDB(t)
	svc := newProjectionService(t, db)
	ctx := context.Background()

	storeID := uuid.New()
	productID := uuid.New()
	skuA := uuid.New()
	skuB := uuid.New()

	require.NoError(t, svc.Increment(ctx, db, storeID, productID, skuA, 3))
	require.NoError(t, svc.Increment(ctx, db, storeID, productID, skuB, 5))

	repo := NewRepository(db)
	rowA, err := repo.GetTriple(ctx, storeID, productID, skuA)
	require.NoError(t, err)
	require.Equal(t, int64(3), rowA.Quantity)

	rowB, err := repo.GetTriple(ctx, storeID, productID, skuB)
	require.NoError(t, err)
	require.Equal(t, int64(5), rowB.Quantity)
}

func TestIncrementRejectsNonPositive(t *testing.T) {
	db := setupProjectionTestDB(t)
	svc := newProjectionService(t, db)

	err := svc.Increment(context.Background(), db, uuid.New(), uuid.New(), uuid.New(), 0)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListScopedToStore(t *testing.T) {
	db := setupProjectionTestDB(t)
	svc := newProjectionService(t, db)
	ctx := context.Background()

	storeA := uuid.New()
	storeB := uuid.New()
	require.NoError(t, svc.Increment(ctx, db, storeA, uuid.New(), uuid.New(), 1))
	require.NoError(t, svc.Increment(ctx, db, storeA, uuid.New(), uuid.New(), 2))
	require.NoError(t, svc.Increment(ctx, db, storeB, uuid.New(), uuid.New(), 3))

	rows, err := svc.List(ctx, &storeA, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	all, err := svc.List(ctx, nil, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, all, 3)
}
