package requests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/internal/actors"
	"github.com/provisionhq/procurehub-backend/internal/settlement"
	dbpkg "github.com/provisionhq/procurehub-backend/pkg/db"
	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
	pkgerrors "github.com/provisionhq/procurehub-backend/pkg/errors"
	"github.com/provisionhq/procurehub-backend/pkg/pagination"
)

type stubStores struct {
	stores map[uuid.UUID]*models.Store
}

func (s *stubStores) GetByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	store, ok := s.stores[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return store, nil
}

type stubSKUs struct {
	skus map[uuid.UUID]*models.SKU
}

func (s *stubSKUs) GetPurchasableSKU(_ context.Context, skuID uuid.UUID) (*models.SKU, *models.VendorProduct, error) {
	sku, ok := s.skus[skuID]
	if !ok {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "sku not found")
	}
	return sku, &models.VendorProduct{ID: sku.VendorProductID, Name: "stub", VendorName: "stub", Active: true}, nil
}

type stubStock struct {
	available map[uuid.UUID]int64
}

func (s *stubStock) TotalAvailable(_ context.Context, skuID uuid.UUID) (int64, error) {
	return s.available[skuID], nil
}

type stubWallets struct {
	balances map[uuid.UUID]decimal.Decimal
}

func (s *stubWallets) Get(_ context.Context, storeID uuid.UUID) (*models.Wallet, error) {
	balance, ok := s.balances[storeID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
	}
	return &models.Wallet{StoreID: storeID, Balance: balance}, nil
}

type stubCarts struct {
	cart    *models.Cart
	emptied bool
}

func (s *stubCarts) GetOwned(_ context.Context, cartID, customerID uuid.UUID) (*models.Cart, error) {
	if s.cart == nil || s.cart.ID != cartID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	if s.cart.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart belongs to another customer")
	}
	return s.cart, nil
}

func (s *stubCarts) Empty(_ context.Context, _ *gorm.DB, _ uuid.UUID) error {
	s.emptied = true
	return nil
}

type stubSettler struct {
	result *models.PurchaseRequest
	err    error
	calls  int
}

func (s *stubSettler) Settle(_ context.Context, _ uuid.UUID, _ actors.Actor) (*models.PurchaseRequest, error) {
	s.calls++
	return s.result, s.err
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) RequestCreated(_ context.Context, _ *models.PurchaseRequest, _ actors.Actor) {
	n.events = append(n.events, "created")
}

func (n *recordingNotifier) RequestAdvanced(_ context.Context, _ *models.PurchaseRequest, _ actors.Actor) {
	n.events = append(n.events, "advanced")
}

func (n *recordingNotifier) RequestRejected(_ context.Context, _ *models.PurchaseRequest, _ actors.Actor) {
	n.events = append(n.events, "rejected")
}

func (n *recordingNotifier) RequestSettled(_ context.Context, _ *models.PurchaseRequest, _ actors.Actor) {
	n.events = append(n.events, "settled")
}

func setupRequestTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:requests_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS purchase_requests (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  vendor_product_id TEXT NOT NULL,
  sku_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  status TEXT NOT NULL,
  requester_id TEXT NOT NULL,
  requester_model TEXT NOT NULL,
  dm_user_id TEXT,
  cm_user_id TEXT,
  dm_approved_by TEXT,
  dm_approved_by_model TEXT,
  dm_approved_at DATETIME,
  cm_approved_by TEXT,
  cm_approved_by_model TEXT,
  cm_approved_at DATETIME,
  admin_approved_by TEXT,
  admin_approved_by_model TEXT,
  admin_approved_at DATETIME,
  rejected_by TEXT,
  rejected_by_model TEXT,
  rejected_at DATETIME,
  rejection_reason TEXT,
  cart_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

type fixture struct {
	svc      Service
	repo     *Repository
	stores   *stubStores
	skus     *stubSKUs
	stock    *stubStock
	wallets  *stubWallets
	carts    *stubCarts
	settler  *stubSettler
	notifier *recordingNotifier
}

func newFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	f := &fixture{
		repo:     NewRepository(db),
		stores:   &stubStores{stores: map[uuid.UUID]*models.Store{}},
		skus:     &stubSKUs{skus: map[uuid.UUID]*models.SKU{}},
		stock:    &stubStock{available: map[uuid.UUID]int64{}},
		wallets:  &stubWallets{balances: map[uuid.UUID]decimal.Decimal{}},
		carts:    &stubCarts{},
		settler:  &stubSettler{},
		notifier: &recordingNotifier{},
	}
	svc, err := NewService(f.repo, dbpkg.FromConn(db), f.stores, f.skus, f.stock, f.wallets, f.carts, f.settler, f.notifier, nil, nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) addStore(requireDM, requireCM bool) (*models.Store, uuid.UUID, uuid.UUID) {
	dmID := uuid.New()
	cmID := uuid.New()
	store := &models.Store{
		ID:                uuid.New(),
		Name:              "Store " + uuid.NewString()[:8],
		RequireDMApproval: requireDM,
		RequireCMApproval: requireCM,
		DMUserID:          &dmID,
		CMUserID:          &cmID,
		Active:            true,
	}
	f.stores.stores[store.ID] = store
	f.wallets.balances[store.ID] = decimal.NewFromInt(1000)
	return store, dmID, cmID
}

func (f *fixture) addSKU(price int64, available int64) *models.SKU {
	sku := &models.SKU{
		ID:              uuid.New(),
		VendorProductID: uuid.New(),
		Code:            "SKU-" + uuid.NewString()[:8],
		UnitPrice:       decimal.NewFromInt(price),
		Currency:        enums.CurrencyUSD,
		Active:          true,
	}
	f.skus.skus[sku.ID] = sku
	f.stock.available[sku.ID] = available
	return sku
}

func customerActor() actors.Actor {
	return actors.Actor{ID: uuid.New(), Model: enums.ActorModelCustomer, Role: enums.ActorRoleCustomer}
}

func dmActor(id uuid.UUID) actors.Actor {
	return actors.Actor{ID: id, Model: enums.ActorModelUser, Role: enums.ActorRoleDistrictManager}
}

func cmActor(id uuid.UUID) actors.Actor {
	return actors.Actor{ID: id, Model: enums.ActorModelUser, Role: enums.ActorRoleCorporateManager}
}

func adminActor() actors.Actor {
	return actors.Actor{ID: uuid.New(), Model: enums.ActorModelUser, Role: enums.ActorRoleAdmin}
}

func TestCreateInitialStatusFollowsStoreFlags(t *testing.T) {
	cases := []struct {
		name       string
		requireDM  bool
		requireCM  bool
		wantStatus enums.RequestStatus
		wantDMSnap bool
		wantCMSnap bool
	}{
		{"both tiers", true, true, enums.RequestStatusPendingDM, true, true},
		{"dm only", true, false, enums.RequestStatusPendingDM, true, false},
		{"cm only", false, true, enums.RequestStatusPendingCM, false, true},
		{"neither", false, false, enums.RequestStatusPendingAdmin, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := setupRequestTestDB(t)
			f := newFixture(t, db)
			ctx := context.Background()

			store, dmID, cmID := f.addStore(tc.requireDM, tc.requireCM)
			sku := f.addSKU(10, 100)

			req, err := f.svc.Create(ctx, customerActor(), CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 3})
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, req.Status)

			if tc.wantDMSnap {
				require.NotNil(t, req.DMUserID)
				require.Equal(t, dmID, *req.DMUserID)
			} else {
				require.Nil(t, req.DMUserID)
			}
			if tc.wantCMSnap {
				require.NotNil(t, req.CMUserID)
				require.Equal(t, cmID, *req.CMUserID)
			} else {
				require.Nil(t, req.CMUserID)
			}

			require.True(t, req.UnitPrice.Equal(sku.UnitPrice))
		})
	}
}

func TestCreateRejectsShortStockAndLowBalance(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, _, _ := f.addStore(true, true)
	sku := f.addSKU(10, 5)

	_, err := f.svc.Create(ctx, customerActor(), CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 6})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))

	f.wallets.balances[store.ID] = decimal.NewFromInt(30)
	_, err = f.svc.Create(ctx, customerActor(), CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 4})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientBalance))

	var count int64
	require.NoError(t, db.Model(&models.PurchaseRequest{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateRequiresAssignedApprover(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, _, _ := f.addStore(true, false)
	store.DMUserID = nil
	sku := f.addSKU(10, 100)

	_, err := f.svc.Create(ctx, customerActor(), CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 1})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestApproveWalksBothTiers(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, dmID, cmID := f.addStore(true, true)
	sku := f.addSKU(10, 100)

	req, err := f.svc.Create(ctx, customerActor(), CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 2})
	require.NoError(t, err)

	req, err = f.svc.Approve(ctx, dmActor(dmID), req.ID)
	require.NoError(t, err)
	require.Equal(t, enums.RequestStatusPendingCM, req.Status)
	require.NotNil(t, req.DMApprovedBy)
	require.Equal(t, dmID, *req.DMApprovedBy)
	require.NotNil(t, req.DMApprovedAt)

	req, err = f.svc.Approve(ctx, cmActor(cmID), req.ID)
	require.NoError(t, err)
	require.Equal(t, enums.RequestStatusPendingAdmin, req.Status)
	require.NotNil(t, req.CMApprovedBy)
	require.Equal(t, cmID, *req.CMApprovedBy)
}

func TestApproveSkipsCMWhenNotRequired(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, dmID, _ := f.addStore(true, false)
	sku := f.addSKU(10, 100)

	req, err := f.svc.Create(ctx, customerActor(), CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, enums.RequestStatusPendingDM, req.Status)
	require.Nil(t, req.CMUserID)

	req, err = f.svc.Approve(ctx, dmActor(dmID), req.ID)
	require.NoError(t, err)
	require.Equal(t, enums.RequestStatusPendingAdmin, req.Status)
	require.Nil(t, req.CMApprovedBy)
	require.Nil(t, req.CMApprovedAt)
}

func TestApproveRejectsWrongActor(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, _, _ := f.addStore(true, true)
	sku := f.addSKU(10, 100)

	req, err := f.svc.Create(ctx, customerActor(), CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, dmActor(uuid.New()), req.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	// An admin cannot jump the DM tier either.
	_, err = f.svc.Approve(ctx, adminActor(), req.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestGuardedTransitionsHaveOneWinner(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	dmID := uuid.New()
	req := &models.PurchaseRequest{
		ID:              uuid.New(),
		StoreID:         uuid.New(),
		VendorProductID: uuid.New(),
		SKUID:           uuid.New(),
		Quantity:        1,
		UnitPrice:       decimal.NewFromInt(5),
		Currency:        enums.CurrencyUSD,
		Status:          enums.RequestStatusPendingDM,
		RequesterID:     uuid.New(),
		RequesterModel:  enums.ActorModelCustomer,
		DMUserID:        &dmID,
	}
	require.NoError(t, f.repo.Create(ctx, req))

	now := time.Now()
	ok, err := f.repo.ApproveDM(ctx, req.ID, enums.RequestStatusPendingAdmin, dmID, enums.ActorModelUser, now)
	require.NoError(t, err)
	require.True(t, ok)

	// The same guard fired again finds the status already advanced.
	ok, err = f.repo.ApproveDM(ctx, req.ID, enums.RequestStatusPendingAdmin, dmID, enums.ActorModelUser, now)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = f.repo.Reject(ctx, req.ID, enums.RequestStatusPendingDM, dmID, enums.ActorModelUser, now, "late")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestApproveAdminDelegatesToSettlement(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, _, _ := f.addStore(false, false)
	sku := f.addSKU(10, 100)

	req, err := f.svc.Create(ctx, customerActor(), CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, enums.RequestStatusPendingAdmin, req.Status)

	settled := *req
	settled.Status = enums.RequestStatusApproved
	f.settler.result = &settled

	out, err := f.svc.Approve(ctx, adminActor(), req.ID)
	require.NoError(t, err)
	require.Equal(t, 1, f.settler.calls)
	require.Equal(t, enums.RequestStatusApproved, out.Status)
	require.Contains(t, f.notifier.events, "settled")
}

func TestApproveAdminPropagatesSettlementFailure(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, _, _ := f.addStore(false, false)
	sku := f.addSKU(10, 100)

	req, err := f.svc.Create(ctx, customerActor(), CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 2})
	require.NoError(t, err)

	f.settler.err = pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough vendor stock")

	_, err = f.svc.Approve(ctx, adminActor(), req.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))
	require.NotContains(t, f.notifier.events, "settled")

	// The request stays at pending_admin for a retry.
	stored, err := f.repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, enums.RequestStatusPendingAdmin, stored.Status)
}

func TestRejectRecordsAuditAndDefaultsReason(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, dmID, _ := f.addStore(true, true)
	sku := f.addSKU(10, 100)

	req, err := f.svc.Create(ctx, customerActor(), CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 1})
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, dmActor(dmID), req.ID, "")
	require.NoError(t, err)
	require.Equal(t, enums.RequestStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectedBy)
	require.Equal(t, dmID, *rejected.RejectedBy)
	require.NotNil(t, rejected.RejectionReason)
	require.Equal(t, defaultRejectionReason, *rejected.RejectionReason)
	require.Contains(t, f.notifier.events, "rejected")

	// Terminal requests accept no further transitions.
	_, err = f.svc.Reject(ctx, adminActor(), req.ID, "again")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	_, err = f.svc.Approve(ctx, dmActor(dmID), req.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestRejectAllowsAdminAtAnyPendingTier(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, _, _ := f.addStore(true, true)
	sku := f.addSKU(10, 100)

	req, err := f.svc.Create(ctx, customerActor(), CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 1})
	require.NoError(t, err)
	require.Equal(t, enums.RequestStatusPendingDM, req.Status)

	rejected, err := f.svc.Reject(ctx, adminActor(), req.ID, "vendor discontinued")
	require.NoError(t, err)
	require.Equal(t, enums.RequestStatusRejected, rejected.Status)
	require.Equal(t, "vendor discontinued", *rejected.RejectionReason)
}

func TestCreateFromCartMaterializesOneRequestPerLine(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, _, _ := f.addStore(true, true)
	skuA := f.addSKU(10, 100)
	skuB := f.addSKU(4, 100)
	customer := customerActor()

	cart := &models.Cart{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		StoreID:    store.ID,
		Subtotal:   decimal.NewFromInt(38),
		Currency:   enums.CurrencyUSD,
		Items: []models.CartItem{
			{ID: uuid.New(), VendorProductID: skuA.VendorProductID, SKUID: skuA.ID, Quantity: 3, UnitPrice: skuA.UnitPrice, Currency: enums.CurrencyUSD},
			{ID: uuid.New(), VendorProductID: skuB.VendorProductID, SKUID: skuB.ID, Quantity: 2, UnitPrice: skuB.UnitPrice, Currency: enums.CurrencyUSD},
		},
	}
	f.carts.cart = cart

	created, err := f.svc.CreateFromCart(ctx, customer, cart.ID)
	require.NoError(t, err)
	require.Len(t, created, 2)
	require.True(t, f.carts.emptied)

	for _, req := range created {
		require.Equal(t, enums.RequestStatusPendingDM, req.Status)
		require.NotNil(t, req.CartID)
		require.Equal(t, cart.ID, *req.CartID)
	}

	var count int64
	require.NoError(t, db.Model(&models.PurchaseRequest{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestCreateFromCartShortfallCreatesNothing(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, _, _ := f.addStore(true, true)
	skuA := f.addSKU(10, 100)
	skuB := f.addSKU(4, 1)
	customer := customerActor()

	cart := &models.Cart{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		StoreID:    store.ID,
		Subtotal:   decimal.NewFromInt(38),
		Currency:   enums.CurrencyUSD,
		Items: []models.CartItem{
			{ID: uuid.New(), VendorProductID: skuA.VendorProductID, SKUID: skuA.ID, Quantity: 3, UnitPrice: skuA.UnitPrice, Currency: enums.CurrencyUSD},
			{ID: uuid.New(), VendorProductID: skuB.VendorProductID, SKUID: skuB.ID, Quantity: 2, UnitPrice: skuB.UnitPrice, Currency: enums.CurrencyUSD},
		},
	}
	f.carts.cart = cart

	_, err := f.svc.CreateFromCart(ctx, customer, cart.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))
	require.False(t, f.carts.emptied)

	var count int64
	require.NoError(t, db.Model(&models.PurchaseRequest{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateFromCartBalanceBelowSubtotalCreatesNothing(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, _, _ := f.addStore(true, true)
	f.wallets.balances[store.ID] = decimal.NewFromInt(100)
	sku := f.addSKU(50, 100)
	customer := customerActor()

	cart := &models.Cart{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		StoreID:    store.ID,
		Subtotal:   decimal.NewFromInt(150),
		Currency:   enums.CurrencyUSD,
		Items: []models.CartItem{
			{ID: uuid.New(), VendorProductID: sku.VendorProductID, SKUID: sku.ID, Quantity: 3, UnitPrice: sku.UnitPrice, Currency: enums.CurrencyUSD},
		},
	}
	f.carts.cart = cart

	_, err := f.svc.CreateFromCart(ctx, customer, cart.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientBalance))
	require.False(t, f.carts.emptied)

	var count int64
	require.NoError(t, db.Model(&models.PurchaseRequest{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestListScopesByRole(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, dmID, cmID := f.addStore(true, true)
	sku := f.addSKU(10, 100)
	customer := customerActor()

	first, err := f.svc.Create(ctx, customer, CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 1})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, customer, CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 2})
	require.NoError(t, err)

	// Advance one request past the DM tier.
	_, err = f.svc.Approve(ctx, dmActor(dmID), first.ID)
	require.NoError(t, err)

	dmRows, err := f.svc.List(ctx, dmActor(dmID), ListInput{Page: pagination.Params{Limit: 10}})
	require.NoError(t, err)
	require.Len(t, dmRows, 1)
	require.Equal(t, second.ID, dmRows[0].ID)

	cmRows, err := f.svc.List(ctx, cmActor(cmID), ListInput{Page: pagination.Params{Limit: 10}})
	require.NoError(t, err)
	require.Len(t, cmRows, 1)
	require.Equal(t, first.ID, cmRows[0].ID)

	// Another DM sees nothing even with matching status.
	otherRows, err := f.svc.List(ctx, dmActor(uuid.New()), ListInput{Page: pagination.Params{Limit: 10}})
	require.NoError(t, err)
	require.Empty(t, otherRows)

	mine, err := f.svc.List(ctx, customer, ListInput{Page: pagination.Params{Limit: 10}})
	require.NoError(t, err)
	require.Len(t, mine, 2)
}

func TestGetEnforcesVisibility(t *testing.T) {
	db := setupRequestTestDB(t)
	f := newFixture(t, db)
	ctx := context.Background()

	store, dmID, _ := f.addStore(true, true)
	sku := f.addSKU(10, 100)
	customer := customerActor()

	req, err := f.svc.Create(ctx, customer, CreateInput{StoreID: store.ID, SKUID: sku.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, customer, req.ID)
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, dmActor(dmID), req.ID)
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, adminActor(), req.ID)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, customerActor(), req.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

var _ settlement.RequestStore = (*Repository)(nil)
