package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbpkg "github.com/provisionhq/procurehub-backend/pkg/db"
	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
	pkgerrors "github.com/provisionhq/procurehub-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type skuLoader interface {
	GetPurchasableSKU(ctx context.Context, skuID uuid.UUID) (*models.SKU, *models.VendorProduct, error)
}

// Service exposes cart operations scoped to one (customer, store) pair.
// Every mutation recomputes the subtotal before committing.
type Service interface {
	GetOrCreate(ctx context.Context, customerID, storeID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, customerID, storeID uuid.UUID, input AddItemInput) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, customerID, storeID, itemID uuid.UUID, quantity int64) (*models.Cart, error)
	RemoveItem(ctx context.Context, customerID, storeID, itemID uuid.UUID) (*models.Cart, error)
	Clear(ctx context.Context, customerID, storeID uuid.UUID) (*models.Cart, error)
	// GetOwned loads a cart by id and enforces customer ownership; used when
	// materializing a cart into purchase requests.
	GetOwned(ctx context.Context, cartID, customerID uuid.UUID) (*models.Cart, error)
	// Empty removes all items and zeroes the subtotal inside the caller's
	// transaction. The cart row survives for reuse.
	Empty(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
	skus skuLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, skus skuLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if skus == nil {
		return nil, fmt.Errorf("sku loader required")
	}
	return &service{repo: repo, tx: tx, skus: skus}, nil
}

// AddItemInput adds or merges one SKU selection.
type AddItemInput struct {
	SKUID    uuid.UUID
	Quantity int64
}

func (s *service) GetOrCreate(ctx context.Context, customerID, storeID uuid.UUID) (*models.Cart, error) {
	if customerID == uuid.Nil || storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer and store ids are required")
	}

	cart, err := s.repo.GetByCustomerStore(ctx, customerID, storeID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	fresh := &models.Cart{
		ID:         uuid.New(),
		CustomerID: customerID,
		StoreID:    storeID,
		Subtotal:   decimal.Zero,
		Currency:   enums.CurrencyUSD,
	}
	if err := s.repo.Create(ctx, fresh); err != nil {
		// Lost a creation race; the winner's cart is the cart.
		if dbpkg.IsUniqueViolation(err, "") {
			return s.GetOrCreate(ctx, customerID, storeID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	fresh.Items = []models.CartItem{}
	return fresh, nil
}

func (s *service) AddItem(ctx context.Context, customerID, storeID uuid.UUID, input AddItemInput) (*models.Cart, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	sku, product, err := s.skus.GetPurchasableSKU(ctx, input.SKUID)
	if err != nil {
		return nil, err
	}

	cart, err := s.GetOrCreate(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindItem(ctx, cart.ID, product.ID, sku.ID)
		switch {
		case err == nil:
			// Same product+SKU pair merges quantity and refreshes the price.
			if err := repo.UpdateItem(ctx, existing.ID, existing.Quantity+input.Quantity, sku.UnitPrice); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := &models.CartItem{
				ID:              uuid.New(),
				CartID:          cart.ID,
				VendorProductID: product.ID,
				SKUID:           sku.ID,
				Quantity:        input.Quantity,
				UnitPrice:       sku.UnitPrice,
				Currency:        sku.Currency,
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return err
			}
		default:
			return err
		}
		return recomputeSubtotal(ctx, repo, cart.ID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return s.reload(ctx, cart.ID)
}

func (s *service) UpdateItemQuantity(ctx context.Context, customerID, storeID, itemID uuid.UUID, quantity int64) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	cart, err := s.requireCart(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateItem(ctx, item.ID, quantity, item.UnitPrice); err != nil {
			return err
		}
		return recomputeSubtotal(ctx, repo, cart.ID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return s.reload(ctx, cart.ID)
}

func (s *service) RemoveItem(ctx context.Context, customerID, storeID, itemID uuid.UUID) (*models.Cart, error) {
	cart, err := s.requireCart(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		return recomputeSubtotal(ctx, repo, cart.ID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return s.reload(ctx, cart.ID)
}

func (s *service) Clear(ctx context.Context, customerID, storeID uuid.UUID) (*models.Cart, error) {
	cart, err := s.requireCart(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.Empty(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return s.reload(ctx, cart.ID)
}

func (s *service) GetOwned(ctx context.Context, cartID, customerID uuid.UUID) (*models.Cart, error) {
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if cart.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart belongs to another customer")
	}
	return cart, nil
}

func (s *service) Empty(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	repo := s.repo.WithTx(tx)
	if err := repo.DeleteItems(ctx, cartID); err != nil {
		return err
	}
	return repo.UpdateSubtotal(ctx, cartID, decimal.Zero)
}

func (s *service) requireCart(ctx context.Context, customerID, storeID uuid.UUID) (*models.Cart, error) {
	if customerID == uuid.Nil || storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer and store ids are required")
	}
	cart, err := s.repo.GetByCustomerStore(ctx, customerID, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

// recomputeSubtotal rewrites subtotal = sum of line totals. It runs inside
// the same transaction as the item write so a committed cart never carries a
// stale subtotal.
func recomputeSubtotal(ctx context.Context, repo *Repository, cartID uuid.UUID) error {
	items, err := repo.ListItems(ctx, cartID)
	if err != nil {
		return fmt.Errorf("list cart items: %w", err)
	}
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	if err := repo.UpdateSubtotal(ctx, cartID, subtotal); err != nil {
		return fmt.Errorf("update cart subtotal: %w", err)
	}
	return nil
}

func (s *service) reload(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	return cart, nil
}
