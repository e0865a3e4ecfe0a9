package catalog

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
	"github.com/provisionhq/procurehub-backend/pkg/pagination"
)

// Service exposes read and admin write operations on the vendor catalog.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.VendorProduct, error)
	CreateSKU(ctx context.Context, input CreateSKUInput) (*models.SKU, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.VendorProduct, error)
	GetSKU(ctx context.Context, id uuid.UUID) (*models.SKU, error)
	// GetPurchasableSKU loads a SKU and enforces that both the SKU and its
	// product are active, returning the pair callers snapshot prices from.
	GetPurchasableSKU(ctx context.Context, skuID uuid.UUID) (*models.SKU, *models.VendorProduct, error)
	ListProducts(ctx context.Context, params pagination.Params) ([]models.VendorProduct, error)
	ListSKUs(ctx context.Context, productID uuid.UUID) ([]models.SKU, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// CreateProductInput registers a vendor-supplied product.
type CreateProductInput struct {
	Name        string
	VendorName  string
	Description *string
}

// CreateSKUInput registers a purchasable variant under a product.
type CreateSKUInput struct {
	VendorProductID uuid.UUID
	Code            string
	UnitPrice       decimal.Decimal
	Currency        enums.Currency
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.VendorProduct, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.VendorName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor name is required")
	}
	product := &models.VendorProduct{
		ID:          uuid.New(),
		Name:        input.Name,
		VendorName:  input.VendorName,
		Description: input.Description,
		Active:      true,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) CreateSKU(ctx context.Context, input CreateSKUInput) (*models.SKU, error) {
	if input.VendorProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor product id is required")
	}
	if input.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku code is required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be non-negative")
	}
	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyUSD
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
	}

	if _, err := s.repo.GetProduct(ctx, input.VendorProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	sku := &models.SKU{
		ID:              uuid.New(),
		VendorProductID: input.VendorProductID,
		Code:            input.Code,
		UnitPrice:       input.UnitPrice,
		Currency:        currency,
		Active:          true,
	}
	if err := s.repo.CreateSKU(ctx, sku); err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sku")
	}
	return sku, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.VendorProduct, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) GetSKU(ctx context.Context, id uuid.UUID) (*models.SKU, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku id is required")
	}
	sku, err := s.repo.GetSKU(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sku not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sku")
	}
	return sku, nil
}

func (s *service) GetPurchasableSKU(ctx context.Context, skuID uuid.UUID) (*models.SKU, *models.VendorProduct, error) {
	sku, err := s.GetSKU(ctx, skuID)
	if err != nil {
		return nil, nil, err
	}
	if !sku.Active {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is not available")
	}
	product, err := s.GetProduct(ctx, sku.VendorProductID)
	if err != nil {
		return nil, nil, err
	}
	if !product.Active {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor product is not available")
	}
	return sku, product, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params) ([]models.VendorProduct, error) {
	rows, err := s.repo.ListProducts(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

func (s *service) ListSKUs(ctx context.Context, productID uuid.UUID) ([]models.SKU, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	rows, err := s.repo.ListSKUsByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list skus")
	}
	return rows, nil
}
