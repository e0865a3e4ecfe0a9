package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	"github.com/provisionhq/procurehub-backend/pkg/pagination"
)

// Repository manages vendor products and their SKUs.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.VendorProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) CreateSKU(ctx context.Context, sku *models.SKU) error {
	return r.db.WithContext(ctx).Create(sku).Error
}

func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*models.VendorProduct, error) {
	var product models.VendorProduct
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) GetSKU(ctx context.Context, id uuid.UUID) (*models.SKU, error) {
	var sku models.SKU
	if err := r.db.WithContext(ctx).First(&sku, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sku, nil
}

func (r *Repository) ListProducts(ctx context.Context, params pagination.Params) ([]models.VendorProduct, error) {
	q := r.db.WithContext(ctx).Model(&models.VendorProduct{})

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.VendorProduct
	err = q.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) ListSKUsByProduct(ctx context.Context, productID uuid.UUID) ([]models.SKU, error) {
	var rows []models.SKU
	err := r.db.WithContext(ctx).
		Where("vendor_product_id = ?", productID).
		Order("code ASC").
		Find(&rows).Error
	return rows, err
}
