package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
)

// ProductView is the public vendor product shape.
type ProductView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	VendorName  string    `json:"vendorName"`
	Description *string   `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newProductView(record *models.VendorProduct) ProductView {
	return ProductView{
		ID:          record.ID,
		Name:        record.Name,
		VendorName:  record.VendorName,
		Description: record.Description,
		Active:      record.Active,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func newProductViews(rows []models.VendorProduct) []ProductView {
	views := make([]ProductView, 0, len(rows))
	for i := range rows {
		views = append(views, newProductView(&rows[i]))
	}
	return views
}

// SKUView is the public SKU shape.
type SKUView struct {
	ID              uuid.UUID `json:"id"`
	VendorProductID uuid.UUID `json:"vendorProductId"`
	Code            string    `json:"code"`
	UnitPrice       string    `json:"unitPrice"`
	Currency        string    `json:"currency"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newSKUView(record *models.SKU) SKUView {
	return SKUView{
		ID:              record.ID,
		VendorProductID: record.VendorProductID,
		Code:            record.Code,
		UnitPrice:       record.UnitPrice.String(),
		Currency:        record.Currency.String(),
		Active:          record.Active,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

func newSKUViews(rows []models.SKU) []SKUView {
	views := make([]SKUView, 0, len(rows))
	for i := range rows {
		views = append(views, newSKUView(&rows[i]))
	}
	return views
}

// LotView is one vendor stock lot.
type LotView struct {
	ID        uuid.UUID `json:"id"`
	SKUID     uuid.UUID `json:"skuId"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newLotView(record *models.SkuLot) LotView {
	return LotView{
		ID:        record.ID,
		SKUID:     record.SKUID,
		Quantity:  record.Quantity,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func newLotViews(rows []models.SkuLot) []LotView {
	views := make([]LotView, 0, len(rows))
	for i := range rows {
		views = append(views, newLotView(&rows[i]))
	}
	return views
}

// AvailabilityView reports total purchasable stock for a SKU.
type AvailabilityView struct {
	SKUID     uuid.UUID `json:"skuId"`
	Available int64     `json:"available"`
}
