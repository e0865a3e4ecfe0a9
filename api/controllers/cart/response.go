package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
)

// ItemView is one cart line.
type ItemView struct {
	ID              uuid.UUID `json:"id"`
	VendorProductID uuid.UUID `json:"vendorProductId"`
	SKUID           uuid.UUID `json:"skuId"`
	Quantity        int64     `json:"quantity"`
	UnitPrice       string    `json:"unitPrice"`
	LineTotal       string    `json:"lineTotal"`
	Currency        string    `json:"currency"`
}

// CartView is the public cart shape.
type CartView struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customerId"`
	StoreID    uuid.UUID  `json:"storeId"`
	Subtotal   string     `json:"subtotal"`
	Currency   string     `json:"currency"`
	Items      []ItemView `json:"items"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func newCartView(record *models.Cart) CartView {
	items := make([]ItemView, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, ItemView{
			ID:              item.ID,
			VendorProductID: item.VendorProductID,
			SKUID:           item.SKUID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice.String(),
			LineTotal:       item.LineTotal().String(),
			Currency:        item.Currency.String(),
		})
	}
	return CartView{
		ID:         record.ID,
		CustomerID: record.CustomerID,
		StoreID:    record.StoreID,
		Subtotal:   record.Subtotal.String(),
		Currency:   record.Currency.String(),
		Items:      items,
		UpdatedAt:  record.UpdatedAt,
	}
}
