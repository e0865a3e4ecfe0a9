package cart

import "github.com/google/uuid"

// AddItemRequest adds a SKU line to the caller's store cart.
type AddItemRequest struct {
	StoreID  uuid.UUID `json:"storeId" validate:"required"`
	SKUID    uuid.UUID `json:"skuId" validate:"required"`
	Quantity int64     `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemRequest changes one line's quantity.
type UpdateItemRequest struct {
	StoreID  uuid.UUID `json:"storeId" validate:"required"`
	Quantity int64     `json:"quantity" validate:"required,gt=0"`
}

// CheckoutRequest materializes the caller's store cart into requests.
type CheckoutRequest struct {
	StoreID uuid.UUID `json:"storeId" validate:"required"`
}
