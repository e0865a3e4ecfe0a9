package requests

import "github.com/google/uuid"

// CreateRequest submits a single-SKU purchase request directly.
type CreateRequest struct {
	StoreID  uuid.UUID `json:"storeId" validate:"required"`
	SKUID    uuid.UUID `json:"skuId" validate:"required"`
	Quantity int64     `json:"quantity" validate:"required,gt=0"`
}

// RejectRequest carries the optional rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}
