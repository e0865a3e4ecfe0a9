package catalog

import "github.com/google/uuid"

// CreateProductRequest registers a vendor product.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=160"`
	VendorName  string  `json:"vendorName" validate:"required,min=2,max=160"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// CreateSKURequest registers a purchasable variant under a product.
type CreateSKURequest struct {
	VendorProductID uuid.UUID `json:"vendorProductId" validate:"required"`
	Code            string    `json:"code" validate:"required,min=1,max=64"`
	UnitPrice       string    `json:"unitPrice" validate:"required"`
	Currency        string    `json:"currency,omitempty"`
}

// AddLotRequest books received vendor stock against a SKU.
type AddLotRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}
