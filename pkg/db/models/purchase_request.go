package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/provisionhq/procurehub-backend/pkg/enums"
)

// PurchaseRequest is the approval workflow entity. One request covers a
// single SKU; cart materialization creates one request per line item.
//
// DMUserID/CMUserID are snapshotted from the store at creation time and are
// never refreshed, so a reassigned approver cannot act on older requests.
// UnitPrice/Currency are snapshotted the same way and drive the settlement
// debit. Once Status is approved or rejected the row accepts no further
// mutation.
type PurchaseRequest struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID         uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	VendorProductID uuid.UUID           `gorm:"column:vendor_product_id;type:uuid;not null"`
	SKUID           uuid.UUID           `gorm:"column:sku_id;type:uuid;not null;index"`
	Quantity        int64               `gorm:"column:quantity;not null"`
	UnitPrice       decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Currency        enums.Currency      `gorm:"column:currency;not null;default:'USD'"`
	Status          enums.RequestStatus `gorm:"column:status;not null;index"`

	RequesterID    uuid.UUID        `gorm:"column:requester_id;type:uuid;not null;index"`
	RequesterModel enums.ActorModel `gorm:"column:requester_model;not null"`

	DMUserID *uuid.UUID `gorm:"column:dm_user_id;type:uuid;index"`
	CMUserID *uuid.UUID `gorm:"column:cm_user_id;type:uuid;index"`

	DMApprovedBy       *uuid.UUID        `gorm:"column:dm_approved_by;type:uuid"`
	DMApprovedByModel  *enums.ActorModel `gorm:"column:dm_approved_by_model"`
	DMApprovedAt       *time.Time        `gorm:"column:dm_approved_at"`
	CMApprovedBy       *uuid.UUID        `gorm:"column:cm_approved_by;type:uuid"`
	CMApprovedByModel  *enums.ActorModel `gorm:"column:cm_approved_by_model"`
	CMApprovedAt       *time.Time        `gorm:"column:cm_approved_at"`
	AdminApprovedBy    *uuid.UUID        `gorm:"column:admin_approved_by;type:uuid"`
	AdminApprovedModel *enums.ActorModel `gorm:"column:admin_approved_by_model"`
	AdminApprovedAt    *time.Time        `gorm:"column:admin_approved_at"`

	RejectedBy      *uuid.UUID        `gorm:"column:rejected_by;type:uuid"`
	RejectedByModel *enums.ActorModel `gorm:"column:rejected_by_model"`
	RejectedAt      *time.Time        `gorm:"column:rejected_at"`
	RejectionReason *string           `gorm:"column:rejection_reason"`

	CartID *uuid.UUID `gorm:"column:cart_id;type:uuid;index"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PurchaseRequest) TableName() string { return "purchase_requests" }

// Amount returns the settlement debit, snapshotted unit price times quantity.
func (r PurchaseRequest) Amount() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(r.Quantity))
}
