package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
)

// StoreView is the public store shape.
type StoreView struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Email             *string    `json:"email,omitempty"`
	Phone             *string    `json:"phone,omitempty"`
	RequireDMApproval bool       `json:"requireDmApproval"`
	RequireCMApproval bool       `json:"requireCmApproval"`
	DMUserID          *uuid.UUID `json:"dmUserId,omitempty"`
	CMUserID          *uuid.UUID `json:"cmUserId,omitempty"`
	Active            bool       `json:"active"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func newStoreView(record *models.Store) StoreView {
	return StoreView{
		ID:                record.ID,
		Name:              record.Name,
		Email:             record.Email,
		Phone:             record.Phone,
		RequireDMApproval: record.RequireDMApproval,
		RequireCMApproval: record.RequireCMApproval,
		DMUserID:          record.DMUserID,
		CMUserID:          record.CMUserID,
		Active:            record.Active,
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
	}
}

func newStoreViews(rows []models.Store) []StoreView {
	views := make([]StoreView, 0, len(rows))
	for i := range rows {
		views = append(views, newStoreView(&rows[i]))
	}
	return views
}

// WalletView is the public wallet shape.
type WalletView struct {
	StoreID           uuid.UUID  `json:"storeId"`
	Balance           string     `json:"balance"`
	Currency          string     `json:"currency"`
	LastTransactionAt *time.Time `json:"lastTransactionAt,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func newWalletView(record *models.Wallet) WalletView {
	return WalletView{
		StoreID:           record.StoreID,
		Balance:           record.Balance.String(),
		Currency:          record.Currency.String(),
		LastTransactionAt: record.LastTransactionAt,
		UpdatedAt:         record.UpdatedAt,
	}
}

// InventoryView is one settled (store, product, SKU) stock row.
type InventoryView struct {
	StoreID         uuid.UUID `json:"storeId"`
	VendorProductID uuid.UUID `json:"vendorProductId"`
	SKUID           uuid.UUID `json:"skuId"`
	Quantity        int64     `json:"quantity"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newInventoryViews(rows []models.StoreInventory) []InventoryView {
	views := make([]InventoryView, 0, len(rows))
	for _, row := range rows {
		views = append(views, InventoryView{
			StoreID:         row.StoreID,
			VendorProductID: row.VendorProductID,
			SKUID:           row.SKUID,
			Quantity:        row.Quantity,
			UpdatedAt:       row.UpdatedAt,
		})
	}
	return views
}
