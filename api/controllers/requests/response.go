package requests

import (
	"time"

	"github.com/google/uuid"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
)

// ApprovalView is one recorded tier decision.
type ApprovalView struct {
	By    uuid.UUID `json:"by"`
	Model string    `json:"model"`
	At    time.Time `json:"at"`
}

// RequestView is the public purchase request shape.
type RequestView struct {
	ID              uuid.UUID  `json:"id"`
	StoreID         uuid.UUID  `json:"storeId"`
	VendorProductID uuid.UUID  `json:"vendorProductId"`
	SKUID           uuid.UUID  `json:"skuId"`
	Quantity        int64      `json:"quantity"`
	UnitPrice       string     `json:"unitPrice"`
	Currency        string     `json:"currency"`
	Amount          string     `json:"amount"`
	Status          string     `json:"status"`
	RequesterID     uuid.UUID  `json:"requesterId"`
	RequesterModel  string     `json:"requesterModel"`
	DMUserID        *uuid.UUID `json:"dmUserId,omitempty"`
	CMUserID        *uuid.UUID `json:"cmUserId,omitempty"`
	CartID          *uuid.UUID `json:"cartId,omitempty"`

	DMApproval    *ApprovalView `json:"dmApproval,omitempty"`
	CMApproval    *ApprovalView `json:"cmApproval,omitempty"`
	AdminApproval *ApprovalView `json:"adminApproval,omitempty"`

	RejectedBy      *uuid.UUID `json:"rejectedBy,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newRequestView(req *models.PurchaseRequest) RequestView {
	view := RequestView{
		ID:              req.ID,
		StoreID:         req.StoreID,
		VendorProductID: req.VendorProductID,
		SKUID:           req.SKUID,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice.String(),
		Currency:        req.Currency.String(),
		Amount:          req.Amount().String(),
		Status:          req.Status.String(),
		RequesterID:     req.RequesterID,
		RequesterModel:  req.RequesterModel.String(),
		DMUserID:        req.DMUserID,
		CMUserID:        req.CMUserID,
		CartID:          req.CartID,
		RejectedBy:      req.RejectedBy,
		RejectedAt:      req.RejectedAt,
		RejectionReason: req.RejectionReason,
		CreatedAt:       req.CreatedAt,
		UpdatedAt:       req.UpdatedAt,
	}
	if req.DMApprovedBy != nil && req.DMApprovedByModel != nil && req.DMApprovedAt != nil {
		view.DMApproval = &ApprovalView{By: *req.DMApprovedBy, Model: req.DMApprovedByModel.String(), At: *req.DMApprovedAt}
	}
	if req.CMApprovedBy != nil && req.CMApprovedByModel != nil && req.CMApprovedAt != nil {
		view.CMApproval = &ApprovalView{By: *req.CMApprovedBy, Model: req.CMApprovedByModel.String(), At: *req.CMApprovedAt}
	}
	if req.AdminApprovedBy != nil && req.AdminApprovedModel != nil && req.AdminApprovedAt != nil {
		view.AdminApproval = &ApprovalView{By: *req.AdminApprovedBy, Model: req.AdminApprovedModel.String(), At: *req.AdminApprovedAt}
	}
	return view
}

func newRequestViews(rows []models.PurchaseRequest) []RequestView {
	views := make([]RequestView, 0, len(rows))
	for i := range rows {
		views = append(views, newRequestView(&rows[i]))
	}
	return views
}
