package stores

import "github.com/google/uuid"

// CreateStoreRequest provisions a new store. Approval tiers default to
// required when the flags are omitted.
type CreateStoreRequest struct {
	Name              string     `json:"name" validate:"required,min=2,max=120"`
	Email             *string    `json:"email,omitempty" validate:"omitempty,max=254"`
	Phone             *string    `json:"phone,omitempty" validate:"omitempty,max=32"`
	RequireDMApproval *bool      `json:"requireDmApproval,omitempty"`
	RequireCMApproval *bool      `json:"requireCmApproval,omitempty"`
	DMUserID          *uuid.UUID `json:"dmUserId,omitempty"`
	CMUserID          *uuid.UUID `json:"cmUserId,omitempty"`
}

// UpdateApproversRequest rewrites the approval-tier configuration.
type UpdateApproversRequest struct {
	RequireDMApproval bool       `json:"requireDmApproval"`
	RequireCMApproval bool       `json:"requireCmApproval"`
	DMUserID          *uuid.UUID `json:"dmUserId,omitempty"`
	CMUserID          *uuid.UUID `json:"cmUserId,omitempty"`
}

// CreditWalletRequest tops up a store's prepaid balance.
type CreditWalletRequest struct {
	Amount string `json:"amount" validate:"required"`
}
