package models

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a warehouse entity acting as the purchasing party.
// DM/CM assignments and the approval-tier flags drive the initial status of
// every purchase request created for the store.
type Store struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string     `gorm:"column:name;not null"`
	Email             *string    `gorm:"column:email"`
	Phone             *string    `gorm:"column:phone"`
	RequireDMApproval bool       `gorm:"column:require_dm_approval;not null;default:true"`
	RequireCMApproval bool       `gorm:"column:require_cm_approval;not null;default:true"`
	DMUserID          *uuid.UUID `gorm:"column:dm_user_id;type:uuid"`
	CMUserID          *uuid.UUID `gorm:"column:cm_user_id;type:uuid"`
	Active            bool       `gorm:"column:active;not null;default:true"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Store) TableName() string { return "stores" }
