package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
	SubscriptionPending  = "pending_payment"
)

// Doctor holds the marketplace profile plus the subscription fields the
// daily billing jobs act on. NextPaymentDate is nil until the first
// payment is approved.
type Doctor struct {
	ID                 snowflake.ID      `gorm:"primaryKey" json:"id"`
	SellerID           snowflake.ID      `gorm:"index" json:"seller_id,omitempty"`
	Name               string            `gorm:"not null" json:"name"`
	Email              string            `gorm:"not null" json:"email"`
	City               string            `gorm:"not null;index" json:"city"`
	Specialty          string            `json:"specialty,omitempty"`
	Status             string            `gorm:"not null;index" json:"status"`
	SubscriptionStatus string            `gorm:"not null" json:"subscription_status"`
	NextPaymentDate    *time.Time        `gorm:"type:date" json:"next_payment_date,omitempty"`
	Metadata           datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt          time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
