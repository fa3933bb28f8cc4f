package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// IncludedDoctor is one line of a commission breakdown: which referral
// contributed and how much.
type IncludedDoctor struct {
	DoctorID         snowflake.ID `json:"doctor_id"`
	Name             string       `json:"name"`
	CommissionAmount float64      `json:"commission_amount"`
}

// SellerPayment is a monthly commission owed to a seller. At most one
// pending record may exist per seller and period; the period label is
// compared case-insensitively.
type SellerPayment struct {
	ID              snowflake.ID   `gorm:"primaryKey" json:"id"`
	SellerID        snowflake.ID   `gorm:"not null;index" json:"seller_id"`
	Amount          float64        `gorm:"not null" json:"amount"`
	Period          string         `gorm:"not null" json:"period"`
	IncludedDoctors datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"included_doctors"`
	Status          string         `gorm:"not null;index" json:"status"`
	ProofURL        string         `json:"proof_url,omitempty"`
	TransactionID   string         `json:"transaction_id,omitempty"`
	Read            bool           `gorm:"not null;default:false" json:"read"`
	PaidAt          *time.Time     `json:"paid_at,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
