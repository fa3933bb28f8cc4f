package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Doctor payment review states. The capitalized values match what the
// mobile clients and the accrual job expect.
const (
	StatusPending  = "Pending"
	StatusPaid     = "Paid"
	StatusRejected = "Rejected"
)

// DoctorPayment is a subscription payment reported by a doctor and
// reviewed by an operator.
type DoctorPayment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	DoctorID  snowflake.ID `gorm:"not null;index" json:"doctor_id"`
	Amount    float64      `gorm:"not null" json:"amount"`
	Method    string       `json:"method,omitempty"`
	Reference string       `json:"reference,omitempty"`
	Status    string       `gorm:"not null;index" json:"status"`
	PaidAt    *time.Time   `json:"paid_at,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
