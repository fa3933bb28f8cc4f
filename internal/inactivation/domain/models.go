package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Values recorded by the suspension job. They are surfaced verbatim to
// the Spanish-speaking back office.
const (
	ReasonMissingPayment = "Falta de pago"
	OriginAutomatic      = "Automático"
	OriginManual         = "Manual"
)

// InactivationLog records why and when a doctor was deactivated. The
// doctor's name is denormalized so the log stays readable after the
// profile changes.
type InactivationLog struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	DoctorID   snowflake.ID `gorm:"not null;index" json:"doctor_id"`
	DoctorName string       `gorm:"not null" json:"doctor_name"`
	Reason     string       `gorm:"not null" json:"reason"`
	Origin     string       `gorm:"not null" json:"origin"`
	OccurredOn time.Time    `gorm:"type:date;not null" json:"occurred_on"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
