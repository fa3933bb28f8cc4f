package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Seller refers doctors into the marketplace and earns a monthly
// commission for each active referral. CommissionRate zero means the
// configured default applies.
type Seller struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name           string            `gorm:"not null" json:"name"`
	Email          string            `gorm:"not null" json:"email"`
	Phone          string            `json:"phone,omitempty"`
	CommissionRate float64           `gorm:"not null;default:0" json:"commission_rate"`
	Status         string            `gorm:"not null;index" json:"status"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
