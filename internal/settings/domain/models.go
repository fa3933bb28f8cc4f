package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BillingSetting is the single row steering the daily billing jobs.
// Jobs refuse to run when it is absent.
type BillingSetting struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	CycleEndDay    int          `gorm:"not null" json:"cycle_end_day"`
	CommissionRate float64      `gorm:"not null" json:"commission_rate"`
	Timezone       string       `gorm:"not null" json:"timezone"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// CityFee is the monthly subscription fee doctors pay in a given city.
type CityFee struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	City       string       `gorm:"not null;uniqueIndex" json:"city"`
	MonthlyFee float64      `gorm:"not null" json:"monthly_fee"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
