package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	settingsdomain "github.com/smallbiznis/medicita/internal/settings/domain"
	"gorm.io/gorm"
)

const (
	defaultCycleEndDay    = 6
	defaultCommissionRate = 0.2
	defaultTimezone       = "America/Caracas"
)

var defaultCityFees = map[string]float64{
	"Caracas":   50,
	"Valencia":  50,
	"Maracaibo": 50,
}

// EnsureDefaultSettings seeds the billing settings row and the default
// city fees on first startup. Existing rows are never touched, so
// operator edits survive restarts.
func EnsureDefaultSettings(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSettingsTx(ctx, tx, node); err != nil {
			return err
		}
		return ensureCityFeesTx(ctx, tx, node)
	})
}

func ensureSettingsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var setting settingsdomain.BillingSetting
	err := tx.WithContext(ctx).Order("id ASC").First(&setting).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	setting = settingsdomain.BillingSetting{
		ID:             node.Generate(),
		CycleEndDay:    defaultCycleEndDay,
		CommissionRate: defaultCommissionRate,
		Timezone:       defaultTimezone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return tx.WithContext(ctx).Create(&setting).Error
}

func ensureCityFeesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for city, fee := range defaultCityFees {
		err := tx.WithContext(ctx).Exec(`
			INSERT INTO city_fees (id, city, monthly_fee)
			VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING
		`,
			node.Generate(),
			city,
			fee,
		).Error

		if err != nil {
			return err
		}
	}

	return nil
}
