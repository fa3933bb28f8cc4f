package domain

import (
	"context"
	"errors"
)

type UpdateSettingsRequest struct {
	CycleEndDay    int
	CommissionRate float64
	Timezone       string
}

type SetCityFeeRequest struct {
	City       string
	MonthlyFee float64
}

type Service interface {
	// Get returns the current settings or ErrSettingsNotFound when the
	// row has never been created.
	Get(ctx context.Context) (BillingSetting, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (BillingSetting, error)

	ListCityFees(ctx context.Context) ([]CityFee, error)
	SetCityFee(ctx context.Context, req SetCityFeeRequest) (CityFee, error)
}

var (
	ErrSettingsNotFound      = errors.New("settings_not_found")
	ErrInvalidCommissionRate = errors.New("invalid_commission_rate")
	ErrInvalidTimezone       = errors.New("invalid_timezone")
	ErrInvalidCity           = errors.New("invalid_city")
	ErrInvalidFee            = errors.New("invalid_fee")
)
