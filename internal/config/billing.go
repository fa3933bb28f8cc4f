package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingConfig carries operator-tunable billing defaults. The
// authoritative cycle-end day lives in the database; these values are
// fallbacks and rate defaults used by the batch jobs.
type BillingConfig struct {
	DefaultCycleEndDay    int                `mapstructure:"defaultCycleEndDay"`
	DefaultCommissionRate float64            `mapstructure:"defaultCommissionRate"`
	DefaultCityFee        float64            `mapstructure:"defaultCityFee"`
	CityFees              map[string]float64 `mapstructure:"cityFees"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		DefaultCycleEndDay:    6,
		DefaultCommissionRate: 0.2,
		DefaultCityFee:        0,
		CityFees:              map[string]float64{},
	}
}

// CityFee returns the configured fallback fee for a city, or the
// global default when the city is unknown.
func (c BillingConfig) CityFee(city string) float64 {
	if fee, ok := c.CityFees[strings.ToLower(strings.TrimSpace(city))]; ok {
		return fee
	}
	return c.DefaultCityFee
}

type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/medicita/config") // Volume-mounted config
	v.AddConfigPath("/etc/medicita")            // System config
	v.AddConfigPath(".")                        // Current directory (dev mode)

	v.SetEnvPrefix("MEDICITA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// if config file not found, use defaults
		defaults := DefaultBillingConfig()
		v.SetDefault("billing.defaultCycleEndDay", defaults.DefaultCycleEndDay)
		v.SetDefault("billing.defaultCommissionRate", defaults.DefaultCommissionRate)
		v.SetDefault("billing.defaultCityFee", defaults.DefaultCityFee)
		v.SetDefault("billing.cityFees", defaults.CityFees)
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	cfg = normalizeBillingConfig(cfg)
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-config] reload failed: %v", err)
			return
		}
		updated = normalizeBillingConfig(updated)
		if err := validateBillingConfig(updated); err != nil {
			log.Printf("[billing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

func normalizeBillingConfig(cfg BillingConfig) BillingConfig {
	defaults := DefaultBillingConfig()
	if cfg.DefaultCycleEndDay == 0 {
		cfg.DefaultCycleEndDay = defaults.DefaultCycleEndDay
	}
	if cfg.DefaultCommissionRate == 0 {
		cfg.DefaultCommissionRate = defaults.DefaultCommissionRate
	}
	normalized := make(map[string]float64, len(cfg.CityFees))
	for city, fee := range cfg.CityFees {
		normalized[strings.ToLower(strings.TrimSpace(city))] = fee
	}
	cfg.CityFees = normalized
	return cfg
}

func validateBillingConfig(cfg BillingConfig) error {
	if cfg.DefaultCycleEndDay < 1 || cfg.DefaultCycleEndDay > 31 {
		return errors.New("billing.defaultCycleEndDay must be between 1 and 31")
	}
	if cfg.DefaultCommissionRate <= 0 || cfg.DefaultCommissionRate > 1 {
		return errors.New("billing.defaultCommissionRate must be in (0, 1]")
	}
	for city, fee := range cfg.CityFees {
		if fee < 0 {
			return errors.New("billing.cityFees." + city + " cannot be negative")
		}
	}
	return nil
}
