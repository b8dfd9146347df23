package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/finpath/projection-engine/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FINPATH_SERVER_ADDR
const EnvPrefix = "FINPATH"

// Settings are engine-wide options read from a config file and the environment
type Settings struct {
	HorizonYears int     `mapstructure:"horizon_years"`
	Seed         int64   `mapstructure:"seed"`
	StateTaxRate float64 `mapstructure:"state_tax_rate"`
	LogLevel     string  `mapstructure:"log_level"`
	HistoryDir   string  `mapstructure:"history_dir"`

	Server     ServerSettings     `mapstructure:"server"`
	Database   DatabaseSettings   `mapstructure:"database"`
	Improved   ImprovedSettings   `mapstructure:"improved"`
	MonteCarlo MonteCarloSettings `mapstructure:"monte_carlo"`
}

type ServerSettings struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseSettings struct {
	DSN string `mapstructure:"dsn"`
}

// ImprovedSettings tunes the improved behaviour path
type ImprovedSettings struct {
	IncomeGrowth     float64 `mapstructure:"income_growth"`
	ExpenseReduction float64 `mapstructure:"expense_reduction"`
	ExtraDebtPayment float64 `mapstructure:"extra_debt_payment"`
}

type MonteCarloSettings struct {
	Trials  int `mapstructure:"trials"`
	Workers int `mapstructure:"workers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("horizon_years", 5)
	v.SetDefault("seed", 0)
	v.SetDefault("state_tax_rate", 0.05)
	v.SetDefault("log_level", "info")
	v.SetDefault("history_dir", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.dsn", "")
	v.SetDefault("improved.income_growth", 0.03)
	v.SetDefault("improved.expense_reduction", 0.10)
	v.SetDefault("improved.extra_debt_payment", 0.10)
	v.SetDefault("monte_carlo.trials", 500)
	v.SetDefault("monte_carlo.workers", 10)
}

// LoadSettings reads path (any format viper understands) over the defaults.
// An empty path uses defaults and environment only.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects settings no calculator would accept
func (s *Settings) Validate() error {
	if s.HorizonYears <= 0 {
		return fmt.Errorf("%w: horizon_years must be positive", domain.ErrInvalidHorizon)
	}
	if s.StateTaxRate < 0 || s.StateTaxRate > 1 {
		return fmt.Errorf("state_tax_rate must be between 0 and 1, got %v", s.StateTaxRate)
	}
	if s.Improved.ExpenseReduction < 0 || s.Improved.ExpenseReduction > 1 {
		return fmt.Errorf("%w: improved.expense_reduction must be between 0 and 1", domain.ErrInvalidScenario)
	}
	if s.Improved.ExtraDebtPayment < 0 {
		return fmt.Errorf("%w: improved.extra_debt_payment cannot be negative", domain.ErrInvalidScenario)
	}
	if s.MonteCarlo.Trials < 0 || s.MonteCarlo.Workers < 0 {
		return fmt.Errorf("monte_carlo trials and workers cannot be negative")
	}
	return nil
}

// HorizonMonths is the projection horizon in months
func (s *Settings) HorizonMonths() int { return dateutil.YearsToMonths(s.HorizonYears) }

// ImprovedScenario builds the improved path from settings
func (s *Settings) ImprovedScenario() domain.Scenario {
	return domain.Scenario{
		Name:             domain.ScenarioImproved,
		IncomeGrowth:     decimal.NewFromFloat(s.Improved.IncomeGrowth),
		ExpenseReduction: decimal.NewFromFloat(s.Improved.ExpenseReduction),
		ExtraDebtPayment: decimal.NewFromFloat(s.Improved.ExtraDebtPayment),
	}
}

// StateRate returns StateTaxRate as a decimal
func (s *Settings) StateRate() decimal.Decimal { return decimal.NewFromFloat(s.StateTaxRate) }
