package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, 5, s.HorizonYears)
	assert.Equal(t, 60, s.HorizonMonths())
	assert.Equal(t, 0.05, s.StateTaxRate)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, 10*time.Second, s.Server.ShutdownTimeout)
	assert.Equal(t, 500, s.MonteCarlo.Trials)
	assert.Equal(t, 10, s.MonteCarlo.Workers)

	improved := s.ImprovedScenario()
	assert.Equal(t, domain.ScenarioImproved, improved.Name)
	assert.True(t, improved.IncomeGrowth.Equal(decimal.NewFromFloat(0.03)))
	assert.True(t, improved.ExpenseReduction.Equal(decimal.NewFromFloat(0.10)))
}

func TestLoadSettings_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finpath.yaml")
	content := "horizon_years: 10\nseed: 42\nstate_tax_rate: 0.0307\n" +
		"server:\n  addr: \"127.0.0.1:9000\"\n  shutdown_timeout: 3s\n" +
		"improved:\n  extra_debt_payment: 0.2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 120, s.HorizonMonths())
	assert.Equal(t, int64(42), s.Seed)
	assert.True(t, s.StateRate().Equal(decimal.NewFromFloat(0.0307)))
	assert.Equal(t, "127.0.0.1:9000", s.Server.Addr)
	assert.Equal(t, 3*time.Second, s.Server.ShutdownTimeout)
	assert.Equal(t, 0.2, s.Improved.ExtraDebtPayment)
	assert.Equal(t, 0.03, s.Improved.IncomeGrowth, "unset keys keep defaults")
}

func TestLoadSettings_Env(t *testing.T) {
	t.Setenv("FINPATH_SEED", "7")
	t.Setenv("FINPATH_SERVER_ADDR", ":9999")
	t.Setenv("FINPATH_MONTE_CARLO_TRIALS", "25")

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.Seed)
	assert.Equal(t, ":9999", s.Server.Addr)
	assert.Equal(t, 25, s.MonteCarlo.Trials)
}

func TestLoadSettings_Invalid(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	t.Setenv("FINPATH_HORIZON_YEARS", "0")
	_, err = LoadSettings("")
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
}

func TestSettings_Validate(t *testing.T) {
	base := func() Settings {
		return Settings{HorizonYears: 1, StateTaxRate: 0.05, Improved: ImprovedSettings{ExpenseReduction: 0.1}}
	}
	require.NoError(t, (&Settings{HorizonYears: 1}).Validate())

	s := base()
	s.StateTaxRate = 1.5
	assert.Error(t, s.Validate())

	s = base()
	s.Improved.ExpenseReduction = -0.1
	assert.ErrorIs(t, s.Validate(), domain.ErrInvalidScenario)

	s = base()
	s.MonteCarlo.Workers = -1
	assert.Error(t, s.Validate())
}
