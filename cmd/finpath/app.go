package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/finpath/projection-engine/internal/calculation"
	"github.com/finpath/projection-engine/internal/config"
	"github.com/finpath/projection-engine/internal/domain"
	"github.com/finpath/projection-engine/internal/output"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultSettingsFile = "finpath.yaml"

type globalOptions struct {
	configPath string
	logLevel   string
}

// app holds what every command needs once settings are resolved
type app struct {
	settings *config.Settings
	logger   zerolog.Logger
	engine   *calculation.Engine
}

func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	path := opts.configPath
	if path == "" && fileExists(defaultSettingsFile) {
		path = defaultSettingsFile
	}
	settings, err := config.LoadSettings(path)
	if err != nil {
		return nil, err
	}

	level := settings.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger, err := newLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug().Str("path", path).Msg("settings loaded")
	}

	engine, err := newEngine(settings, logger)
	if err != nil {
		return nil, err
	}
	return &app{settings: settings, logger: logger, engine: engine}, nil
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}).
		Level(lvl).
		With().Timestamp().
		Logger(), nil
}

// newEngine applies settings to a fresh engine: state tax rate and, when a
// history directory is configured, catalog assumptions calibrated from it.
func newEngine(settings *config.Settings, logger zerolog.Logger) (*calculation.Engine, error) {
	engine := calculation.NewEngine(time.Time{})

	taxes, err := engine.Taxes.WithStateTaxRate(settings.StateRate())
	if err != nil {
		return nil, err
	}
	engine.Taxes = taxes

	if settings.HistoryDir != "" {
		catalog := calculation.DefaultCatalog()
		history, err := calculation.LoadAssetHistory(settings.HistoryDir, catalog)
		if err != nil {
			return nil, err
		}
		engine.Investments = calculation.NewInvestmentSimulator(calculation.CalibrateCatalog(catalog, history), engine.Paths.Start())
		logger.Info().
			Str("dir", settings.HistoryDir).
			Int("assets", len(history)).
			Msg("calibrated asset assumptions from history")
	}

	engine.SetLogger(calculation.NewZerologLogger(logger))
	return engine, nil
}

func (a *app) reportOptions() calculation.ReportOptions {
	improved := a.settings.ImprovedScenario()
	return calculation.ReportOptions{
		Months:            a.settings.HorizonMonths(),
		Seed:              a.settings.Seed,
		Improved:          &improved,
		MonteCarloWorkers: a.settings.MonteCarlo.Workers,
	}
}

func loadProfile(path string) (*domain.FinancialProfile, error) {
	return config.NewProfileParser().LoadFromFile(path)
}

// partialReport starts a report holding only the profile; commands fill the
// sections they compute and the formatters skip the rest.
func partialReport(p *domain.FinancialProfile) *domain.ProjectionReport {
	return &domain.ProjectionReport{
		ProfileID:   p.ID,
		GeneratedAt: time.Now().UTC(),
		Profile:     p,
	}
}

func render(cmd *cobra.Command, report *domain.ProjectionReport, format string) error {
	return output.WriteReport(cmd.OutOrStdout(), report, format)
}

// seedOrSettings prefers an explicit --seed
func (a *app) seedOrSettings(cmd *cobra.Command, seed int64) int64 {
	if cmd.Flags().Changed("seed") {
		return seed
	}
	return a.settings.Seed
}

// monthsOrSettings prefers an explicit --months
func (a *app) monthsOrSettings(cmd *cobra.Command, months int) int {
	if cmd.Flags().Changed("months") {
		return months
	}
	return a.settings.HorizonMonths()
}

func ensureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}
