package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/finpath/projection-engine/internal/calculation"
	"github.com/finpath/projection-engine/internal/config"
	"github.com/finpath/projection-engine/internal/domain"
	"github.com/finpath/projection-engine/internal/output"
	"github.com/finpath/projection-engine/internal/server"
	"github.com/finpath/projection-engine/internal/store"
	money "github.com/finpath/projection-engine/pkg/decimal"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func formatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "format", "f", "console",
		fmt.Sprintf("Output format: %s (aliases: %s)",
			strings.Join(output.AvailableFormatterNames(), ", "),
			strings.Join(output.AvailableFormatAliases(), ", ")))
}

func analyzeCmd(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "analyze [profile-file]",
		Short: "Rate financial health and list issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			profile, err := loadProfile(args[0])
			if err != nil {
				return err
			}
			report := partialReport(profile)
			report.Analysis = a.engine.Analyzer.Analyze(profile)
			return render(cmd, report, format)
		},
	}
	formatFlag(cmd, &format)
	return cmd
}

func pathsCmd(opts *globalOptions) *cobra.Command {
	var (
		format string
		months int
	)
	cmd := &cobra.Command{
		Use:   "paths [profile-file]",
		Short: "Compare the current and improved behaviour paths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			profile, err := loadProfile(args[0])
			if err != nil {
				return err
			}
			comparison, err := a.engine.Paths.CompareScenarios(profile, calculation.CurrentScenario(), a.settings.ImprovedScenario(), a.monthsOrSettings(cmd, months))
			if err != nil {
				return err
			}
			report := partialReport(profile)
			report.Paths = comparison
			return render(cmd, report, format)
		},
	}
	formatFlag(cmd, &format)
	cmd.Flags().IntVarP(&months, "months", "m", calculation.DefaultHorizonMonths, "Projection horizon in months")
	return cmd
}

func investCmd(opts *globalOptions) *cobra.Command {
	var (
		format       string
		months       int
		seed         int64
		contribution float64
		initial      float64
	)
	cmd := &cobra.Command{
		Use:   "invest [profile-file]",
		Short: "Recommend a risk profile and simulate every allocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			profile, err := loadProfile(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("contribution") {
				profile.MonthlyInvestmentContribution = decimal.NewFromFloat(contribution)
			}
			if cmd.Flags().Changed("initial") {
				profile.CurrentInvestments = decimal.NewFromFloat(initial)
			}

			recommended, err := a.engine.Investments.RecommendRiskProfile(profile)
			if err != nil {
				return err
			}
			comparison, err := a.engine.Investments.CompareRiskProfiles(cmd.Context(), calculation.RiskComparisonRequest{
				ProfileID:           profile.ID,
				MonthlyContribution: profile.MonthlyInvestmentContribution,
				InitialInvestment:   profile.CurrentInvestments,
				Months:              a.monthsOrSettings(cmd, months),
				Seed:                a.seedOrSettings(cmd, seed),
			})
			if err != nil {
				return err
			}

			report := partialReport(profile)
			report.RecommendedProfile = recommended
			report.Investments = comparison
			return render(cmd, report, format)
		},
	}
	formatFlag(cmd, &format)
	cmd.Flags().IntVarP(&months, "months", "m", calculation.DefaultHorizonMonths, "Simulation horizon in months")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Random seed (0 draws one)")
	cmd.Flags().Float64Var(&contribution, "contribution", 0, "Monthly contribution (overrides the profile)")
	cmd.Flags().Float64Var(&initial, "initial", 0, "Initial investment (overrides the profile)")
	return cmd
}

func monteCarloCmd(opts *globalOptions) *cobra.Command {
	var (
		format   string
		months   int
		seed     int64
		trials   int
		workers  int
		profiles []string
	)
	cmd := &cobra.Command{
		Use:   "montecarlo [profile-file]",
		Short: "Run repeated seeded simulations per risk profile",
		Long:  "Run Monte Carlo simulations of the profile's contribution plan and report final-value percentiles, mean CAGR, median drawdown and probability of loss for each risk profile.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			profile, err := loadProfile(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("trials") {
				trials = a.settings.MonteCarlo.Trials
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.settings.MonteCarlo.Workers
			}
			names := make([]domain.RiskProfileName, 0, len(profiles))
			for _, p := range profiles {
				names = append(names, domain.RiskProfileName(p))
			}

			result, err := a.engine.Investments.RunMonteCarlo(cmd.Context(), calculation.MonteCarloConfig{
				ProfileID:           profile.ID,
				MonthlyContribution: profile.MonthlyInvestmentContribution,
				InitialInvestment:   profile.CurrentInvestments,
				Months:              a.monthsOrSettings(cmd, months),
				Trials:              trials,
				Workers:             workers,
				Seed:                a.seedOrSettings(cmd, seed),
				RiskProfiles:        names,
			})
			if err != nil {
				return err
			}
			report := partialReport(profile)
			report.MonteCarlo = result
			return render(cmd, report, format)
		},
	}
	formatFlag(cmd, &format)
	cmd.Flags().IntVarP(&months, "months", "m", calculation.DefaultHorizonMonths, "Simulation horizon in months")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Base random seed (0 draws one)")
	cmd.Flags().IntVarP(&trials, "trials", "n", 500, "Trials per risk profile")
	cmd.Flags().IntVarP(&workers, "workers", "w", calculation.DefaultMonteCarloWorkers, "Concurrent simulations")
	cmd.Flags().StringSliceVar(&profiles, "profiles", nil, "Risk profiles to simulate (default all)")
	return cmd
}

func taxCmd(opts *globalOptions) *cobra.Command {
	var (
		format         string
		retirementRate float64
		otherPretax    float64
		years          int
	)
	cmd := &cobra.Command{
		Use:   "tax [profile-file]",
		Short: "Estimate take-home pay and project taxes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			profile, err := loadProfile(args[0])
			if err != nil {
				return err
			}
			if err := profile.Validate(); err != nil {
				return err
			}

			annual := money.NewMoneyFromDecimal(profile.Income()).Annual().Decimal
			rate := decimal.NewFromFloat(retirementRate)
			takeHome, err := a.engine.Taxes.TakeHomePay(annual, annual.Mul(rate), decimal.NewFromFloat(otherPretax))
			if err != nil {
				return err
			}

			params := calculation.DefaultTaxProjectionParams(annual)
			params.Years = years
			params.RetirementContribution = rate
			params.InitialInvestment = profile.CurrentInvestments
			projection, err := a.engine.Taxes.ProjectTaxImpact(params)
			if err != nil {
				return err
			}

			report := partialReport(profile)
			report.TakeHome = takeHome
			report.TaxProjection = projection
			return render(cmd, report, format)
		},
	}
	formatFlag(cmd, &format)
	cmd.Flags().Float64VarP(&retirementRate, "retirement-rate", "r", 0.05, "Share of gross income sent to a traditional retirement account")
	cmd.Flags().Float64Var(&otherPretax, "other-pretax", 0, "Other annual pre-tax deductions")
	cmd.Flags().IntVarP(&years, "years", "y", 5, "Years to project")
	return cmd
}

func reportCmd(opts *globalOptions) *cobra.Command {
	var (
		format    string
		outputDir string
		months    int
		seed      int64
		trials    int
		rate      float64
	)
	cmd := &cobra.Command{
		Use:   "report [profile-file]",
		Short: "Build a full projection report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			profile, err := loadProfile(args[0])
			if err != nil {
				return err
			}

			ro := a.reportOptions()
			ro.Months = a.monthsOrSettings(cmd, months)
			ro.Seed = a.seedOrSettings(cmd, seed)
			ro.MonteCarloTrials = trials
			if cmd.Flags().Changed("retirement-rate") {
				r := decimal.NewFromFloat(rate)
				ro.RetirementRate = &r
			}
			report, err := a.engine.BuildReport(cmd.Context(), profile, ro)
			if err != nil {
				return err
			}

			if outputDir == "" {
				return render(cmd, report, format)
			}
			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
			}
			if err := ensureDir(outputDir); err != nil {
				return err
			}
			filename, err := output.WriteFormatted(f, report, outputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
			return nil
		},
	}
	formatFlag(cmd, &format)
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Write to a timestamped file in this directory instead of stdout")
	cmd.Flags().IntVarP(&months, "months", "m", calculation.DefaultHorizonMonths, "Projection horizon in months")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Random seed (0 draws one)")
	cmd.Flags().IntVarP(&trials, "trials", "n", 0, "Monte Carlo trials per risk profile (0 skips the section)")
	cmd.Flags().Float64VarP(&rate, "retirement-rate", "r", 0.05, "Share of gross income sent to a traditional retirement account")
	return cmd
}

func serveCmd(opts *globalOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.settings.Server.Addr
			}

			deps := server.Dependencies{
				Engine: a.engine,
				Report: a.reportOptions(),
			}
			if dsn := a.settings.Database.DSN; dsn != "" {
				repo, err := store.Open(cmd.Context(), dsn)
				if err != nil {
					return err
				}
				defer repo.Close()
				if err := repo.Migrate(cmd.Context()); err != nil {
					return err
				}
				deps.Store = repo
				a.logger.Info().Msg("profile storage enabled")
			}

			api := server.NewWebAPI(a.logger, server.Config{
				Addr:            addr,
				ShutdownTimeout: a.settings.Server.ShutdownTimeout,
				Dependencies:    deps,
			})
			return api.Start()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [profile-file]",
		Short: "Validate a profile file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadProfile(args[0]); err != nil {
				if errors.Is(err, domain.ErrInvalidProfile) {
					return fmt.Errorf("profile %s is invalid: %w", args[0], err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile file %s is valid\n", args[0])
			return nil
		},
	}
}

func sampleCmd() *cobra.Command {
	var (
		seed      int64
		count     int
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate synthetic profiles for testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			profiles, err := config.SampleProfiles(seed, count)
			if err != nil {
				return err
			}
			parser := config.NewProfileParser()

			if outputDir != "" {
				if err := ensureDir(outputDir); err != nil {
					return err
				}
				for _, p := range profiles {
					path := filepath.Join(outputDir, "profile_"+p.ID+".yaml")
					if err := parser.SaveToFile(p, path); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d profiles to %s\n", len(profiles), outputDir)
				return nil
			}

			out := cmd.OutOrStdout()
			for i, p := range profiles {
				data, err := parser.Encode(p)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out, "---")
				}
				if _, err := out.Write(data); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Random seed (0 draws one)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of profiles")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Write one YAML file per profile into this directory")
	return cmd
}
