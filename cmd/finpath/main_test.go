package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileFile = "../../internal/config/testdata/profile.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeReport(t *testing.T, out string) domain.ProjectionReport {
	t.Helper()
	var report domain.ProjectionReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	return report
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "finpath", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{"analyze", "paths", "invest", "montecarlo", "tax", "report", "serve", "validate", "sample", "version"}

	registered := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "expected command %q to be registered", name)
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	_, err := execute(t, "invalid-command")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "finpath dev")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", profileFile)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("monthly_income: 100\n"), 0o644))
	_, err = execute(t, "validate", bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)

	_, err = execute(t, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := execute(t, "analyze", profileFile)
	require.NoError(t, err)
	assert.Contains(t, out, "FINANCIAL HEALTH")
	assert.Contains(t, out, string(domain.HealthGood))
	assert.NotContains(t, out, "PATH COMPARISON")
}

func TestPathsCommand_UsesSettingsHorizon(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "finpath.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("horizon_years: 1\nlog_level: warn\n"), 0o644))

	out, err := execute(t, "paths", profileFile, "--config", settings, "--format", "json")
	require.NoError(t, err)
	report := decodeReport(t, out)
	require.NotNil(t, report.Paths)
	assert.Len(t, report.Paths.Current.Months, 12)

	out, err = execute(t, "paths", profileFile, "--config", settings, "--format", "json", "--months", "6")
	require.NoError(t, err)
	assert.Len(t, decodeReport(t, out).Paths.Improved.Months, 6)
}

func TestInvestCommand_SeedIsReproducible(t *testing.T) {
	args := []string{"invest", profileFile, "--format", "json", "--seed", "7", "--months", "24"}
	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)

	a, b := decodeReport(t, first), decodeReport(t, second)
	assert.Equal(t, domain.Moderate, a.RecommendedProfile)
	require.NotNil(t, a.Investments)
	require.Len(t, a.Investments.Summaries, len(b.Investments.Summaries))
	for i := range a.Investments.Summaries {
		assert.True(t, a.Investments.Summaries[i].FinalValue.Equal(b.Investments.Summaries[i].FinalValue))
	}
	// 2500 initial + 24 * 200
	assert.True(t, a.Investments.Summaries[0].TotalInvested.Equal(decimal.NewFromInt(7300)))
}

func TestMonteCarloCommand(t *testing.T) {
	out, err := execute(t, "montecarlo", profileFile, "--format", "montecarlo-csv",
		"--trials", "20", "--months", "12", "--seed", "3", "--profiles", "conservative,aggressive")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "conservative,20,"))
	assert.True(t, strings.HasPrefix(lines[2], "aggressive,20,"))

	_, err = execute(t, "montecarlo", profileFile, "--trials", "5", "--profiles", "reckless")
	assert.ErrorIs(t, err, domain.ErrUnknownRiskProfile)
}

func TestTaxCommand(t *testing.T) {
	out, err := execute(t, "tax", profileFile, "--format", "json", "--years", "3")
	require.NoError(t, err)
	report := decodeReport(t, out)
	require.NotNil(t, report.TakeHome)
	assert.True(t, report.TakeHome.AnnualTakeHome.Equal(decimal.NewFromInt(44602)), report.TakeHome.AnnualTakeHome.String())
	assert.Len(t, report.TaxProjection, 3)
}

func TestReportCommand_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	out, err := execute(t, "report", profileFile, "--format", "csv", "--output", dir, "--months", "6", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "projection_csv_"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".csv"))
}

func TestReportCommand_Stdout(t *testing.T) {
	out, err := execute(t, "report", profileFile, "--months", "6", "--seed", "1", "--trials", "10")
	require.NoError(t, err)
	for _, section := range []string{"FINANCIAL HEALTH", "PATH COMPARISON", "INVESTMENT PROJECTION", "MONTE CARLO", "TAXES AND TAKE-HOME PAY"} {
		assert.Contains(t, out, section)
	}
}

func TestReportCommand_ZeroRetirementRate(t *testing.T) {
	out, err := execute(t, "report", profileFile, "--format", "json", "--months", "6", "--seed", "1", "--retirement-rate", "0")
	require.NoError(t, err)
	report := decodeReport(t, out)
	require.NotNil(t, report.TakeHome)
	assert.True(t, report.TakeHome.RetirementContribution.IsZero())
	for _, row := range report.TaxProjection {
		assert.True(t, row.RetirementContribution.IsZero())
	}
}

func TestReportCommand_UnsupportedFormat(t *testing.T) {
	_, err := execute(t, "report", profileFile, "--format", "pdf", "--months", "6")
	assert.Error(t, err)
}

func TestSampleCommand(t *testing.T) {
	first, err := execute(t, "sample", "--seed", "11", "--count", "2")
	require.NoError(t, err)
	second, err := execute(t, "sample", "--seed", "11", "--count", "2")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "\n---\n")

	dir := t.TempDir()
	out, err := execute(t, "sample", "--seed", "11", "--count", "3", "--output", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 profiles")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		_, err := execute(t, "validate", filepath.Join(dir, e.Name()))
		assert.NoError(t, err, e.Name())
	}

	_, err = execute(t, "sample", "--count", "0")
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "analyze", profileFile, "--log-level", "chatty")
	assert.Error(t, err)
}
