package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/finpath/projection-engine/internal/domain"
)

// ConsoleFormatter renders a styled, human-readable report for terminals.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(r *domain.ProjectionReport) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("nil report")
	}
	var buf bytes.Buffer
	fmt.Fprintln(&buf, titleStyle.Render("FINANCIAL PROJECTION REPORT"))
	who := r.ProfileID
	if r.Profile != nil && r.Profile.Name != "" {
		who = r.Profile.Name
	}
	if who != "" {
		fmt.Fprintf(&buf, "Profile: %s\n", who)
	}
	fmt.Fprintln(&buf, mutedStyle.Render("Generated "+r.GeneratedAt.Format("2006-01-02 15:04 MST")))

	writeAnalysis(&buf, r.Analysis)
	writePaths(&buf, r.Paths)
	writeInvestments(&buf, r.RecommendedProfile, r.Investments)
	writeMonteCarlo(&buf, r.MonteCarlo)
	writeTaxes(&buf, r.TakeHome, r.TaxProjection)
	return buf.Bytes(), nil
}

func section(buf *bytes.Buffer, title string) {
	fmt.Fprintln(buf, sectionStyle.Render(title))
}

func writeAnalysis(buf *bytes.Buffer, a *domain.AnalysisResult) {
	if a == nil {
		return
	}
	section(buf, "FINANCIAL HEALTH")
	fmt.Fprintf(buf, "Overall: %s\n", healthStyle(a.FinancialHealth).Render(string(a.FinancialHealth)))
	if len(a.Issues) == 0 {
		fmt.Fprintln(buf, "No issues found.")
		return
	}
	for _, issue := range a.Issues {
		tag := severityStyle(issue.Severity).Render("[" + strings.ToUpper(string(issue.Severity)) + "]")
		fmt.Fprintf(buf, "%s %s: %s\n", tag, issue.Issue, issue.Details)
		fmt.Fprintf(buf, "    -> %s\n", issue.Recommendation)
	}
	if len(a.ActionPlan) > 0 {
		fmt.Fprintln(buf, headerStyle.Render("Action plan"))
		for i, step := range a.ActionPlan {
			fmt.Fprintf(buf, "  %d. %s\n", i+1, step)
		}
	}
}

func writePaths(buf *bytes.Buffer, p *domain.PathComparison) {
	if p == nil {
		return
	}
	s := p.Summary
	section(buf, fmt.Sprintf("PATH COMPARISON (%d months, through %s)", len(p.Current.Months), FormatMonth(s.EndDate)))
	fmt.Fprintln(buf, headerStyle.Render(fmt.Sprintf("%-14s %18s %18s %18s", "", "Current", "Improved", "Difference")))
	row := func(label string, cur, imp, diff string) {
		fmt.Fprintf(buf, "%-14s %18s %18s %18s\n", label, cur, imp, diff)
	}
	row("Savings", FormatCurrency(s.Current.FinalSavings), FormatCurrency(s.Improved.FinalSavings), FormatCurrency(s.Difference.SavingsDiff))
	row("Debt", FormatCurrency(s.Current.FinalDebt), FormatCurrency(s.Improved.FinalDebt), FormatCurrency(s.Difference.DebtDiff))
	row("Net worth", FormatCurrency(s.Current.FinalNetWorth), FormatCurrency(s.Improved.FinalNetWorth), FormatCurrency(s.Difference.NetWorthDiff))
	row("Debt-free", FormatOptionalMonth(s.Current.DebtFreeDate), FormatOptionalMonth(s.Improved.DebtFreeDate), "")
}

func writeInvestments(buf *bytes.Buffer, recommended domain.RiskProfileName, c *domain.RiskComparison) {
	if c == nil && recommended == "" {
		return
	}
	section(buf, "INVESTMENT PROJECTION")
	if recommended != "" {
		fmt.Fprintf(buf, "Recommended risk profile: %s\n", recommended)
	}
	if c == nil {
		return
	}
	fmt.Fprintln(buf, headerStyle.Render(fmt.Sprintf("%-18s %16s %16s %10s %10s %12s", "Profile", "Invested", "Final value", "Growth", "CAGR", "Drawdown")))
	for _, s := range c.Summaries {
		marker := " "
		if s.RiskProfile == recommended {
			marker = "*"
		}
		fmt.Fprintf(buf, "%-18s %16s %16s %10s %10s %12s\n",
			marker+string(s.RiskProfile),
			FormatCurrency(s.TotalInvested),
			FormatCurrency(s.FinalValue),
			FormatPercentage(s.GrowthPercentage),
			FormatFraction(s.CAGR),
			FormatFraction(s.MaxDrawdown),
		)
	}
}

func writeMonteCarlo(buf *bytes.Buffer, mc *domain.MonteCarloResult) {
	if mc == nil {
		return
	}
	trials := 0
	if len(mc.Profiles) > 0 {
		trials = mc.Profiles[0].Trials
	}
	section(buf, fmt.Sprintf("MONTE CARLO (%d trials, seed %d)", trials, mc.Seed))
	fmt.Fprintln(buf, headerStyle.Render(fmt.Sprintf("%-18s %16s %16s %16s %10s", "Profile", "P10", "Median", "P90", "P(loss)")))
	for _, p := range mc.Profiles {
		fmt.Fprintf(buf, "%-18s %16s %16s %16s %10s\n",
			p.RiskProfile,
			FormatCurrency(p.FinalValues.P10),
			FormatCurrency(p.FinalValues.P50),
			FormatCurrency(p.FinalValues.P90),
			FormatFraction(p.ProbabilityOfLoss),
		)
	}
}

func writeTaxes(buf *bytes.Buffer, t *domain.TaxBreakdown, projection []domain.TaxProjectionYear) {
	if t != nil {
		section(buf, "TAXES AND TAKE-HOME PAY")
		line := func(label, value string) { fmt.Fprintf(buf, "%-26s %16s\n", label, value) }
		line("Gross income", FormatCurrency(t.AnnualGrossIncome))
		line("Retirement contribution", FormatCurrency(t.RetirementContribution))
		line("Federal income tax", FormatCurrency(t.FederalIncomeTax))
		line("Social Security", FormatCurrency(t.FICA.SocialSecurity))
		line("Medicare", FormatCurrency(t.FICA.Medicare))
		line("State income tax", FormatCurrency(t.StateIncomeTax))
		line("Total tax", FormatCurrency(t.TotalTax))
		line("Effective rate", FormatFraction(t.EffectiveTaxRate))
		line("Take-home (annual)", FormatCurrency(t.AnnualTakeHome))
		line("Take-home (monthly)", FormatCurrency(t.MonthlyTakeHome))
	}
	if len(projection) == 0 {
		return
	}
	fmt.Fprintln(buf, headerStyle.Render(fmt.Sprintf("%-5s %16s %16s %16s %16s", "Year", "Income", "Take-home", "Invest. tax", "Net worth")))
	for _, y := range projection {
		fmt.Fprintf(buf, "%-5d %16s %16s %16s %16s\n", y.Year,
			FormatCurrency(y.AnnualIncome),
			FormatCurrency(y.TakeHomePay),
			FormatCurrency(y.TaxesOnInvestments),
			FormatCurrency(y.TotalNetWorth),
		)
	}
}
