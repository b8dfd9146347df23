package handlers

import (
	"fmt"
	"net/http"

	"github.com/finpath/projection-engine/internal/calculation"
	"github.com/finpath/projection-engine/internal/domain"
	"github.com/finpath/projection-engine/internal/output"
	"github.com/rs/zerolog"
)

// Handler serves the projection endpoints over one Engine and is safe for
// concurrent requests.
type Handler struct {
	engine   *calculation.Engine
	store    ProfileStore
	defaults calculation.ReportOptions
}

// NewHandler creates a handler. store may be nil, which disables the
// /profiles endpoints.
func NewHandler(engine *calculation.Engine, store ProfileStore, defaults calculation.ReportOptions) *Handler {
	return &Handler{
		engine:   engine,
		store:    store,
		defaults: defaults,
	}
}

// Analyze always answers 200 for a well-formed body; an invalid profile
// yields the analyzer's invalid-profile result.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var profile domain.FinancialProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.engine.Analyzer.Analyze(&profile))
}

func (h *Handler) ComparePaths(w http.ResponseWriter, r *http.Request) {
	var req pathsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	months, err := horizon(req.Months)
	if err != nil {
		writeError(w, r, err)
		return
	}
	improved := calculation.ImprovedScenario()
	if req.Improved != nil {
		improved = *req.Improved
	}

	comparison, err := h.engine.Paths.CompareScenarios(req.Profile, calculation.CurrentScenario(), improved, months)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, comparison)
}

func (h *Handler) CompareInvestments(w http.ResponseWriter, r *http.Request) {
	var req investmentsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	months, err := horizon(req.Months)
	if err != nil {
		writeError(w, r, err)
		return
	}

	comparison, err := h.engine.Investments.CompareRiskProfiles(r.Context(), calculation.RiskComparisonRequest{
		ProfileID:           req.ProfileID,
		MonthlyContribution: req.MonthlyContribution,
		InitialInvestment:   req.InitialInvestment,
		Months:              months,
		Seed:                req.Seed,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, comparison)
}

func (h *Handler) RecommendRiskProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.FinancialProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		writeError(w, r, err)
		return
	}
	name, err := h.engine.Investments.RecommendRiskProfile(&profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, recommendationResponse{
		RiskProfile: name,
		Score:       calculation.RiskScore(&profile),
	})
}

func (h *Handler) RunMonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req monteCarloRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	months, err := horizon(req.Months)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Trials > maxTrials {
		writeError(w, r, fmt.Errorf("%w: trials must not exceed %d", errBadRequest, maxTrials))
		return
	}

	result, err := h.engine.Investments.RunMonteCarlo(r.Context(), calculation.MonteCarloConfig{
		ProfileID:           req.ProfileID,
		MonthlyContribution: req.MonthlyContribution,
		InitialInvestment:   req.InitialInvestment,
		Months:              months,
		Trials:              req.Trials,
		Workers:             req.Workers,
		Seed:                req.Seed,
		RiskProfiles:        req.RiskProfiles,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (h *Handler) TakeHomePay(w http.ResponseWriter, r *http.Request) {
	var req takeHomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	breakdown, err := h.engine.Taxes.TakeHomePay(req.AnnualIncome, req.RetirementContribution, req.OtherPretax)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, breakdown)
}

func (h *Handler) ProjectTaxes(w http.ResponseWriter, r *http.Request) {
	var req taxProjectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	params, err := req.params()
	if err != nil {
		writeError(w, r, err)
		return
	}
	years, err := h.engine.Taxes.ProjectTaxImpact(params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, years)
}

// BuildReport assembles a report for the posted profile. The format query
// parameter selects any registered formatter; json is the default.
func (h *Handler) BuildReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := req.options(h.defaults)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.engine.BuildReport(r.Context(), req.Profile, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeReport(w, r, http.StatusOK, report)
}

// reportFormatter resolves ?format=; a nil formatter means plain JSON
func reportFormatter(r *http.Request) (output.Formatter, error) {
	format := r.URL.Query().Get("format")
	if format == "" || output.NormalizeFormatName(format) == "json" {
		return nil, nil
	}
	f := output.GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
	}
	return f, nil
}

func (h *Handler) writeReport(w http.ResponseWriter, r *http.Request, status int, report *domain.ProjectionReport) {
	f, err := reportFormatter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeFormatted(w, r, status, f, report)
}

func writeFormatted(w http.ResponseWriter, r *http.Request, status int, f output.Formatter, report *domain.ProjectionReport) {
	if f == nil {
		writeJSON(w, r, status, report)
		return
	}
	data, err := f.Format(report)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(f.Extension()))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("format", f.Name()).
			Msg("failed to write report")
	}
}

func contentType(ext string) string {
	switch ext {
	case "csv":
		return "text/csv; charset=utf-8"
	case "json":
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}
