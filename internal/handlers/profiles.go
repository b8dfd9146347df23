package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

var errStoreDisabled = errors.New("profile storage is not configured")

// ProfileStore persists profiles and their most recent report
type ProfileStore interface {
	SaveProfile(ctx context.Context, p *domain.FinancialProfile) (string, error)
	GetProfile(ctx context.Context, id string) (*domain.FinancialProfile, error)
	DeleteProfile(ctx context.Context, id string) error
	SaveReport(ctx context.Context, report *domain.ProjectionReport) (string, error)
	LatestReport(ctx context.Context, profileID string) (*domain.ProjectionReport, error)
}

type savedResponse struct {
	ID string `json:"id"`
}

func (h *Handler) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if h.store == nil {
		writeError(w, r, errStoreDisabled)
		return false
	}
	return true
}

func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}
	var profile domain.FinancialProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.store.SaveProfile(r.Context(), &profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().
		Str("profile_id", id).
		Msg("profile saved")
	writeJSON(w, r, http.StatusCreated, savedResponse{ID: id})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}
	profile, err := h.store.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}
	if err := h.store.DeleteProfile(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BuildProfileReport builds a report for a stored profile and saves it as
// the profile's latest. The body is optional.
func (h *Handler) BuildProfileReport(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}
	id := chi.URLParam(r, "id")

	var req reportRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	opts, err := req.options(h.defaults)
	if err != nil {
		writeError(w, r, err)
		return
	}
	formatter, err := reportFormatter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	profile, err := h.store.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.engine.BuildReport(r.Context(), profile, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.store.SaveReport(r.Context(), report); err != nil {
		writeError(w, r, err)
		return
	}
	writeFormatted(w, r, http.StatusCreated, formatter, report)
}

func (h *Handler) LatestReport(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}
	report, err := h.store.LatestReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeReport(w, r, http.StatusOK, report)
}
