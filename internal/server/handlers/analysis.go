package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"leadscout/internal/domain/chat"
	"leadscout/internal/domain/trend"
)

// AnalysisRunner runs the trend pipeline for one tenant.
type AnalysisRunner interface {
	RunAnalysis(ctx context.Context, tenantID int64, day time.Time, source chat.MessageSource, groups []string) (trend.AnalysisSummary, error)
}

// AnalysisHandler handles analysis run requests.
type AnalysisHandler struct {
	runner        AnalysisRunner
	chatSource    chat.MessageSource
	mentionSource chat.MessageSource
	logger        zerolog.Logger
}

// NewAnalysisHandler creates an analysis handler. Either source may be
// nil when that collaborator is not configured.
func NewAnalysisHandler(runner AnalysisRunner, chatSource, mentionSource chat.MessageSource, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		runner:        runner,
		chatSource:    chatSource,
		mentionSource: mentionSource,
		logger:        logger,
	}
}

type runAnalysisRequest struct {
	Groups []string `json:"groups"`
	Source string   `json:"source"`
	Date   string   `json:"date"`
}

// Run triggers a full pipeline run for the tenant in the URL.
func (h *AnalysisHandler) Run(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.ParseInt(chi.URLParam(r, "tenantID"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tenant ID")
		return
	}

	var req runAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Groups) == 0 {
		respondWithError(w, http.StatusBadRequest, "At least one group is required")
		return
	}

	day := time.Now()
	if req.Date != "" {
		day, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
	}

	source := h.chatSource
	if req.Source == "twitter" {
		if h.mentionSource == nil {
			respondWithError(w, http.StatusServiceUnavailable, "Requested message source is not configured")
			return
		}
		source = h.mentionSource
	}

	summary, err := h.runner.RunAnalysis(r.Context(), tenantID, day, source, req.Groups)
	if err != nil {
		if errors.Is(err, trend.ErrNoSource) {
			respondWithError(w, http.StatusServiceUnavailable, "Requested message source is not configured")
			return
		}
		h.logger.Error().Err(err).Int64("tenant_id", tenantID).Msg("analysis run failed")
		respondWithError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}
