package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"leadscout/internal/domain/trend"
)

// TrendReader reads stored trend snapshots.
type TrendReader interface {
	GetTrends(ctx context.Context, tenantID int64, day time.Time) ([]trend.Trend, error)
}

// TrendHandler handles trend-related HTTP requests
type TrendHandler struct {
	reader TrendReader
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(reader TrendReader) *TrendHandler {
	return &TrendHandler{reader: reader}
}

// GetTrends returns the tenant's ranked trend snapshot for a day. The
// date query parameter defaults to today; an empty list means analysis
// ran and found no trends.
func (h *TrendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.ParseInt(chi.URLParam(r, "tenantID"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tenant ID")
		return
	}

	day := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		day, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
	}

	trends, err := h.reader.GetTrends(r.Context(), tenantID, day)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get trends")
		return
	}
	if trends == nil {
		trends = []trend.Trend{}
	}

	respondWithJSON(w, http.StatusOK, trends)
}
