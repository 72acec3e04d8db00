package handlers

import (
	"net/http"

	"gifmill/internal/converter"
	"gifmill/internal/journal"
	"gifmill/internal/logging"
)

// recentFailureLimit caps the failure list in the stats response.
const recentFailureLimit = 10

// StatsResponse combines live converter state with journal history.
type StatsResponse struct {
	Converter      converter.HealthStatus     `json:"converter"`
	Journal        *journal.Stats             `json:"journal,omitempty"`
	RecentFailures []journal.ConversionRecord `json:"recentFailures,omitempty"`
}

// GetStats returns converter status, journal aggregates, and the most
// recent failed conversions.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	response := StatsResponse{
		Converter: h.conv.GetHealthStatus(),
	}

	if h.stats != nil {
		stats, err := h.stats.Stats(r.Context())
		if err != nil {
			logging.Error("Failed to read journal stats: %v", err)
			writeJSONError(w, "failed to read journal stats", http.StatusInternalServerError)
			return
		}
		response.Journal = stats

		failures, err := h.stats.RecentFailures(r.Context(), recentFailureLimit)
		if err != nil {
			// Aggregates are still useful without the failure list
			logging.Warn("Failed to read recent failures: %v", err)
		} else {
			response.RecentFailures = failures
		}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}
