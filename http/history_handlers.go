package http

import (
	"math"
	"net/http"

	"startupml/db"
)

const historyTimeFormat = "2006-01-02 15:04:05"

func historyEntryJSON(e db.PredictionEntry) map[string]interface{} {
	return map[string]interface{}{
		"id":             e.ID,
		"email":          e.Email,
		"industry":       e.Industry,
		"city":           e.City,
		"funding_amount": e.FundingAmount,
		"funding_rounds": e.FundingRounds,
		"probability":    e.Probability,
		"prediction":     e.Prediction,
		"timestamp":      e.Timestamp.Format(historyTimeFormat),
	}
}

func handleHistory(w http.ResponseWriter, r *http.Request) {
	if historyStore == nil {
		respondError(w, http.StatusServiceUnavailable, "history store not initialized")
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	entries, err := historyStore.QueryHistory(email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to query history")
		return
	}

	// No history is an empty list, not an error.
	out := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryJSON(e))
	}
	respondJSON(w, out)
}

func handleProfileSummary(w http.ResponseWriter, r *http.Request) {
	if historyStore == nil {
		respondError(w, http.StatusServiceUnavailable, "history store not initialized")
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	entries, err := historyStore.QueryHistory(email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to query history")
		return
	}

	successCount := 0
	for _, e := range entries {
		if e.Prediction == 1 {
			successCount++
		}
	}

	last := entries
	if len(last) > 10 {
		last = last[:10]
	}
	lastPredictions := make([]map[string]interface{}, 0, len(last))
	for _, e := range last {
		lastPredictions = append(lastPredictions, historyEntryJSON(e))
	}

	// Trend: the most recent 12 predictions in ascending time order.
	trendEntries := entries
	if len(trendEntries) > 12 {
		trendEntries = trendEntries[:12]
	}
	timestamps := make([]string, 0, len(trendEntries))
	scores := make([]float64, 0, len(trendEntries))
	for i := len(trendEntries) - 1; i >= 0; i-- {
		e := trendEntries[i]
		timestamps = append(timestamps, e.Timestamp.Format("2006-01-02"))
		scores = append(scores, math.Round(e.Probability*1000)/10)
	}

	respondJSON(w, map[string]interface{}{
		"total":            len(entries),
		"success_count":    successCount,
		"fail_count":       len(entries) - successCount,
		"last_predictions": lastPredictions,
		"trend": map[string]interface{}{
			"timestamps": timestamps,
			"scores":     scores,
		},
	})
}
