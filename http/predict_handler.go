package http

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"startupml/db"
	"startupml/ml"
)

type predictRequest struct {
	Industry      string   `json:"industry"`
	City          string   `json:"city"`
	FundingAmount *float64 `json:"funding_amount"`
	FundingRounds *int     `json:"funding_rounds"`
	Email         string   `json:"email"`
}

// handlePredict orchestrates a prediction: validate, invoke the model, derive
// label and score, gather recommendations and similar startups, persist the
// history entry and publish the event to the dashboard feed.
func handlePredict(w http.ResponseWriter, r *http.Request) {
	if modelProvider == nil || advisorEngine == nil {
		respondError(w, http.StatusServiceUnavailable, "prediction service not initialized")
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Industry == "" || req.City == "" || req.FundingAmount == nil || req.FundingRounds == nil {
		respondError(w, http.StatusBadRequest, "industry, city, funding_amount and funding_rounds are required")
		return
	}
	amount := *req.FundingAmount
	rounds := *req.FundingRounds

	prob, err := modelProvider.PredictSuccessProbability(ml.Input{
		Industry:      req.Industry,
		City:          req.City,
		FundingAmount: amount,
	})
	if err != nil {
		if isValidationErr(err) {
			respondError(w, http.StatusBadRequest, err.Error())
		} else {
			respondError(w, http.StatusInternalServerError, "model invocation failed")
		}
		return
	}

	label := ml.Label(prob)
	score := ml.Score(prob)
	recommendations := advisorEngine.Recommend(req.Industry, req.City, amount, rounds)
	similar := advisorEngine.FindSimilar(req.Industry, req.City, amount)

	if req.Email != "" && historyStore != nil {
		entry := db.PredictionEntry{
			Email:         req.Email,
			Industry:      req.Industry,
			City:          req.City,
			FundingAmount: amount,
			FundingRounds: rounds,
			Probability:   prob,
			Prediction:    label,
			Timestamp:     time.Now().UTC(),
		}
		if err := historyStore.SavePrediction(entry); err != nil {
			zap.L().Error("failed to save prediction", zap.String("email", req.Email), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to save prediction")
			return
		}
	}

	if wsHub != nil {
		wsHub.Broadcast(PredictionEvent{
			Type:         "prediction",
			Timestamp:    time.Now().UTC(),
			Industry:     req.Industry,
			City:         req.City,
			Prediction:   label,
			SuccessScore: score,
		})
	}

	respondJSON(w, map[string]interface{}{
		"prediction":          label,
		"probability_success": prob,
		"success_score":       score,
		"recommendations":     recommendations,
		"similar_startups":    similar,
	})
}
