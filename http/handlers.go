package http

import (
	"errors"
	"net/http"

	"startupml/advisor"
	"startupml/analytics"
	"startupml/auth"
	"startupml/dataset"
	"startupml/db"
	"startupml/ml"
)

// HistoryStore is the slice of persistence the handlers need for prediction
// history.
type HistoryStore interface {
	SavePrediction(entry db.PredictionEntry) error
	QueryHistory(email string) ([]db.PredictionEntry, error)
}

// UserStore is the slice of persistence the auth handlers need.
type UserStore interface {
	CreateUser(name, email, passwordHash string) error
	FindUserByEmail(email string) (*db.User, error)
}

// Collaborators are injected from main at startup.
var (
	dataStore        *dataset.Store
	modelProvider    ml.Model
	advisorEngine    *advisor.Engine
	analyticsService *analytics.Service
	historyStore     HistoryStore
	userStore        UserStore
	tokens           auth.Tokens
	wsHub            *Hub
)

func SetDataset(store *dataset.Store)         { dataStore = store }
func SetModel(model ml.Model)                 { modelProvider = model }
func SetAdvisor(engine *advisor.Engine)       { advisorEngine = engine }
func SetAnalytics(service *analytics.Service) { analyticsService = service }
func SetHistoryStore(store HistoryStore)      { historyStore = store }
func SetUserStore(store UserStore)            { userStore = store }
func SetTokens(t auth.Tokens)                 { tokens = t }
func setHub(h *Hub)                           { wsHub = h }

// RegisterHandlers registers the prediction and analytics routes.
func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/categories", handleCategories)
	mux.HandleFunc("POST /api/predict", handlePredict)
	mux.HandleFunc("GET /api/dashboard", handleDashboard)
	mux.HandleFunc("GET /api/funding_distribution", handleFundingDistribution)
	mux.HandleFunc("GET /api/top_investors", handleTopInvestors)
	mux.HandleFunc("GET /api/history", handleHistory)
	mux.HandleFunc("GET /api/factors", handleFactors)
	mux.HandleFunc("GET /api/profile_summary", handleProfileSummary)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func handleCategories(w http.ResponseWriter, r *http.Request) {
	if dataStore == nil {
		respondError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}

	respondJSON(w, map[string]interface{}{
		"industries": dataStore.DistinctIndustries(),
		"cities":     dataStore.DistinctCities(),
	})
}

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if analyticsService == nil {
		respondError(w, http.StatusServiceUnavailable, "analytics not initialized")
		return
	}

	industryCounts := make([]map[string]interface{}, 0, 10)
	for _, g := range analyticsService.TopIndustryCounts() {
		industryCounts = append(industryCounts, map[string]interface{}{"industry": g.Value, "count": g.Count})
	}
	cityCounts := make([]map[string]interface{}, 0, 10)
	for _, g := range analyticsService.TopCityCounts() {
		cityCounts = append(cityCounts, map[string]interface{}{"city": g.Value, "count": g.Count})
	}
	industrySuccess := make([]map[string]interface{}, 0, 10)
	for _, g := range analyticsService.TopIndustrySuccess() {
		industrySuccess = append(industrySuccess, map[string]interface{}{"industry": g.Value, "success_rate": g.Rate})
	}
	citySuccess := make([]map[string]interface{}, 0, 10)
	for _, g := range analyticsService.TopCitySuccess() {
		citySuccess = append(citySuccess, map[string]interface{}{"city": g.Value, "success_rate": g.Rate})
	}

	respondJSON(w, map[string]interface{}{
		"top_industries_count":   industryCounts,
		"top_cities_count":       cityCounts,
		"top_industries_success": industrySuccess,
		"top_cities_success":     citySuccess,
	})
}

func handleFundingDistribution(w http.ResponseWriter, r *http.Request) {
	if analyticsService == nil {
		respondError(w, http.StatusServiceUnavailable, "analytics not initialized")
		return
	}

	dist, err := analyticsService.FundingDistribution()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, dist)
}

func handleTopInvestors(w http.ResponseWriter, r *http.Request) {
	if analyticsService == nil {
		respondError(w, http.StatusServiceUnavailable, "analytics not initialized")
		return
	}

	top := analyticsService.TopInvestors()
	investors := make([]string, 0, len(top))
	counts := make([]int, 0, len(top))
	for _, g := range top {
		investors = append(investors, g.Value)
		counts = append(counts, g.Count)
	}

	respondJSON(w, map[string]interface{}{
		"investors": investors,
		"counts":    counts,
	})
}

// handleFactors never fails: a model without usable importances degrades to
// the fixed fallback inside ml.Importances.
func handleFactors(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, ml.Importances(modelProvider))
}

// isValidationErr separates client mistakes from boundary failures.
func isValidationErr(err error) bool {
	return errors.Is(err, ml.ErrUnknownCategory)
}
