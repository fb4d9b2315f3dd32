package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"startupml/db"
)

// historyFixture returns n entries for one user, newest first, the order the
// store hands them back in.
func historyFixture(n int) []db.PredictionEntry {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := make([]db.PredictionEntry, 0, n)
	for i := 0; i < n; i++ {
		prediction := 0
		if i%2 == 0 {
			prediction = 1
		}
		entries = append(entries, db.PredictionEntry{
			ID:            int64(n - i),
			Email:         "a@b.com",
			Industry:      "FinTech",
			City:          "Bangalore",
			FundingAmount: 1000000 * float64(i+1),
			FundingRounds: 2,
			Probability:   0.5 + float64(i)*0.01,
			Prediction:    prediction,
			Timestamp:     base.Add(-time.Duration(i) * 24 * time.Hour),
		})
	}
	return entries
}

func getJSON(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	RegisterHandlers(mux)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandleHistoryRequiresEmail(t *testing.T) {
	SetHistoryStore(&fakeHistory{})
	defer SetHistoryStore(nil)

	w := getJSON(t, "/api/history")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if payload := decodeBody(t, w); payload["error"] != "Email is required" {
		t.Fatalf("unexpected error: %v", payload["error"])
	}
}

func TestHandleHistoryEmpty(t *testing.T) {
	SetHistoryStore(&fakeHistory{})
	defer SetHistoryStore(nil)

	w := getJSON(t, "/api/history?email=nobody@b.com")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty history, got %d", w.Code)
	}
	if got := w.Body.String(); got != "[]\n" && got != "[]" {
		t.Fatalf("expected empty list, got %q", got)
	}
}

func TestHandleHistory(t *testing.T) {
	SetHistoryStore(&fakeHistory{entries: historyFixture(3)})
	defer SetHistoryStore(nil)

	w := getJSON(t, "/api/history?email=a@b.com")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var list []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(list))
	}
	if list[0]["timestamp"] != "2025-06-01 12:00:00" {
		t.Fatalf("unexpected timestamp format: %v", list[0]["timestamp"])
	}
	if list[0]["id"].(float64) != 3 {
		t.Fatalf("expected newest entry first, got id %v", list[0]["id"])
	}
}

func TestHandleProfileSummary(t *testing.T) {
	SetHistoryStore(&fakeHistory{entries: historyFixture(15)})
	defer SetHistoryStore(nil)

	w := getJSON(t, "/api/profile_summary?email=a@b.com")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	payload := decodeBody(t, w)

	if payload["total"].(float64) != 15 {
		t.Fatalf("expected total 15, got %v", payload["total"])
	}
	if payload["success_count"].(float64) != 8 {
		t.Fatalf("expected 8 successes, got %v", payload["success_count"])
	}
	if payload["fail_count"].(float64) != 7 {
		t.Fatalf("expected 7 failures, got %v", payload["fail_count"])
	}

	last := payload["last_predictions"].([]interface{})
	if len(last) != 10 {
		t.Fatalf("expected last predictions capped at 10, got %d", len(last))
	}

	trend := payload["trend"].(map[string]interface{})
	timestamps := trend["timestamps"].([]interface{})
	scores := trend["scores"].([]interface{})
	if len(timestamps) != 12 || len(scores) != 12 {
		t.Fatalf("expected trend of 12, got %d timestamps and %d scores", len(timestamps), len(scores))
	}
	// Ascending time: the oldest of the recent 12 comes first.
	if timestamps[0] != "2025-05-21" || timestamps[11] != "2025-06-01" {
		t.Fatalf("trend not ascending: first %v last %v", timestamps[0], timestamps[11])
	}
	// Probability 0.5 rounds to a one-decimal percentage.
	if scores[11].(float64) != 50.0 {
		t.Fatalf("unexpected newest score: %v", scores[11])
	}
}

func TestHandleProfileSummaryRequiresEmail(t *testing.T) {
	SetHistoryStore(&fakeHistory{})
	defer SetHistoryStore(nil)

	w := getJSON(t, "/api/profile_summary")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleHistoryStoreFailure(t *testing.T) {
	SetHistoryStore(&fakeHistory{err: fmt.Errorf("disk gone")})
	defer SetHistoryStore(nil)

	w := getJSON(t, "/api/history?email=a@b.com")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
