package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHistoryClient_FetchHistory_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify the chart endpoint receives period and interval parameters
		if r.URL.Query().Get("interval") != "1d" {
			t.Errorf("expected interval 1d, got %s", r.URL.Query().Get("interval"))
		}
		if r.URL.Query().Get("period1") == "" || r.URL.Query().Get("period2") == "" {
			t.Error("expected period1 and period2 parameters")
		}

		_, _ = w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1735689600, 1735776000],
					"indicators": {
						"quote": [{
							"open":   [150.111, 151.222],
							"high":   [152.333, 153.444],
							"low":    [149.555, 150.666],
							"close":  [151.777, 152.888],
							"volume": [1000000, 1100000]
						}]
					}
				}]
			}
		}`))
	}))
	defer server.Close()

	client := NewHistoryClient(testConfig(server.URL), server.Client())

	bars := client.FetchHistory(context.Background(), "AAPL", 30)

	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}

	// Prices are rounded to 2 decimal places
	if bars[0].Close != 151.78 {
		t.Errorf("expected close 151.78, got %f", bars[0].Close)
	}
	if bars[0].Open != 150.11 {
		t.Errorf("expected open 150.11, got %f", bars[0].Open)
	}
	if bars[0].Volume != 1000000 {
		t.Errorf("expected volume 1000000, got %d", bars[0].Volume)
	}

	// Bars are sorted ascending by date
	if !bars[0].Date.Before(bars[1].Date) {
		t.Errorf("expected ascending dates, got %v then %v", bars[0].Date, bars[1].Date)
	}
}

func TestHistoryClient_FetchHistory_SkipsInvalidBars(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Second bar has a null close, third has a zero close: both are dropped
		_, _ = w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1735689600, 1735776000, 1735862400],
					"indicators": {
						"quote": [{
							"open":   [150.0, null, 152.0],
							"high":   [152.0, null, 153.0],
							"low":    [149.0, null, 151.0],
							"close":  [151.0, null, 0],
							"volume": [1000000, null, 900000]
						}]
					}
				}]
			}
		}`))
	}))
	defer server.Close()

	client := NewHistoryClient(testConfig(server.URL), server.Client())

	bars := client.FetchHistory(context.Background(), "AAPL", 30)

	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	if bars[0].Close != 151.0 {
		t.Errorf("expected close 151.0, got %f", bars[0].Close)
	}
}

func TestHistoryClient_FetchHistory_SecondMirrorSucceeds(t *testing.T) {
	t.Parallel()

	badServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer badServer.Close()

	goodServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1735689600],
					"indicators": {"quote": [{"open":[150.0],"high":[152.0],"low":[149.0],"close":[151.0],"volume":[1000000]}]}
				}]
			}
		}`))
	}))
	defer goodServer.Close()

	client := NewHistoryClient(testConfig(badServer.URL, goodServer.URL), goodServer.Client())

	bars := client.FetchHistory(context.Background(), "AAPL", 30)

	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
}

func TestHistoryClient_FetchHistory_AllMirrorsFail(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHistoryClient(testConfig(server.URL, server.URL), server.Client())

	bars := client.FetchHistory(context.Background(), "AAPL", 30)

	// Failures yield an empty slice, never an error
	if bars == nil {
		t.Fatal("expected non-nil slice")
	}
	if len(bars) != 0 {
		t.Errorf("expected 0 bars, got %d", len(bars))
	}
}

func TestHistoryClient_FetchHistory_EmptyResult(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[]}}`))
	}))
	defer server.Close()

	client := NewHistoryClient(testConfig(server.URL), server.Client())

	bars := client.FetchHistory(context.Background(), "AAPL", 30)

	if len(bars) != 0 {
		t.Errorf("expected 0 bars, got %d", len(bars))
	}
}
