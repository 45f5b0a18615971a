// Package marketdata_test provides tests for the market data client.
package marketdata_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atlas-desktop/projection-backend/internal/marketdata"
	"github.com/atlas-desktop/projection-backend/pkg/types"
	"go.uber.org/zap"
)

func newClient(baseURL string) *marketdata.Client {
	return marketdata.NewClient(zap.NewNop(), types.MarketDataConfig{
		BaseURL:        baseURL,
		RequestTimeout: 2 * time.Second,
		LookbackYears:  10,
	})
}

func chartBody(closes string) string {
	return fmt.Sprintf(`{"chart":{"result":[{"indicators":{"quote":[{"close":%s}]}}]}}`, closes)
}

func TestHistorySkipsNullCloses(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(`[100.5,null,101.25,102.0]`))
	}))
	defer ts.Close()

	closes, err := newClient(ts.URL).History(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}

	want := []float64{100.5, 101.25, 102.0}
	if len(closes) != len(want) {
		t.Fatalf("Expected %d closes, got %d", len(want), len(closes))
	}
	for i, v := range want {
		if closes[i] != v {
			t.Errorf("Close %d: expected %v, got %v", i, v, closes[i])
		}
	}
}

func TestHistoryEmptyIsNoData(t *testing.T) {
	cases := map[string]string{
		"all nulls":    chartBody(`[null,null]`),
		"empty result": `{"chart":{"result":[]}}`,
		"chart error":  `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer ts.Close()

			_, err := newClient(ts.URL).History(context.Background(), "NOPE")
			if !errors.Is(err, marketdata.ErrNoData) {
				t.Errorf("Expected ErrNoData, got %v", err)
			}
		})
	}
}

func TestHistoryUpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer ts.Close()

	if _, err := newClient(ts.URL).History(context.Background(), "AAPL"); err == nil {
		t.Error("Expected error for 502 response")
	}
}

func TestQuoteUsesLastTwoCloses(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(`[100.0,110.0,120.0]`))
	}))
	defer ts.Close()

	quote, err := newClient(ts.URL).Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}

	if quote.Current.InexactFloat64() != 120.0 {
		t.Errorf("Expected current 120.0, got %v", quote.Current)
	}
	if quote.PrevClose.InexactFloat64() != 110.0 {
		t.Errorf("Expected prev close 110.0, got %v", quote.PrevClose)
	}
}

func TestQuoteSingleCloseRepeats(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(`[42.5]`))
	}))
	defer ts.Close()

	quote, err := newClient(ts.URL).Quote(context.Background(), "NEW")
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}

	if !quote.Current.Equal(quote.PrevClose) {
		t.Errorf("Expected prev close to repeat current: %v vs %v",
			quote.Current, quote.PrevClose)
	}
}

func TestFundamentalsBestEffort(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteSummary":{"result":[{
			"summaryDetail":{"trailingPE":{"raw":24.5}},
			"defaultKeyStatistics":{"trailingEps":{"raw":6.1}},
			"financialData":{"returnOnEquity":{"raw":0.28},"debtToEquity":{"raw":1.2}}
		}]}}`)
	}))
	defer ts.Close()

	f, err := newClient(ts.URL).Fundamentals(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Fundamentals failed: %v", err)
	}

	if f.PERatio != 24.5 || f.EPS != 6.1 || f.ROE != 0.28 || f.DebtToEquity != 1.2 {
		t.Errorf("Unexpected fundamentals: %+v", f)
	}
}

func TestFundamentalsFailureIsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer ts.Close()

	f, err := newClient(ts.URL).Fundamentals(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected swallowed failure, got error: %v", err)
	}
	if f != (types.Fundamentals{}) {
		t.Errorf("Expected zero fundamentals on failure, got %+v", f)
	}
}

func TestRequestTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		fmt.Fprint(w, chartBody(`[100.0]`))
	}))
	defer ts.Close()

	client := marketdata.NewClient(zap.NewNop(), types.MarketDataConfig{
		BaseURL:        ts.URL,
		RequestTimeout: 50 * time.Millisecond,
		LookbackYears:  10,
	})

	if _, err := client.History(context.Background(), "SLOW"); err == nil {
		t.Error("Expected timeout error")
	}
}
