// Package marketdata provides the upstream market data client.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/atlas-desktop/projection-backend/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNoData signals an empty or unavailable history. Callers treat it the
// same as a transport failure: degrade, never propagate.
var ErrNoData = errors.New("no market data available")

// Provider is the collaborator surface the projection engine depends on.
type Provider interface {
	// History returns up to LookbackYears of daily closing prices in
	// chronological order.
	History(ctx context.Context, symbol string) ([]float64, error)
	// Quote returns the latest and previous closing prices.
	Quote(ctx context.Context, symbol string) (types.Quote, error)
	// Fundamentals returns best-effort company ratios; missing fields
	// are zero.
	Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error)
}

// Client fetches market data over the Yahoo Finance chart API.
type Client struct {
	logger *zap.Logger
	config types.MarketDataConfig
	http   *http.Client
}

// DefaultConfig returns the production provider configuration.
func DefaultConfig() types.MarketDataConfig {
	return types.MarketDataConfig{
		BaseURL:        "https://query1.finance.yahoo.com",
		RequestTimeout: 10 * time.Second,
		LookbackYears:  10,
	}
}

// NewClient creates a market data client. The request timeout bounds every
// upstream call; expiry surfaces as an ordinary fetch error.
func NewClient(logger *zap.Logger, config types.MarketDataConfig) *Client {
	return &Client{
		logger: logger,
		config: config,
		http:   &http.Client{Timeout: config.RequestTimeout},
	}
}

// chartResponse mirrors the subset of the chart payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches daily closes for the configured lookback window. Gaps
// (null closes) are skipped; an empty series is ErrNoData.
func (c *Client) History(ctx context.Context, symbol string) ([]float64, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%dy&interval=1d",
		c.config.BaseURL, url.PathEscape(symbol), c.config.LookbackYears)

	var payload chartResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoData, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	raw := payload.Chart.Result[0].Indicators.Quote[0].Close
	closes := make([]float64, 0, len(raw))
	for _, p := range raw {
		if p != nil {
			closes = append(closes, *p)
		}
	}
	if len(closes) == 0 {
		return nil, ErrNoData
	}

	c.logger.Debug("Fetched price history",
		zap.String("symbol", symbol), zap.Int("closes", len(closes)))

	return closes, nil
}

// Quote derives current and previous close from the history series. A
// single observation repeats as its own previous close.
func (c *Client) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	closes, err := c.History(ctx, symbol)
	if err != nil {
		return types.Quote{}, err
	}

	current := closes[len(closes)-1]
	prev := current
	if len(closes) > 1 {
		prev = closes[len(closes)-2]
	}

	return types.Quote{
		Symbol:    symbol,
		Current:   decimal.NewFromFloat(current),
		PrevClose: decimal.NewFromFloat(prev),
	}, nil
}

// summaryResponse mirrors the subset of the quoteSummary payload we consume.
type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				TrailingPE rawValue `json:"trailingPE"`
			} `json:"summaryDetail"`
			KeyStatistics struct {
				TrailingEPS rawValue `json:"trailingEps"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				ReturnOnEquity rawValue `json:"returnOnEquity"`
				DebtToEquity   rawValue `json:"debtToEquity"`
			} `json:"financialData"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

type rawValue struct {
	Raw float64 `json:"raw"`
}

// Fundamentals fetches company ratios. Any failure yields the zero value;
// fundamentals are advisory and never block a projection.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=summaryDetail,defaultKeyStatistics,financialData",
		c.config.BaseURL, url.PathEscape(symbol))

	var payload summaryResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		c.logger.Debug("Fundamentals unavailable",
			zap.String("symbol", symbol), zap.Error(err))
		return types.Fundamentals{}, nil
	}

	if len(payload.QuoteSummary.Result) == 0 {
		return types.Fundamentals{}, nil
	}

	r := payload.QuoteSummary.Result[0]
	return types.Fundamentals{
		PERatio:      r.SummaryDetail.TrailingPE.Raw,
		EPS:          r.KeyStatistics.TrailingEPS.Raw,
		ROE:          r.FinancialData.ReturnOnEquity.Raw,
		DebtToEquity: r.FinancialData.DebtToEquity.Raw,
	}, nil
}

// getJSON performs a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "projection-backend/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from provider", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
