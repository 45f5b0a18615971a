// Package types provides shared types for the projection backend.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AssetClass identifies the kind of asset being projected.
type AssetClass string

const (
	AssetStock      AssetClass = "stock"
	AssetMutualFund AssetClass = "mutual_fund"
	AssetGold       AssetClass = "gold"
	AssetSilver     AssetClass = "silver"
)

// Valid reports whether the asset class is one of the supported values.
func (a AssetClass) Valid() bool {
	switch a {
	case AssetStock, AssetMutualFund, AssetGold, AssetSilver:
		return true
	}
	return false
}

// IsCommodity reports whether the asset class maps to a fixed futures ticker.
func (a AssetClass) IsCommodity() bool {
	return a == AssetGold || a == AssetSilver
}

// ProjectionRequest is the inbound payload for a projection run.
// Fundamental ratios are optional and only meaningful for stocks.
type ProjectionRequest struct {
	AssetClass     AssetClass `json:"assetClass"`
	Symbol         string     `json:"symbol"`
	InvestedAmount float64    `json:"investedAmount"`
	PERatio        float64    `json:"peRatio,omitempty"`
	EPS            float64    `json:"eps,omitempty"`
	ROE            float64    `json:"roe,omitempty"`
	DebtToEquity   float64    `json:"debtToEquity,omitempty"`
}

// Validate checks the request fields the engine depends on.
func (r *ProjectionRequest) Validate() error {
	if !r.AssetClass.Valid() {
		return fmt.Errorf("unknown asset class %q", r.AssetClass)
	}
	if r.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if r.InvestedAmount <= 0 {
		return fmt.Errorf("investedAmount must be positive, got %v", r.InvestedAmount)
	}
	return nil
}

// ModelParameters holds the annualized drift and volatility driving a simulation.
type ModelParameters struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// HorizonProjection is the simulated outcome for a single horizon.
type HorizonProjection struct {
	ExpectedValue float64 `json:"expectedValue"`
	BestCase      float64 `json:"bestCase"`
	WorstCase     float64 `json:"worstCase"`
}

// ProjectionResult is the full response for a projection request.
// Projection keys are horizon years rendered as strings ("1".."10").
// IsSimulated flags that the parameters did not derive from fetched history.
type ProjectionResult struct {
	Params      ModelParameters              `json:"params"`
	Projection  map[string]HorizonProjection `json:"projection"`
	IsSimulated bool                         `json:"isSimulated"`
}

// Quote is a point-in-time price snapshot from the market data provider.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Current   decimal.Decimal `json:"c"`
	PrevClose decimal.Decimal `json:"pc"`
}

// Fundamentals holds best-effort company ratios from the data provider.
// Zero values mean "unavailable"; consumers treat them as absent.
type Fundamentals struct {
	PERatio      float64 `json:"peRatio,omitempty"`
	EPS          float64 `json:"eps,omitempty"`
	ROE          float64 `json:"roe,omitempty"`
	DebtToEquity float64 `json:"debtToEquity,omitempty"`
}
