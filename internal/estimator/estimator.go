// Package estimator derives annualized drift and volatility from historical
// prices, with asset-class caps and heuristic fundamental adjustments.
package estimator

import (
	"errors"
	"math"

	"github.com/atlas-desktop/projection-backend/pkg/types"
	"github.com/atlas-desktop/projection-backend/pkg/utils"
	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData signals fewer than one return observation; callers
// degrade to default parameters.
var ErrInsufficientData = errors.New("insufficient price history")

// TradingDaysPerYear annualizes daily return statistics.
const TradingDaysPerYear = 252

// Asset-class parameter bounds. StockSigmaFloor is a risk-floor policy
// choice, not a derived quantity; tune deliberately.
const (
	CommodityMuMin    = 0.02
	CommodityMuMax    = 0.10
	CommoditySigmaMin = 0.05
	CommoditySigmaMax = 0.25

	StockMuMin      = -0.05
	StockMuMax      = 0.25
	StockSigmaFloor = 0.10
	StockSigmaMax   = 0.60
)

// Estimate computes model parameters from a chronological series of closing
// prices. Commodity classes are clamped to their caps; stocks get the
// fundamental adjustment rules followed by the stock clamp.
func Estimate(prices []float64, class types.AssetClass, fundamentals types.Fundamentals) (types.ModelParameters, error) {
	returns := simpleReturns(prices)
	if len(returns) < 1 {
		return types.ModelParameters{}, ErrInsufficientData
	}

	// Population stddev, matching the daily-return convention used to
	// calibrate the caps.
	params := types.ModelParameters{
		Mu:    stat.Mean(returns, nil) * TradingDaysPerYear,
		Sigma: stat.PopStdDev(returns, nil) * math.Sqrt(TradingDaysPerYear),
	}

	switch {
	case class.IsCommodity():
		params.Mu = utils.Clamp(params.Mu, CommodityMuMin, CommodityMuMax)
		params.Sigma = utils.Clamp(params.Sigma, CommoditySigmaMin, CommoditySigmaMax)
	case class == types.AssetStock:
		params = AdjustForFundamentals(params, fundamentals)
	}

	return params, nil
}

// AdjustForFundamentals folds the stock rules over the parameters in their
// declared order, then applies the stock clamp. Exposed so each rule's
// contribution is observable in isolation.
func AdjustForFundamentals(params types.ModelParameters, fundamentals types.Fundamentals) types.ModelParameters {
	for _, rule := range StockRules {
		params = rule.Apply(params, fundamentals)
	}
	params.Mu = utils.Clamp(params.Mu, StockMuMin, StockMuMax)
	params.Sigma = utils.Clamp(params.Sigma, StockSigmaFloor, StockSigmaMax)
	return params
}

// simpleReturns computes period-over-period simple returns.
func simpleReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	return returns
}
