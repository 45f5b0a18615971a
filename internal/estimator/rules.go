package estimator

import "github.com/atlas-desktop/projection-backend/pkg/types"

// Rule is a named, independently testable fundamental adjustment. Rules are
// additive and order-dependent; StockRules fixes the order.
type Rule struct {
	Name  string
	Apply func(types.ModelParameters, types.Fundamentals) types.ModelParameters
}

// StockRules are applied in order before the stock clamp. A zero ratio is
// treated as absent and leaves the parameters unchanged.
var StockRules = []Rule{
	{Name: "roe", Apply: applyROE},
	{Name: "pe_ratio", Apply: applyPERatio},
	{Name: "debt_to_equity", Apply: applyDebtToEquity},
}

// applyROE rewards strong return on equity and penalizes weak.
func applyROE(p types.ModelParameters, f types.Fundamentals) types.ModelParameters {
	switch {
	case f.ROE > 0.25:
		p.Mu += 0.05
	case f.ROE > 0.15:
		p.Mu += 0.03
	case f.ROE > 0 && f.ROE < 0.05:
		p.Mu -= 0.02
	}
	return p
}

// applyPERatio treats extreme valuations as volatility, mild ones as value.
func applyPERatio(p types.ModelParameters, f types.Fundamentals) types.ModelParameters {
	switch {
	case f.PERatio > 80:
		p.Sigma += 0.20
		p.Mu -= 0.03
	case f.PERatio > 50:
		p.Sigma += 0.10
	case f.PERatio > 0 && f.PERatio < 15:
		p.Mu += 0.01
	}
	return p
}

// applyDebtToEquity maps leverage bands onto volatility.
func applyDebtToEquity(p types.ModelParameters, f types.Fundamentals) types.ModelParameters {
	switch {
	case f.DebtToEquity > 3.0:
		p.Sigma += 0.15
	case f.DebtToEquity > 1.5:
		p.Sigma += 0.08
	case f.DebtToEquity > 0 && f.DebtToEquity < 0.5:
		p.Sigma -= 0.02
	}
	return p
}
