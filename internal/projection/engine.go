// Package projection orchestrates the projection pipeline: cache tiers,
// parameter estimation, Monte Carlo simulation, and the fallback chain
// that keeps the response well-formed when everything upstream fails.
package projection

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/atlas-desktop/projection-backend/internal/cache"
	"github.com/atlas-desktop/projection-backend/internal/estimator"
	"github.com/atlas-desktop/projection-backend/internal/marketdata"
	"github.com/atlas-desktop/projection-backend/internal/montecarlo"
	"github.com/atlas-desktop/projection-backend/pkg/types"
	"github.com/atlas-desktop/projection-backend/pkg/utils"
	"go.uber.org/zap"
)

// Cache keys embed version tokens so stale-format entries are superseded,
// never migrated.
const (
	cacheVersion           = "v3"
	parameterSchemaVersion = "v2"
)

// Process-wide default parameters used when no history can be fetched.
const (
	DefaultMu    = 0.06
	DefaultSigma = 0.10
)

// Deterministic fallback: fixed compound growth with symmetric bands.
const (
	fallbackGrowthRate = 0.05
	fallbackBand       = 0.10
)

// Commodity asset classes always project against their futures ticker.
var commodityTickers = map[types.AssetClass]string{
	types.AssetGold:   "GC=F",
	types.AssetSilver: "SI=F",
}

// Engine runs the projection pipeline. All collaborators are injected; the
// engine owns no global state.
type Engine struct {
	logger    *zap.Logger
	cache     *cache.Cache
	provider  marketdata.Provider
	simulator *montecarlo.Simulator

	projectionTTL time.Duration
	parameterTTL  time.Duration
	maxHorizon    int
}

// NewEngine creates a projection engine. maxHorizon bounds the projected
// horizons at 1..maxHorizon years.
func NewEngine(logger *zap.Logger, store *cache.Cache, provider marketdata.Provider, simulator *montecarlo.Simulator, cacheCfg types.CacheConfig, engineCfg types.EngineConfig) *Engine {
	maxHorizon := engineCfg.MaxHorizon
	if maxHorizon < 1 {
		maxHorizon = 10
	}
	return &Engine{
		logger:        logger,
		cache:         store,
		provider:      provider,
		simulator:     simulator,
		projectionTTL: cacheCfg.ProjectionTTL,
		parameterTTL:  cacheCfg.ParameterTTL,
		maxHorizon:    maxHorizon,
	}
}

// CanonicalSymbol maps commodity asset classes to their fixed futures
// ticker, overriding whatever the caller supplied.
func CanonicalSymbol(class types.AssetClass, symbol string) string {
	if ticker, ok := commodityTickers[class]; ok {
		return ticker
	}
	return symbol
}

// Project runs the full pipeline for a validated request. It never fails:
// every upstream or computational problem degrades to a finite result with
// IsSimulated set.
func (e *Engine) Project(ctx context.Context, req *types.ProjectionRequest) *types.ProjectionResult {
	symbol := CanonicalSymbol(req.AssetClass, req.Symbol)

	projectionKey := fmt.Sprintf("projection:%s:%s:%s:%s",
		cacheVersion, req.AssetClass, symbol,
		strconv.FormatFloat(req.InvestedAmount, 'g', -1, 64))

	var cached types.ProjectionResult
	if e.cache.GetJSON(projectionKey, &cached) {
		projectionCacheHits.Inc()
		e.logger.Debug("Projection cache hit", zap.String("key", projectionKey))
		return &cached
	}

	result, err := e.compute(ctx, req, symbol)
	if err != nil {
		// Catastrophic fallback: any unexpected computation failure
		// is absorbed into a deterministic projection.
		catastrophicFallbacks.Inc()
		e.logger.Error("Projection computation failed, using deterministic fallback",
			zap.String("symbol", symbol), zap.Error(err))
		result = e.deterministicFallback(req.InvestedAmount)
	}

	e.sanitize(result)

	if err := e.cache.Set(projectionKey, result, e.projectionTTL); err != nil {
		e.logger.Warn("Failed to cache projection", zap.Error(err))
	}

	return result
}

// compute covers steps 3-5 of the pipeline. A panic anywhere inside is
// converted to an error for the caller's fallback.
func (e *Engine) compute(ctx context.Context, req *types.ProjectionRequest, symbol string) (result *types.ProjectionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("unexpected computation failure: %v", r)
		}
	}()

	params, simulated := e.resolveParameters(ctx, req, symbol)

	horizons := make([]int, e.maxHorizon)
	for i := range horizons {
		horizons[i] = i + 1
	}

	projection := e.simulator.Project(req.InvestedAmount, params, horizons)

	byYear := make(map[string]types.HorizonProjection, len(projection))
	for years, h := range projection {
		byYear[strconv.Itoa(years)] = h
	}

	return &types.ProjectionResult{
		Params:      params,
		Projection:  byYear,
		IsSimulated: simulated,
	}, nil
}

// resolveParameters walks the parameter tiers: cache, live estimation,
// process-wide defaults. The boolean reports whether defaults were used.
func (e *Engine) resolveParameters(ctx context.Context, req *types.ProjectionRequest, symbol string) (types.ModelParameters, bool) {
	paramKey := fmt.Sprintf("params:%s:%s:%s", req.AssetClass, symbol, parameterSchemaVersion)

	var cached types.ModelParameters
	if e.cache.GetJSON(paramKey, &cached) {
		parameterCacheHits.Inc()
		e.logger.Debug("Parameter cache hit", zap.String("key", paramKey))
		return cached, false
	}

	closes, err := e.provider.History(ctx, symbol)
	if err != nil {
		defaultParameterFallbacks.Inc()
		e.logger.Warn("History fetch failed, using default parameters",
			zap.String("symbol", symbol), zap.Error(err))
		return types.ModelParameters{Mu: DefaultMu, Sigma: DefaultSigma}, true
	}

	params, err := estimator.Estimate(closes, req.AssetClass, e.fundamentals(ctx, req, symbol))
	if err != nil {
		defaultParameterFallbacks.Inc()
		e.logger.Warn("Estimation failed, using default parameters",
			zap.String("symbol", symbol), zap.Error(err))
		return types.ModelParameters{Mu: DefaultMu, Sigma: DefaultSigma}, true
	}

	liveEstimations.Inc()
	if err := e.cache.Set(paramKey, params, e.parameterTTL); err != nil {
		e.logger.Warn("Failed to cache parameters", zap.Error(err))
	}

	return params, false
}

// fundamentals prefers ratios supplied on the request and falls back to a
// best-effort provider lookup for stocks.
func (e *Engine) fundamentals(ctx context.Context, req *types.ProjectionRequest, symbol string) types.Fundamentals {
	if req.AssetClass != types.AssetStock {
		return types.Fundamentals{}
	}

	supplied := types.Fundamentals{
		PERatio:      req.PERatio,
		EPS:          req.EPS,
		ROE:          req.ROE,
		DebtToEquity: req.DebtToEquity,
	}
	if supplied != (types.Fundamentals{}) {
		return supplied
	}

	fetched, err := e.provider.Fundamentals(ctx, symbol)
	if err != nil {
		return types.Fundamentals{}
	}
	return fetched
}

// deterministicFallback synthesizes a projection from fixed compound
// growth with symmetric bands. This path must never fail.
func (e *Engine) deterministicFallback(amount float64) *types.ProjectionResult {
	projection := make(map[string]types.HorizonProjection, e.maxHorizon)
	for years := 1; years <= e.maxHorizon; years++ {
		expected := amount * math.Pow(1+fallbackGrowthRate, float64(years))
		projection[strconv.Itoa(years)] = types.HorizonProjection{
			ExpectedValue: expected,
			BestCase:      expected * (1 + fallbackBand),
			WorstCase:     expected * (1 - fallbackBand),
		}
	}

	return &types.ProjectionResult{
		Params:      types.ModelParameters{Mu: DefaultMu, Sigma: DefaultSigma},
		Projection:  projection,
		IsSimulated: true,
	}
}

// sanitize replaces non-finite numeric fields so the result always
// serializes to valid JSON.
func (e *Engine) sanitize(result *types.ProjectionResult) {
	result.Params.Mu = utils.Finite(result.Params.Mu, DefaultMu)
	result.Params.Sigma = utils.Finite(result.Params.Sigma, DefaultSigma)

	for year, h := range result.Projection {
		h.ExpectedValue = utils.Finite(h.ExpectedValue, 0)
		h.BestCase = utils.Finite(h.BestCase, 0)
		h.WorstCase = utils.Finite(h.WorstCase, 0)
		result.Projection[year] = h
	}
}
