// Package montecarlo simulates future investment values under Geometric
// Brownian Motion. Each horizon is drawn in closed form, so no path
// stepping is needed and horizons are independent of each other.
package montecarlo

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/atlas-desktop/projection-backend/pkg/types"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Simulator runs Monte Carlo projections.
type Simulator struct {
	logger *zap.Logger
	config *Config
	seed   int64
}

// Config configures the simulator.
type Config struct {
	Paths   int   // Samples per horizon
	Seed    int64 // Random seed (0 for time-based)
	Workers int   // Parallel workers across horizons
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths:   10000,
		Seed:    0,
		Workers: 4,
	}
}

// New creates a Monte Carlo simulator.
func New(logger *zap.Logger, config *Config) *Simulator {
	if config == nil {
		config = DefaultConfig()
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Simulator{
		logger: logger,
		config: config,
		seed:   seed,
	}
}

// Project simulates the future value of initial for every horizon (in
// years) and reports the sample mean plus the 5th/95th percentiles.
// Inputs must be finite with sigma >= 0; the caller sanitizes.
func (s *Simulator) Project(initial float64, params types.ModelParameters, horizons []int) map[int]types.HorizonProjection {
	results := make([]types.HorizonProjection, len(horizons))

	jobs := make(chan int, len(horizons))
	var wg sync.WaitGroup

	workers := s.config.Workers
	if workers < 1 {
		workers = 1
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				// Seed per horizon so a fixed config seed gives
				// reproducible draws regardless of scheduling.
				rng := rand.New(rand.NewSource(s.seed + int64(horizons[idx])))
				results[idx] = s.simulateHorizon(rng, initial, params, horizons[idx])
			}
		}()
	}

	for i := range horizons {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	projection := make(map[int]types.HorizonProjection, len(horizons))
	for i, years := range horizons {
		projection[years] = results[i]
	}

	s.logger.Debug("Monte Carlo projection complete",
		zap.Int("horizons", len(horizons)),
		zap.Int("paths", s.config.Paths),
		zap.Float64("mu", params.Mu),
		zap.Float64("sigma", params.Sigma),
	)

	return projection
}

// simulateHorizon draws the closed-form terminal distribution for one horizon.
func (s *Simulator) simulateHorizon(rng *rand.Rand, initial float64, params types.ModelParameters, years int) types.HorizonProjection {
	t := float64(years)
	drift := (params.Mu - 0.5*params.Sigma*params.Sigma) * t
	scale := math.Sqrt(t)

	values := make([]float64, s.config.Paths)
	for i := range values {
		diffusion := params.Sigma * rng.NormFloat64() * scale
		values[i] = initial * math.Exp(drift+diffusion)
	}

	mean := stat.Mean(values, nil)

	sort.Float64s(values)
	best := stat.Quantile(0.95, stat.Empirical, values, nil)
	worst := stat.Quantile(0.05, stat.Empirical, values, nil)

	return types.HorizonProjection{
		ExpectedValue: mean,
		BestCase:      best,
		WorstCase:     worst,
	}
}
