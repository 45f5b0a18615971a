package projection

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	projectionCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projection_cache_hits_total",
		Help: "Projection requests served whole from the projection cache.",
	})
	parameterCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projection_parameter_cache_hits_total",
		Help: "Projection requests that reused cached model parameters.",
	})
	liveEstimations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projection_live_estimations_total",
		Help: "Parameter estimations computed from freshly fetched history.",
	})
	defaultParameterFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projection_default_parameter_fallbacks_total",
		Help: "Requests degraded to default parameters after a fetch or estimation failure.",
	})
	catastrophicFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projection_catastrophic_fallbacks_total",
		Help: "Requests served by the deterministic closed-form fallback.",
	})
)
