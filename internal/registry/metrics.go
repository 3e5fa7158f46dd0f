package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry contents
	recipesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "extremecraft_registry_recipes",
			Help: "Number of recipes currently registered",
		},
	)
	reloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extremecraft_registry_reloads_total",
			Help: "Total number of registry reloads",
		},
	)

	// Matching
	matchAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extremecraft_match_attempts_total",
			Help: "Total number of grid match lookups",
		},
	)
	matchHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extremecraft_match_hits_total",
			Help: "Total number of grid lookups that found a recipe",
		},
	)
	matchCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extremecraft_match_cache_hits_total",
			Help: "Total number of grid lookups answered from the match cache",
		},
	)
)
