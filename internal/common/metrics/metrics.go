// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_fetches_total",
			Help: "Total number of listing fetches by outcome",
		},
		[]string{"status"},
	)

	SearchFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "search_fetch_duration_seconds",
			Help: "Duration of listing fetches in seconds",
		},
		[]string{"status"},
	)

	StaleResponsesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_stale_responses_discarded_total",
			Help: "Responses dropped because a newer request superseded them",
		},
	)

	ParseRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_parse_requests_total",
			Help: "Natural-language parse submissions by outcome",
		},
		[]string{"status"},
	)

	SmartMatchPromotions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_smartmatch_promotions_total",
			Help: "Free-text terms promoted into a structured facet",
		},
		[]string{"facet"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "search_active_sessions",
			Help: "Number of live search sessions",
		},
	)
)
