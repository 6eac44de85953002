// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_provider_requests_total",
			Help: "Total provider HTTP calls by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "places_provider_request_duration_seconds",
			Help: "Duration of provider HTTP calls in seconds",
		},
		[]string{"operation"},
	)

	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_pages_fetched_total",
			Help: "Search pages fetched per area",
		},
		[]string{"area"},
	)

	CandidatesFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_candidates_filtered_total",
			Help: "Filter verdicts per area and reason",
		},
		[]string{"area", "verdict"},
	)

	DegradedCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_degraded_calls_total",
			Help: "Provider calls that degraded to an empty result",
		},
		[]string{"area", "error_code"},
	)

	ShopsCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_shops_collected_total",
			Help: "Enriched shops accumulated per area before dedup",
		},
		[]string{"area"},
	)

	ShopsExported = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "export_shops",
			Help: "Shops written by the most recent export",
		},
		[]string{"label"},
	)
)
