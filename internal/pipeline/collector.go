// internal/pipeline/collector.go
package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"coffee-scout/internal/common/errors"
	"coffee-scout/internal/common/logger"
	"coffee-scout/internal/common/metrics"
	"coffee-scout/internal/common/observability"
	"coffee-scout/internal/places"
)

// SearchClient is the provider surface the collector drives.
type SearchClient interface {
	SearchPage(ctx context.Context, location, pageToken string) (places.SearchPage, error)
	Details(ctx context.Context, placeID string) (places.Detail, error)
}

type Config struct {
	MaxPages       int
	PageTokenDelay time.Duration
}

// Collector walks one area's result pages: search, filter, enrich, append.
// Rejected candidates are dropped before any details call; details lookups
// are billed separately from search and the filter exists to avoid them.
type Collector struct {
	config   *Config
	client   SearchClient
	filter   *Filter
	reporter *errors.Reporter
	logger   logger.Logger
	obs      *observability.Observability

	// sleep pauses between page requests; tests swap it to count delays
	// without waiting.
	sleep func(ctx context.Context, d time.Duration)
}

func NewCollector(config *Config, client SearchClient, filter *Filter, log logger.Logger, obs *observability.Observability) *Collector {
	return &Collector{
		config:   config,
		client:   client,
		filter:   filter,
		reporter: errors.NewReporter(log),
		logger:   log,
		obs:      obs,
		sleep:    sleepContext,
	}
}

// CollectArea pages through one area until the provider stops handing out
// continuation tokens or the page cap is hit. Degraded calls end up in the
// result, never in a panic or an abort: the run always produces output.
func (c *Collector) CollectArea(ctx context.Context, area Area) AreaResult {
	ctx, span := c.obs.StartSpan(ctx, "collect-area", attribute.String("area", area.Label))
	defer span.End()

	result := AreaResult{Area: area}
	token := ""

	for pageNum := 1; pageNum <= c.config.MaxPages; pageNum++ {
		if pageNum > 1 {
			// A fresh continuation token is rejected until the provider
			// has registered it server-side. Fixed pause, not a backoff.
			c.sleep(ctx, c.config.PageTokenDelay)
			if ctx.Err() != nil {
				break
			}
		}

		page, err := c.fetchPage(ctx, area, pageNum, token)
		result.PagesFetched++
		if err != nil {
			stdErr := c.reporter.ReportDegraded(area.Label, "nearbysearch", err)
			result.Degraded = append(result.Degraded, stdErr)
			metrics.DegradedCalls.WithLabelValues(area.Label, string(stdErr.Code)).Inc()
			break
		}

		for _, candidate := range page.Candidates {
			if ctx.Err() != nil {
				break
			}

			accepted, verdict := c.filter.Accept(candidate)
			metrics.CandidatesFiltered.WithLabelValues(area.Label, verdict).Inc()
			if !accepted {
				continue
			}

			detail, err := c.fetchDetails(ctx, candidate)
			if err != nil {
				stdErr := c.reporter.ReportDegraded(area.Label, "details", err)
				result.Degraded = append(result.Degraded, stdErr)
				metrics.DegradedCalls.WithLabelValues(area.Label, string(stdErr.Code)).Inc()
				continue
			}

			result.Shops = append(result.Shops, Shop{
				Name:    detail.Name,
				Address: detail.Address,
				Phone:   detail.Phone,
				Website: detail.Website,
			})
		}

		if ctx.Err() != nil {
			break
		}

		token = page.NextToken
		if token == "" {
			break
		}
	}

	if token != "" && ctx.Err() == nil {
		c.logger.Info("page cap reached with results remaining", map[string]interface{}{
			"area":     area.Label,
			"maxPages": c.config.MaxPages,
		})
	}

	metrics.ShopsCollected.WithLabelValues(area.Label).Add(float64(len(result.Shops)))
	c.obs.RecordShopsCollected(ctx, area.Label, len(result.Shops))

	return result
}

func (c *Collector) fetchPage(ctx context.Context, area Area, pageNum int, token string) (places.SearchPage, error) {
	ctx, span := c.obs.StartSpan(ctx, "search-page",
		attribute.String("area", area.Label),
		attribute.Int("page", pageNum),
	)
	defer span.End()

	start := time.Now()
	page, err := c.client.SearchPage(ctx, area.Location, token)
	c.obs.RecordCallDuration(ctx, "nearbysearch", time.Since(start))
	c.obs.RecordProviderCall(ctx, "nearbysearch", callStatus(err))

	metrics.PagesFetched.WithLabelValues(area.Label).Inc()
	return page, err
}

func (c *Collector) fetchDetails(ctx context.Context, candidate places.Candidate) (places.Detail, error) {
	ctx, span := c.obs.StartSpan(ctx, "place-details",
		attribute.String("placeId", candidate.PlaceID),
	)
	defer span.End()

	start := time.Now()
	detail, err := c.client.Details(ctx, candidate.PlaceID)
	c.obs.RecordCallDuration(ctx, "details", time.Since(start))
	c.obs.RecordProviderCall(ctx, "details", callStatus(err))

	return detail, err
}

func callStatus(err error) string {
	if err != nil {
		return "degraded"
	}
	return "ok"
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
