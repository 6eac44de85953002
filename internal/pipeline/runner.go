// internal/pipeline/runner.go
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"coffee-scout/internal/common/logger"
	"coffee-scout/internal/common/observability"
)

// Runner drives the collector across every configured area, sequentially.
// Sequential is deliberate: concurrent paging would multiply the request
// rate against the provider's quota for no gain on a run-once tool.
type Runner struct {
	collector *Collector
	logger    logger.Logger
	obs       *observability.Observability
}

func NewRunner(collector *Collector, log logger.Logger, obs *observability.Observability) *Runner {
	return &Runner{
		collector: collector,
		logger:    log,
		obs:       obs,
	}
}

// Run collects every area in the order given and concatenates the results.
// Area order and in-area order are preserved; together with first-wins
// dedup this makes the output reproducible for identical provider answers.
// Cancellation stops the walk but whatever was collected is still returned.
func (r *Runner) Run(ctx context.Context, areas []Area) Report {
	report := Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}

	ctx, span := r.obs.StartSpan(ctx, "scout-run", attribute.String("runId", report.RunID))
	defer span.End()

	log := r.logger.WithFields(map[string]interface{}{"runId": report.RunID})

	for _, area := range areas {
		if ctx.Err() != nil {
			log.Warn("run cancelled, exporting partial results", map[string]interface{}{
				"areasDone": len(report.Areas),
			})
			break
		}

		log.Info("collecting area", map[string]interface{}{
			"area":     area.Label,
			"location": area.Location,
		})

		result := r.collector.CollectArea(ctx, area)
		report.Areas = append(report.Areas, result)
		report.Shops = append(report.Shops, result.Shops...)

		log.Info("area collected", map[string]interface{}{
			"area":     area.Label,
			"shops":    len(result.Shops),
			"pages":    result.PagesFetched,
			"degraded": len(result.Degraded),
		})
	}

	report.Finished = time.Now()
	return report
}
