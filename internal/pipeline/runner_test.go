// internal/pipeline/runner_test.go
package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffee-scout/internal/common/errors"
	"coffee-scout/internal/common/logger"
	"coffee-scout/internal/common/observability"
	"coffee-scout/internal/places"
)

func newTestRunner(t *testing.T, client SearchClient) *Runner {
	collector, _ := newTestCollector(t, client)
	return NewRunner(collector, logger.NewTestLogger(t), observability.New("runner-test"))
}

func TestRunner_Run_PreservesAreaOrder(t *testing.T) {
	// Tokenless pages: one search call per area, in area order.
	stub := &stubClient{
		pages: []places.SearchPage{
			{Candidates: []places.Candidate{makeCandidate("p1", "Analog Coffee")}},
			{Candidates: []places.Candidate{makeCandidate("p2", "Ballard Coffee Works")}},
			{Candidates: []places.Candidate{makeCandidate("p3", "Milstead Coffee")}},
		},
		details: map[string]places.Detail{
			"p1": makeDetail("Analog Coffee", "1"),
			"p2": makeDetail("Ballard Coffee Works", "2"),
			"p3": makeDetail("Milstead & Co", "3"),
		},
	}
	runner := newTestRunner(t, stub)

	areas := []Area{
		{Label: "capitol_hill", Location: "47.6205,-122.3212"},
		{Label: "ballard", Location: "47.6687,-122.3843"},
		{Label: "fremont", Location: "47.6510,-122.3499"},
	}
	report := runner.Run(context.Background(), areas)

	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.Finished.Before(report.Started))

	require.Len(t, report.Areas, 3)
	assert.Equal(t, "capitol_hill", report.Areas[0].Area.Label)
	assert.Equal(t, "ballard", report.Areas[1].Area.Label)
	assert.Equal(t, "fremont", report.Areas[2].Area.Label)

	// Shops concatenate in area order.
	require.Len(t, report.Shops, 3)
	assert.Equal(t, "Analog Coffee", report.Shops[0].Name)
	assert.Equal(t, "Ballard Coffee Works", report.Shops[1].Name)
	assert.Equal(t, "Milstead & Co", report.Shops[2].Name)
}

func TestRunner_Run_EmptyAreas(t *testing.T) {
	stub := &stubClient{}
	runner := newTestRunner(t, stub)

	report := runner.Run(context.Background(), nil)

	assert.NotEmpty(t, report.RunID)
	assert.Empty(t, report.Areas)
	assert.Empty(t, report.Shops)
	assert.Equal(t, 0, stub.searchCalls)
}

func TestRunner_Run_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubClient{}
	runner := newTestRunner(t, stub)

	report := runner.Run(ctx, []Area{{Label: "capitol_hill", Location: "47.6205,-122.3212"}})

	// The walk stops but a report still comes back for export.
	assert.Empty(t, report.Areas)
	assert.Equal(t, 0, stub.searchCalls)
	assert.NotEmpty(t, report.RunID)
}

func TestRunner_Run_AggregatesDegraded(t *testing.T) {
	stub := &stubClient{
		pageErrs: []error{
			nil,
			errors.NewSearchRequestFailedError(fmt.Errorf("connection refused")),
		},
		pages: []places.SearchPage{
			{Candidates: []places.Candidate{makeCandidate("p1", "Analog Coffee")}},
			{},
		},
		details: map[string]places.Detail{
			"p1": makeDetail("Analog Coffee", "1"),
		},
	}
	runner := newTestRunner(t, stub)

	areas := []Area{
		{Label: "capitol_hill", Location: "47.6205,-122.3212"},
		{Label: "ballard", Location: "47.6687,-122.3843"},
	}
	report := runner.Run(context.Background(), areas)

	// One healthy area, one degraded; both appear in the report.
	require.Len(t, report.Areas, 2)
	assert.Len(t, report.Shops, 1)
	assert.Equal(t, 1, report.DegradedCalls())
	assert.Empty(t, report.Areas[0].Degraded)
	assert.Len(t, report.Areas[1].Degraded, 1)
}
