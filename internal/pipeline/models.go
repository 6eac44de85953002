// internal/pipeline/models.go
package pipeline

import (
	"time"

	"coffee-scout/internal/common/errors"
)

// Shop is the flattened {name, address, phone, website} tuple appended to
// the accumulating result set. Immutable once created.
type Shop struct {
	Name    string
	Address string
	Phone   string
	Website string
}

// Area names one search center.
type Area struct {
	Label    string
	Location string // "lat,lng"
}

// AreaResult is everything one area's collection produced: the enriched
// shops in arrival order, plus every degraded provider call along the way.
type AreaResult struct {
	Area         Area
	Shops        []Shop
	Degraded     []*errors.StandardError
	PagesFetched int
}

// Report is the outcome of a full run across all areas. Shops is the plain
// concatenation in area order; dedup happens after collection, not during.
type Report struct {
	RunID    string
	Shops    []Shop
	Areas    []AreaResult
	Started  time.Time
	Finished time.Time
}

// DegradedCalls counts degraded provider calls across all areas.
func (r Report) DegradedCalls() int {
	total := 0
	for _, area := range r.Areas {
		total += len(area.Degraded)
	}
	return total
}
