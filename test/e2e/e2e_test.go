// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffee-scout/internal/common/config"
	httpclient "coffee-scout/internal/common/http"
	"coffee-scout/internal/common/logger"
	"coffee-scout/internal/common/observability"
	"coffee-scout/internal/export"
	"coffee-scout/internal/pipeline"
	"coffee-scout/internal/places"
	"coffee-scout/pkg/profile"
)

// ==========================
// Fake Places Provider
// ==========================

type searchScript struct {
	byToken map[string]string // pagetoken ("" = first page) -> envelope JSON
}

// fakeProvider serves scripted nearbysearch and details envelopes and
// records every place ID billed for a details lookup.
type fakeProvider struct {
	searches map[string]searchScript // location -> script
	details  map[string]string       // place_id -> envelope JSON

	detailCalls []string
}

func (p *fakeProvider) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "e2e-test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/nearbysearch/json":
			script, ok := p.searches[r.URL.Query().Get("location")]
			if !ok {
				t.Errorf("unexpected location %q", r.URL.Query().Get("location"))
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			body, ok := script.byToken[r.URL.Query().Get("pagetoken")]
			if !ok {
				t.Errorf("unexpected pagetoken %q", r.URL.Query().Get("pagetoken"))
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Write([]byte(body))

		case "/details/json":
			id := r.URL.Query().Get("place_id")
			p.detailCalls = append(p.detailCalls, id)
			body, ok := p.details[id]
			if !ok {
				t.Errorf("unexpected place_id %q", id)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Write([]byte(body))

		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func searchBody(errorMessage, nextToken string, results []map[string]interface{}) string {
	envelope := map[string]interface{}{"status": "OK", "results": results}
	if nextToken != "" {
		envelope["next_page_token"] = nextToken
	}
	if errorMessage != "" {
		envelope["error_message"] = errorMessage
	}
	data, _ := json.Marshal(envelope)
	return string(data)
}

func detailsBody(name, address, phone, website string) string {
	result := map[string]interface{}{"name": name}
	if address != "" {
		result["formatted_address"] = address
	}
	if phone != "" {
		result["formatted_phone_number"] = phone
	}
	if website != "" {
		result["website"] = website
	}
	data, _ := json.Marshal(map[string]interface{}{"status": "OK", "result": result})
	return string(data)
}

func place(id, name, vicinity string, types ...string) map[string]interface{} {
	return map[string]interface{}{
		"place_id": id,
		"name":     name,
		"vicinity": vicinity,
		"types":    types,
	}
}

// ==========================
// Full Pipeline Test
// ==========================

// TestFullPipeline wires the whole stack the way the binary does, runs it
// against a scripted provider, and checks the exported CSV.
func TestFullPipeline(t *testing.T) {
	provider := &fakeProvider{
		searches: map[string]searchScript{
			// Two pages; the second holds a tag-only match.
			"47.6205,-122.3212": {byToken: map[string]string{
				"": searchBody("", "ch-page-2", []map[string]interface{}{
					place("ph-analog", "Analog Coffee", "235 Summit Ave E", "cafe", "food"),
					place("ph-deli", "Joe's Deli", "1 Main St", "restaurant"),
				}),
				"ch-page-2": searchBody("", "", []map[string]interface{}{
					place("ph-milstead", "Milstead & Co", "770 N 34th St", "cafe"),
				}),
			}},
			// Single page carrying a cross-area duplicate and a phoneless shop.
			"47.6687,-122.3843": {byToken: map[string]string{
				"": searchBody("", "", []map[string]interface{}{
					place("bl-analog", "Analog Coffee", "5041 Ballard Ave", "cafe"),
					place("bl-works", "Ballard Coffee Works", "2060 NW Market St", "cafe"),
					place("bl-siphouse", "Sip House Espresso", "1400 NW 56th St", "cafe"),
				}),
			}},
			// The provider rejects this area outright.
			"47.6510,-122.3499": {byToken: map[string]string{
				"": searchBody("This API project was not found.", "", nil),
			}},
		},
		details: map[string]string{
			"ph-analog":   detailsBody("Analog Coffee", "235 Summit Ave E, Seattle", "(206) 678-2666", "https://analogcoffee.com"),
			"ph-milstead": detailsBody("Milstead & Co", "770 N 34th St, Seattle", "(206) 659-4814", ""),
			"bl-analog":   detailsBody("Analog Coffee", "5041 Ballard Ave NW", "(206) 555-0199", ""),
			"bl-works":    detailsBody("Ballard Coffee Works", "2060 NW Market St", "(206) 789-8777", "https://seattlecoffeeworks.com"),
			"bl-siphouse": detailsBody("Sip House Espresso", "1400 NW 56th St", "", ""),
		},
	}

	server := httptest.NewServer(provider.handler(t))
	defer server.Close()

	exportDir := t.TempDir()

	// Configuration, profile, and wiring follow the binary's boot path.
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
places:
  base_url: `+server.URL+`
  api_key: e2e-test-key
  page_token_delay: 1
  max_pages: 3
  rate_limit_qps: 1000
areas:
  - label: capitol_hill
    location: "47.6205,-122.3212"
  - label: ballard
    location: "47.6687,-122.3843"
  - label: fremont
    location: "47.6510,-122.3499"
export:
  label: seattle
  directory: `+exportDir+`
`), 0o644))

	cfg, err := config.LoadFromFile(cfgPath)
	require.NoError(t, err)

	profilePath := filepath.Join(t.TempDir(), "coffee.json")
	require.NoError(t, os.WriteFile(profilePath, []byte(`{
		"nameKeywords": ["coffee", "cafe", "espresso", "brew"],
		"categoryTags": ["cafe"],
		"fallbackTags": ["bakery"],
		"vicinityKeywords": ["coffee"],
		"fallbackVicinityKeywords": ["cafe"]
	}`), 0o644))
	prof, err := profile.Load(profilePath)
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	obs := observability.New("e2e")
	defer obs.Shutdown()

	placesClient := places.NewClient(
		&places.Config{
			BaseURL: cfg.Places.BaseURL,
			APIKey:  cfg.Places.APIKey,
			Radius:  cfg.Places.Radius,
			Keyword: cfg.Places.Keyword,
			Timeout: config.GetDuration(cfg.Places.Timeout),
		},
		httpclient.NewClient(config.GetDuration(cfg.Places.Timeout), cfg.Places.RateLimitQPS),
		log,
	)

	collector := pipeline.NewCollector(
		&pipeline.Config{
			MaxPages:       cfg.Places.MaxPages,
			PageTokenDelay: config.GetDuration(cfg.Places.PageTokenDelay),
		},
		placesClient, pipeline.NewFilter(prof), log, obs,
	)
	runner := pipeline.NewRunner(collector, log, obs)

	areas := make([]pipeline.Area, 0, len(cfg.Areas))
	for _, area := range cfg.Areas {
		areas = append(areas, pipeline.Area{Label: area.Label, Location: area.Location})
	}

	// --- Run ---

	report := runner.Run(context.Background(), areas)

	require.Len(t, report.Areas, 3)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Areas[0].PagesFetched)
	assert.Equal(t, 1, report.Areas[1].PagesFetched)

	// The rejected area degrades; the run never aborts.
	assert.Equal(t, 1, report.DegradedCalls())
	assert.Len(t, report.Areas[2].Degraded, 1)
	assert.Empty(t, report.Areas[2].Shops)

	// Joe's Deli was filtered out before any billed details call.
	assert.NotContains(t, provider.detailCalls, "ph-deli")
	assert.Len(t, provider.detailCalls, 5)

	// Raw accumulation still holds the duplicate and the phoneless record.
	require.Len(t, report.Shops, 5)

	// --- Dedup + Export ---

	shops := pipeline.Dedupe(report.Shops)

	path, err := export.WriteFile(cfg.Export.Directory, cfg.Export.Label, shops, report.Finished)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(exportDir, export.Filename("seattle", report.Finished)), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := export.Read(bytes.NewReader(data))
	require.NoError(t, err)

	// Duplicate name and sentinel-phone shop are gone; rows keep area
	// order, then arrival order within the area.
	require.Len(t, rows, 3)

	assert.Equal(t, "Analog Coffee", rows[0].Name)
	assert.Equal(t, "235 Summit Ave E, Seattle", rows[0].Address)
	assert.Equal(t, "https://analogcoffee.com", rows[0].Website)

	assert.Equal(t, "Milstead & Co", rows[1].Name)
	assert.Equal(t, places.Unknown, rows[1].Website)

	assert.Equal(t, "Ballard Coffee Works", rows[2].Name)
	assert.Equal(t, "(206) 789-8777", rows[2].Phone)
}
