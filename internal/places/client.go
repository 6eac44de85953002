// internal/places/client.go
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coffee-scout/internal/common/errors"
	httpclient "coffee-scout/internal/common/http"
	"coffee-scout/internal/common/logger"
	"coffee-scout/internal/common/metrics"
)

const (
	opSearch  = "nearbysearch"
	opDetails = "details"
)

// detailFields limits the details payload to the columns the export needs;
// every extra field is billed.
const detailFields = "name,formatted_address,formatted_phone_number,website"

// Client talks to the places provider. Both operations follow the same
// contract: the first return value is always usable (possibly empty), and a
// non-nil error marks the call as degraded rather than fatal.
type Client struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

// NewClient builds a provider client. A nil config falls back to
// LoadConfig defaults.
func NewClient(config *Config, client *httpclient.Client, log logger.Logger) *Client {
	if config == nil {
		config = LoadConfig()
	}
	return &Client{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{
			"component": "places",
		}),
	}
}

// SearchPage fetches one page of nearby results for location ("lat,lng").
// Pass the previous page's token to continue; tokens only become valid a
// moment after they are issued, so callers pace follow-up requests.
func (c *Client) SearchPage(ctx context.Context, location, pageToken string) (SearchPage, error) {
	searchURL := c.buildSearchURL(location, pageToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return SearchPage{}, c.recordSearchFailure("transport_error", errors.NewSearchRequestFailedError(err))
	}

	start := time.Now()
	resp, err := c.client.DoWithContext(ctx, req)
	metrics.ProviderRequestDuration.WithLabelValues(opSearch).Observe(time.Since(start).Seconds())
	if err != nil {
		if isTimeout(ctx, err) {
			return SearchPage{}, c.recordSearchFailure("timeout", errors.NewRequestTimeoutError(opSearch))
		}
		return SearchPage{}, c.recordSearchFailure("transport_error", errors.NewSearchRequestFailedError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("provider returned HTTP %d", resp.StatusCode)
		return SearchPage{}, c.recordSearchFailure("http_error", errors.NewSearchRequestFailedError(err))
	}

	var envelope searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return SearchPage{}, c.recordSearchFailure("decode_error", errors.NewResponseDecodeFailedError(opSearch, err))
	}

	// error_message wins over everything else in the envelope, even a 200
	// with results attached.
	if envelope.ErrorMessage != "" {
		return SearchPage{}, c.recordSearchFailure("provider_error",
			errors.NewProviderStatusError(opSearch, envelope.Status, envelope.ErrorMessage))
	}
	if envelope.Status != statusOK && envelope.Status != statusZeroResults {
		return SearchPage{}, c.recordSearchFailure("provider_error",
			errors.NewProviderStatusError(opSearch, envelope.Status, ""))
	}

	metrics.ProviderRequests.WithLabelValues(opSearch, "ok").Inc()

	page := SearchPage{
		Candidates: make([]Candidate, 0, len(envelope.Results)),
		NextToken:  envelope.NextPageToken,
	}
	for _, result := range envelope.Results {
		page.Candidates = append(page.Candidates, Candidate{
			PlaceID:  result.PlaceID,
			Name:     result.Name,
			Vicinity: result.Vicinity,
			Types:    result.Types,
		})
	}

	c.logger.Debug("search page fetched", map[string]interface{}{
		"location":   location,
		"candidates": len(page.Candidates),
		"hasNext":    page.NextToken != "",
	})

	return page, nil
}

// Details fetches the contact record for one place. Fields the provider
// omits come back as the Unknown sentinel.
func (c *Client) Details(ctx context.Context, placeID string) (Detail, error) {
	detailsURL := c.buildDetailsURL(placeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailsURL, nil)
	if err != nil {
		return emptyDetail(), c.recordDetailsFailure("transport_error", errors.NewDetailsRequestFailedError(placeID, err))
	}

	start := time.Now()
	resp, err := c.client.DoWithContext(ctx, req)
	metrics.ProviderRequestDuration.WithLabelValues(opDetails).Observe(time.Since(start).Seconds())
	if err != nil {
		if isTimeout(ctx, err) {
			return emptyDetail(), c.recordDetailsFailure("timeout", errors.NewRequestTimeoutError(opDetails))
		}
		return emptyDetail(), c.recordDetailsFailure("transport_error", errors.NewDetailsRequestFailedError(placeID, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("provider returned HTTP %d", resp.StatusCode)
		return emptyDetail(), c.recordDetailsFailure("http_error", errors.NewDetailsRequestFailedError(placeID, err))
	}

	var envelope detailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return emptyDetail(), c.recordDetailsFailure("decode_error", errors.NewResponseDecodeFailedError(opDetails, err))
	}

	if envelope.ErrorMessage != "" {
		return emptyDetail(), c.recordDetailsFailure("provider_error",
			errors.NewProviderStatusError(opDetails, envelope.Status, envelope.ErrorMessage))
	}
	if envelope.Status != statusOK {
		return emptyDetail(), c.recordDetailsFailure("provider_error",
			errors.NewProviderStatusError(opDetails, envelope.Status, ""))
	}

	metrics.ProviderRequests.WithLabelValues(opDetails, "ok").Inc()

	return Detail{
		Name:    orUnknown(envelope.Result.Name),
		Address: orUnknown(envelope.Result.FormattedAddress),
		Phone:   orUnknown(envelope.Result.FormattedPhoneNumber),
		Website: orUnknown(envelope.Result.Website),
	}, nil
}

func (c *Client) buildSearchURL(location, pageToken string) string {
	baseURL, _ := url.Parse(c.config.BaseURL + "/nearbysearch/json")
	params := url.Values{}
	params.Add("key", c.config.APIKey)
	params.Add("location", location)
	params.Add("radius", fmt.Sprintf("%d", c.config.Radius))
	params.Add("keyword", c.config.Keyword)
	if pageToken != "" {
		params.Add("pagetoken", pageToken)
	}
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}

func (c *Client) buildDetailsURL(placeID string) string {
	baseURL, _ := url.Parse(c.config.BaseURL + "/details/json")
	params := url.Values{}
	params.Add("key", c.config.APIKey)
	params.Add("place_id", placeID)
	params.Add("fields", detailFields)
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}

func (c *Client) recordSearchFailure(outcome string, err *errors.StandardError) error {
	metrics.ProviderRequests.WithLabelValues(opSearch, outcome).Inc()
	return err
}

func (c *Client) recordDetailsFailure(outcome string, err *errors.StandardError) error {
	metrics.ProviderRequests.WithLabelValues(opDetails, outcome).Inc()
	return err
}

func emptyDetail() Detail {
	return Detail{Name: Unknown, Address: Unknown, Phone: Unknown, Website: Unknown}
}

func isTimeout(ctx context.Context, err error) bool {
	return ctx.Err() == context.DeadlineExceeded ||
		strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "deadline") ||
		strings.Contains(err.Error(), "Client.Timeout")
}
