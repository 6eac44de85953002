// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client wraps the standard HTTP client with a per-call timeout and a
// token-bucket throttle, keeping provider calls under a configured rate.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a throttled client. qps <= 0 disables the throttle.
func NewClient(timeout time.Duration, qps float64) *Client {
	var limiter *rate.Limiter
	if qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(qps), 1)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.DoWithContext(req.Context(), req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}
