package planner

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithModel sets the model identifier sent with every plan request.
func WithModel(model string) Option {
	return func(c *HTTPClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *HTTPClient) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// WithRateLimit caps outgoing plan requests per second.
func WithRateLimit(perSec float64) Option {
	return func(c *HTTPClient) {
		if perSec > 0 {
			burst := int(perSec)
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
		}
	}
}
