package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// Delete performs a DELETE request
func (c *HTTPClient) Delete(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close response body: %v", err)
		}
	}()
	return io.ReadAll(resp.Body)
}

// searchRequest is the body posted to the search endpoint.
type searchRequest struct {
	ScoutUsername string `json:"scoutUsername"`
	Query         string `json:"query"`
}

// queryCase pairs a scout with one query to submit.
type queryCase struct {
	ScoutUsername string
	Query         string
}

// submitQueries submits search queries concurrently using a worker pool and
// verifies every response it gets back.
func submitQueries(ctx context.Context, config *Config, cases []queryCase, stats *Stats) error {
	log.Printf("📤 Submitting %d queries with %d workers...", len(cases), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/search"

	// Counters for statistics
	var (
		successful int64
		failed     int64
		submitted  int64
		violations int64
		returned   int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	caseChan := make(chan queryCase, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for qc := range caseChan {
				select {
				case <-ctx.Done():
					return
				default:
					response, err := submitSingleQuery(ctx, client, url, qc)

					atomic.AddInt64(&submitted, 1)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Query %q for %s failed: %v", qc.Query, qc.ScoutUsername, err)
						}
					} else {
						atomic.AddInt64(&successful, 1)
						atomic.AddInt64(&returned, int64(len(response.Results)))
						if verr := verifyResponse(qc, response); verr != nil {
							atomic.AddInt64(&violations, 1)
							log.Printf("⚠️  Ordering violation for %q: %v", qc.Query, verr)
						}
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (success: %d, failed: %d)",
								total, len(cases), succ, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (success: %d, failed: %d)",
								total, len(cases), succ, fail)
						}
					}
				}
			}
		}()
	}

	// Send cases to workers
	go func() {
		defer close(caseChan)
		for _, qc := range cases {
			select {
			case <-ctx.Done():
				return
			case caseChan <- qc:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.QueriesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.QueriesSuccessful = int(atomic.LoadInt64(&successful))
	stats.QueriesFailed = int(atomic.LoadInt64(&failed))
	stats.OrderingViolations = int(atomic.LoadInt64(&violations))
	stats.ResultsReturned = int(atomic.LoadInt64(&returned))

	log.Printf(`✅ Query submission completed:
   Successful: %d
   Failed: %d
   Ordering violations: %d
`, stats.QueriesSuccessful, stats.QueriesFailed, stats.OrderingViolations)

	if stats.OrderingViolations > 0 {
		return fmt.Errorf("%d responses came back out of order", stats.OrderingViolations)
	}
	return nil
}

// submitSingleQuery submits one search query and parses the response.
func submitSingleQuery(ctx context.Context, client *HTTPClient, url string, qc queryCase) (*SearchResponse, error) {
	resp, err := client.Post(ctx, url, searchRequest{ScoutUsername: qc.ScoutUsername, Query: qc.Query})
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var response SearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !response.OK {
		return nil, fmt.Errorf("response not ok: %s", string(body))
	}

	return &response, nil
}
