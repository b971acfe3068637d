package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// savedSearchRequest is the body posted to the saved-search endpoint.
type savedSearchRequest struct {
	ScoutUsername string `json:"scoutUsername"`
	Query         string `json:"query"`
	NotifyEmail   bool   `json:"notifyEmail"`
}

// savedSearchRow is one entry of a saved-search listing.
type savedSearchRow struct {
	ID      string `json:"id"`
	ScoutID string `json:"scoutId"`
	Query   string `json:"query"`
}

// runSavedSearchRoundTrip creates a saved search, re-creates it to confirm
// deduplication, lists it back and deletes it again.
func runSavedSearchRoundTrip(ctx context.Context, config *Config, scoutUsername string, stats *Stats) error {
	log.Printf("💾 Running saved-search round trip for %s...", scoutUsername)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/searches"
	request := savedSearchRequest{
		ScoutUsername: scoutUsername,
		Query:         "fastest attackers for the smoke run",
		NotifyEmail:   true,
	}

	// Create
	created, status, err := postSavedSearch(ctx, client, url, request)
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}
	if status != StatusCreated {
		return fmt.Errorf("create returned HTTP %d, want %d", status, StatusCreated)
	}
	if created.Duplicate {
		return fmt.Errorf("first create reported duplicate")
	}

	// Re-create; the exact same query must dedupe
	duplicated, status, err := postSavedSearch(ctx, client, url, request)
	if err != nil {
		return fmt.Errorf("duplicate create failed: %w", err)
	}
	if status != StatusOK || !duplicated.Duplicate {
		return fmt.Errorf("duplicate create returned HTTP %d duplicate=%v", status, duplicated.Duplicate)
	}
	if duplicated.Saved.ID != created.Saved.ID {
		return fmt.Errorf("duplicate create returned a different search ID")
	}

	// List
	rows, err := listSavedSearches(ctx, client, url, scoutUsername)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}
	found := false
	for _, row := range rows {
		if row.ID == created.Saved.ID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("created search %s missing from listing of %d rows", created.Saved.ID, len(rows))
	}

	// Delete
	resp, err := client.Delete(ctx, url+"/"+created.Saved.ID)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read delete response: %w", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete returned HTTP %d", resp.StatusCode)
	}

	stats.SavedSearchRoundTrip = true
	log.Println("✅ Saved-search round trip completed")
	return nil
}

// postSavedSearch posts one saved-search create and parses the response.
func postSavedSearch(ctx context.Context, client *HTTPClient, url string, request savedSearchRequest) (*SavedSearchResponse, int, error) {
	resp, err := client.Post(ctx, url, request)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK && resp.StatusCode != StatusCreated {
		return nil, resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var response SavedSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}
	return &response, resp.StatusCode, nil
}

// listSavedSearches fetches a scout's saved searches.
func listSavedSearches(ctx context.Context, client *HTTPClient, url, scoutUsername string) ([]savedSearchRow, error) {
	resp, err := client.Get(ctx, url+"?scoutUsername="+scoutUsername)
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

	var rows []savedSearchRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return rows, nil
}
