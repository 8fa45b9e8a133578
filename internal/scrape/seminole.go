// Package scrape queries the Seminole County (FL) official records search
// API and maps vendor rows into canonical records.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"countyscan/internal/config"
	"countyscan/internal/domain"
	"countyscan/internal/httpx"
	"countyscan/internal/retry"
)

// The vendor truncates result sets at 2000 rows and exposes no pagination;
// hitting the cap means the data may be incomplete.
const vendorRowCap = 2000

const searchWindowStart = "1/1/1913"

type Client struct {
	baseURL string
	http    *http.Client
	policy  retry.Policy
	now     func() time.Time
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		baseURL: cfg.ScrapeBaseURL,
		http:    httpx.ExternalHTTPClient(),
		policy: retry.Policy{
			MaxAttempts: cfg.ScrapeMaxAttempts,
			BaseDelay:   cfg.ScrapeRetryBase(),
			Multiplier:  cfg.ScrapeRetryMultiplier,
		},
		now: time.Now,
	}
}

// SearchByName queries the records API for a party name. Zero matches is a
// valid empty result. Transport failures and 5xx/429 responses are retried
// under the client's policy; exhausting the attempts surfaces the last
// error.
func (c *Client) SearchByName(ctx context.Context, name string) ([]domain.Record, error) {
	reqURL, err := c.buildSearchURL(name)
	if err != nil {
		return nil, err
	}
	log.Printf("scrape search name=%q url=%s", name, c.baseURL)

	var body []byte
	err = c.policy.Do("scrape search", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("executing request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			body = data
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("records API returned %d", resp.StatusCode)
		default:
			return retry.Permanent(fmt.Errorf("records API returned %d: %s", resp.StatusCode, truncate(data, 256)))
		}
	})
	if err != nil {
		return nil, err
	}

	items, err := decodeVendorItems(body)
	if err != nil {
		return nil, err
	}
	if len(items) >= vendorRowCap {
		log.Printf("scrape hit vendor row cap=%d; results may be truncated, no pagination available", vendorRowCap)
	}

	records := make([]domain.Record, 0, len(items))
	dropped := 0
	for _, item := range items {
		rec, ok := convertVendorRecord(item)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	log.Printf("scrape done name=%q fetched=%d kept=%d dropped=%d", name, len(items), len(records), dropped)
	return records, nil
}

func (c *Client) buildSearchURL(name string) (string, error) {
	criteria := newSearchCriteria(normalizeName(name), c.now())
	criteriaArray, err := json.Marshal([]searchCriteria{criteria})
	if err != nil {
		return "", fmt.Errorf("marshaling criteria: %w", err)
	}
	return c.baseURL + "?criteria_array=" + url.QueryEscape(string(criteriaArray)), nil
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
