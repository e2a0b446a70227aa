// Package timeline provides the client for the internal timeline API that
// serves historical engagement events per account. Credential handling lives
// behind that API; this client only carries the service api key.
package timeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/crowdfire/publishtimer/internal/schedule"
)

const (
	// defaultCount is how many events one Fetch gathers when the caller
	// does not say otherwise; it matches the timeline API's page size * 1.
	defaultCount = 200
	// pageSize is the timeline API's maximum events per request.
	pageSize = 200
	// maxPages caps pagination so a misbehaving upstream cannot loop us.
	maxPages = 16
)

// Client fetches engagement events from the internal timeline API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	store   schedule.RecordStore // optional - if nil, persist-through is disabled
	log     zerolog.Logger
}

// NewClient creates a timeline API client.
// store is optional; when set, fetched events can be persisted through to it.
func NewClient(baseURL, apiKey string, store schedule.RecordStore, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		store:   store,
		log:     log.With().Str("client", "timeline").Logger(),
	}
}

// Fetch gathers up to opts.Count events for an account, paginating with
// max_id until the timeline is exhausted. When opts.Persist is set and a
// record store is attached, fetched events are persisted as a side effect;
// persistence failures are logged but do not fail the fetch.
func (c *Client) Fetch(ctx context.Context, accountID int64, opts schedule.FetchOptions) ([]schedule.RawEvent, error) {
	count := opts.Count
	if count <= 0 {
		count = defaultCount
	}

	var all []schedule.RawEvent
	var maxID int64
	for page := 0; page < maxPages && len(all) < count; page++ {
		batch, err := c.fetchPage(ctx, accountID, maxID)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		// Timeline pages are newest-first; continue below the oldest seen id.
		maxID = batch[len(batch)-1].ID - 1
	}
	if len(all) > count {
		all = all[:count]
	}

	c.log.Debug().Int64("accountId", accountID).Int("events", len(all)).Msg("Timeline fetched")

	if opts.Persist && c.store != nil {
		if err := c.store.Persist(ctx, accountID, all); err != nil {
			c.log.Warn().Err(err).Int64("accountId", accountID).Msg("Failed to persist fetched events")
		}
	}

	return all, nil
}

// fetchPage requests one timeline page. maxID <= 0 means the newest page.
func (c *Client) fetchPage(ctx context.Context, accountID, maxID int64) ([]schedule.RawEvent, error) {
	u, err := url.Parse(c.baseURL + "/internal/timeline.json")
	if err != nil {
		return nil, fmt.Errorf("invalid timeline API base URL: %w", err)
	}
	q := u.Query()
	q.Set("user_id", strconv.FormatInt(accountID, 10))
	q.Set("count", strconv.Itoa(pageSize))
	q.Set("trim_user", "true")
	if maxID > 0 {
		q.Set("max_id", strconv.FormatInt(maxID, 10))
	}
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build timeline request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("timeline API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timeline API returned status %d for account %d", resp.StatusCode, accountID)
	}

	var events []schedule.RawEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to parse timeline response: %w", err)
	}
	return events, nil
}
