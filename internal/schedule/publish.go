package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// WriteResult is the outcome of a successful publish: the upstream response
// body (with the requested URL folded in), the schedule that was sent, and
// the resolved target URL.
type WriteResult struct {
	Response map[string]interface{}
	Schedule CompleteSchedule
	URL      string
}

// Publisher writes completed schedules to the save-schedule API with a
// single blocking PUT per schedule. It never retries; on a non-success
// response the computed schedule is packaged into a WriteScheduleFailedError
// instead of being lost.
type Publisher struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewPublisher creates a publisher targeting the given save-schedule base
// URL. The schedule's authUid is appended to form the request URL.
func NewPublisher(baseURL string, log zerolog.Logger) *Publisher {
	return &Publisher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("client", "save-schedule").Logger(),
	}
}

// Write delivers a completed schedule to the save-schedule API.
// Success means HTTP 200 with a JSON body; any other status, and any
// transport failure, yields a *WriteScheduleFailedError carrying the
// schedule that was sent.
func (p *Publisher) Write(ctx context.Context, schedule CompleteSchedule) (*WriteResult, error) {
	url := p.baseURL + schedule.AuthUID

	body, err := json.Marshal(schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build save-schedule request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	p.log.Debug().Str("url", url).Str("authUid", schedule.AuthUID).Msg("Writing schedule")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &WriteScheduleFailedError{
			StatusCode: 0,
			Reason:     err.Error(),
			Schedule:   schedule,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.log.Warn().
			Int("status", resp.StatusCode).
			Str("authUid", schedule.AuthUID).
			Msg("Save-schedule API returned non-success")
		return nil, &WriteScheduleFailedError{
			StatusCode: resp.StatusCode,
			Reason:     resp.Status,
			Schedule:   schedule,
		}
	}

	var upstream map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		return nil, fmt.Errorf("save-schedule API returned unparseable body: %w", err)
	}
	upstream["url_requested"] = url

	return &WriteResult{
		Response: upstream,
		Schedule: schedule,
		URL:      url,
	}, nil
}
