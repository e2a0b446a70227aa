package schedule

import (
	"context"

	"github.com/rs/zerolog"
)

// FetchOptions controls a live timeline fetch.
type FetchOptions struct {
	Count   int  // maximum events to fetch; 0 uses the source default
	Persist bool // ask the source to also persist fetched events to the record store
}

// TimelineSource fetches raw engagement events from the live timeline API.
// Pagination, rate limiting and credentials are entirely its concern.
type TimelineSource interface {
	Fetch(ctx context.Context, accountID int64, opts FetchOptions) ([]RawEvent, error)
}

// RecordStore is the persisted engagement-event collection, tried before the
// live source.
type RecordStore interface {
	Query(ctx context.Context, accountID int64) ([]RawEvent, error)
	Persist(ctx context.Context, accountID int64, events []RawEvent) error
}

// ScheduleWriter delivers a completed schedule to the external store.
type ScheduleWriter interface {
	Write(ctx context.Context, schedule CompleteSchedule) (*WriteResult, error)
}

// Params configures one pipeline run. Zero values are meaningful; use
// DefaultParams for the documented defaults.
type Params struct {
	AuthUID         string
	UseStore        bool // try the record store first
	UseLiveSource   bool // fall back to the live source if the store has no data
	PersistLiveData bool // persist live-fetched data via the source collaborator
}

// DefaultParams returns run parameters with every data-source option
// enabled, matching the publish endpoint's defaults.
func DefaultParams(authUID string) Params {
	return Params{
		AuthUID:         authUID,
		UseStore:        true,
		UseLiveSource:   true,
		PersistLiveData: true,
	}
}

// RunResult is the outcome of a full pipeline run: the save-schedule API's
// response and the schedule that was prepared and sent.
type RunResult struct {
	Response         map[string]interface{} `json:"response_from_save_schedule_api"`
	SchedulePrepared CompleteSchedule       `json:"schedule_prepared"`
}

// Service runs the scheduling pipeline for one account at a time:
// prepare data (store first, live source as fallback), normalize, compute,
// complete, publish. The service holds no per-account state; concurrent runs
// for different accounts are safe, runs for the same account are not
// serialized here.
type Service struct {
	store  RecordStore    // optional; nil disables the store lookup
	source TimelineSource // optional; nil disables the live fallback
	writer ScheduleWriter
	log    zerolog.Logger
}

// NewService wires the pipeline's collaborators.
func NewService(store RecordStore, source TimelineSource, writer ScheduleWriter, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		source: source,
		writer: writer,
		log:    log.With().Str("service", "schedule").Logger(),
	}
}

// Run executes the pipeline once. Normalization errors abort the run and
// surface unchanged; a publish failure surfaces as *WriteScheduleFailedError
// so the computed schedule is never silently lost.
func (s *Service) Run(ctx context.Context, p Params) (*RunResult, error) {
	accountID, err := ParseAccountID(p.AuthUID)
	if err != nil {
		return nil, err
	}

	events, err := s.prepareEvents(ctx, accountID, p)
	if err != nil {
		return nil, err
	}

	records, err := Normalize(accountID, events)
	if err != nil {
		return nil, err
	}

	complete := Complete(Compute(accountID, records))

	result, err := s.writer.Write(ctx, complete)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("authUid", complete.AuthUID).
		Int("events", len(events)).
		Str("url", result.URL).
		Msg("Schedule published")

	return &RunResult{
		Response:         result.Response,
		SchedulePrepared: result.Schedule,
	}, nil
}

// prepareEvents gathers the raw events for one run. The store is consulted
// first; the live source is hit only when the store yields nothing. An empty
// result is not an error — the pipeline has a defined empty-input terminal
// case and the completer still produces a full default schedule.
func (s *Service) prepareEvents(ctx context.Context, accountID int64, p Params) ([]RawEvent, error) {
	var events []RawEvent

	if p.UseStore && s.store != nil {
		stored, err := s.store.Query(ctx, accountID)
		if err != nil {
			// Stale store trouble should not block a live recompute.
			s.log.Warn().Err(err).Int64("accountId", accountID).Msg("Record store query failed")
		} else {
			events = stored
		}
	}

	if len(events) == 0 && p.UseLiveSource && s.source != nil {
		fetched, err := s.source.Fetch(ctx, accountID, FetchOptions{Persist: p.PersistLiveData})
		if err != nil {
			return nil, err
		}
		events = fetched
	}

	return events, nil
}
