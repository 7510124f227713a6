// internal/search/controller/controller.go
package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	gatewayerrors "jobsearch-gateway/internal/common/errors"
	"jobsearch-gateway/internal/common/logger"
	"jobsearch-gateway/internal/common/metrics"
	"jobsearch-gateway/internal/common/observability"
	"jobsearch-gateway/internal/search/listing"
	"jobsearch-gateway/internal/search/nlparse"
	"jobsearch-gateway/internal/search/paging"
	"jobsearch-gateway/internal/search/query"
	"jobsearch-gateway/internal/search/smartmatch"
	"jobsearch-gateway/internal/search/state"
	"jobsearch-gateway/internal/search/vocab"
)

// ListingClient is the listing API boundary the controller fetches through.
type ListingClient interface {
	Search(ctx context.Context, params []query.Param) (*listing.Result, error)
}

// ParseClient is the natural-language parse collaborator boundary.
type ParseClient interface {
	Parse(ctx context.Context, utterance string) (*nlparse.Response, error)
}

// FacetMode selects facet cardinality: single-select facets replace,
// multi-select facets toggle.
type FacetMode string

const (
	FacetSingle FacetMode = "single"
	FacetMulti  FacetMode = "multi"
)

// Phase is the fetch orchestrator's state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSettled Phase = "settled"
	PhaseFailed  Phase = "failed"
)

// Options are the controller tunables, fixed for the controller's lifetime.
// Observer is optional; a nil observer records nothing.
type Options struct {
	PageSize        int
	Debounce        time.Duration
	MaxVisiblePages int
	MergePolicy     nlparse.MergePolicy
	FacetMode       FacetMode
	Observer        *observability.Observability
}

// Snapshot is a read-only view handed to renderers. Jobs and Total come from
// the orchestrator's last committed result; they are derived outputs, not
// part of the filter state.
type Snapshot struct {
	Filters     *state.FilterState `json:"filters"`
	Phase       Phase              `json:"phase"`
	Jobs        []listing.Job      `json:"jobs"`
	Total       int                `json:"total"`
	TotalPages  int                `json:"totalPages"`
	Window      []int              `json:"window"`
	Explanation string             `json:"explanation"`
}

// Controller owns one session's filter state and is its only mutator. All
// state transitions run under one lock so user-triggered mutations are
// totally ordered; only fetch completions arrive asynchronously, and those
// are sequence-checked so the newest issued request always wins.
type Controller struct {
	mu      sync.Mutex
	opts    Options
	state   *state.FilterState
	listing ListingClient
	parser  ParseClient
	logger  logger.Logger

	debouncer *debouncer

	// fetch orchestration
	seq         uint64
	cancelFetch context.CancelFunc
	phase       Phase
	jobs        []listing.Job
	total       int
	totalKnown  bool

	explanation string
	parseBusy   bool
	closed      bool
}

func New(listingClient ListingClient, parseClient ParseClient, opts Options, log logger.Logger) *Controller {
	c := &Controller{
		opts:    opts,
		state:   state.New(),
		listing: listingClient,
		parser:  parseClient,
		logger:  log.WithFields(map[string]interface{}{"component": "search-controller"}),
		phase:   PhaseIdle,
		jobs:    []listing.Job{},
	}
	c.debouncer = newDebouncer(opts.Debounce, c.onTextSettled)
	return c
}

// SetSearchText feeds the raw keyword input. Nothing propagates until the
// value settles; each settle runs smart-match and then exactly one fetch.
func (c *Controller) SetSearchText(raw string) {
	c.debouncer.Set(raw)
}

// onTextSettled is the debouncer's single emission per quiet period.
func (c *Controller) onTextSettled(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	term := strings.TrimSpace(raw)
	if term != "" {
		if inf, ok := smartmatch.Infer(term); ok {
			// Promote to a structured facet and clear the text in the same
			// transaction: the signal lives in exactly one place.
			c.state.ReplaceFacet(inf.Facet, inf.Value)
			c.state.FreeText = ""
			c.state.Page = 1
			metrics.SmartMatchPromotions.WithLabelValues(string(inf.Facet)).Inc()
			c.logger.Debug("smart-match promoted term", map[string]interface{}{
				"term":  term,
				"facet": string(inf.Facet),
				"value": inf.Value,
			})
			c.fetchLocked()
			return
		}
	}

	if c.state.FreeText == term {
		return
	}
	c.state.FreeText = term
	c.state.Page = 1
	c.fetchLocked()
}

// SelectFacet applies a manual facet selection: replace in single-select
// mode, toggle in multi-select mode.
func (c *Controller) SelectFacet(f vocab.Facet, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.opts.FacetMode == FacetSingle {
		c.state.ReplaceFacet(f, value)
	} else {
		c.state.ToggleFacet(f, value)
	}
	c.state.Page = 1
	c.fetchLocked()
}

// SetSalaryRange sets the inclusive USD bounds. A nil bound clears it.
// Contradictory bounds are accepted; the listing API answers them with an
// empty result set.
func (c *Controller) SetSalaryRange(min, max *int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.SalaryMin = min
	c.state.SalaryMax = max
	c.state.Page = 1
	c.fetchLocked()
}

// SetCompositeLocation sets the "City, State" single-field variant.
func (c *Controller) SetCompositeLocation(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.Location = state.Location{CityState: value}
	c.state.Page = 1
	c.fetchLocked()
}

// SetLocationFields sets the independent city/state/country field variant.
func (c *Controller) SetLocationFields(city, stateCode, country string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.Location = state.Location{City: city, State: stateCode, Country: country}
	c.state.Page = 1
	c.fetchLocked()
}

// AddSkill selects a canonical skill.
func (c *Controller) AddSkill(skill state.SkillRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	before := len(c.state.Skills)
	c.state.AddSkill(skill)
	if len(c.state.Skills) == before {
		return
	}
	c.state.Page = 1
	c.fetchLocked()
}

// RemoveSkill deselects a skill by id.
func (c *Controller) RemoveSkill(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	before := len(c.state.Skills)
	c.state.RemoveSkill(id)
	if len(c.state.Skills) == before {
		return
	}
	c.state.Page = 1
	c.fetchLocked()
}

// SetPage moves the pagination cursor. Moves outside [1, totalPages] are
// no-ops and trigger nothing.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	totalPages := -1
	if c.totalKnown {
		totalPages = paging.TotalPages(c.total, c.opts.PageSize)
	}
	if c.state.SetPage(page, totalPages) {
		c.fetchLocked()
	}
}

// ClearFilters resets the session to its initial empty state. Idempotent.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	// A keystroke still sitting in the debounce window must not outlive the
	// clear; its raw value belongs to the discarded state.
	c.debouncer.Cancel()
	wasEmpty := c.state.Empty() && c.state.Page == 1
	c.state.Reset()
	c.explanation = ""
	if !wasEmpty {
		c.fetchLocked()
	}
}

// Refresh issues a fetch for the current state. Used at session start to
// load the first page.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.fetchLocked()
}

// SubmitNaturalQuery sends an utterance to the parse collaborator and merges
// the proposal under the configured policy. Single-flight: a submission while
// another is outstanding is rejected. On failure the filter state is left
// untouched and the returned explanation describes the failure.
func (c *Controller) SubmitNaturalQuery(ctx context.Context, utterance string) (string, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", gatewayerrors.NewSessionNotFoundError("closed")
	}
	if c.parseBusy {
		c.mu.Unlock()
		metrics.ParseRequestsTotal.WithLabelValues("rejected").Inc()
		return "", gatewayerrors.NewParseInFlightError()
	}
	c.parseBusy = true
	c.mu.Unlock()

	resp, err := c.parser.Parse(ctx, utterance)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.parseBusy = false

	// The session may have been torn down while the parse was in flight.
	if c.closed {
		return "", gatewayerrors.NewSessionNotFoundError("closed")
	}

	if err != nil {
		metrics.ParseRequestsTotal.WithLabelValues("failed").Inc()
		c.logger.Warn("natural-language parse failed", map[string]interface{}{
			"utterance": utterance,
			"error":     err.Error(),
		})
		c.explanation = "Could not understand that query; showing previous results."
		return c.explanation, err
	}

	metrics.ParseRequestsTotal.WithLabelValues("ok").Inc()
	c.debouncer.Cancel()
	c.state.NaturalQuery = utterance
	nlparse.Apply(c.state, resp.Filters, c.opts.MergePolicy)
	c.explanation = resp.Explanation
	c.fetchLocked()
	return c.explanation, nil
}

// fetchLocked starts one sequenced fetch for the state as it is right now.
// Caller holds the lock. A newer fetch supersedes any in flight: the older
// request is canceled and its result, should it still arrive, is discarded
// by the sequence check.
func (c *Controller) fetchLocked() {
	c.seq++
	mySeq := c.seq
	params := query.Serialize(c.state, c.opts.PageSize)

	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelFetch = cancel
	c.phase = PhaseLoading

	go func() {
		started := time.Now()
		result, err := c.listing.Search(ctx, params)
		elapsed := time.Since(started)
		cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		if mySeq != c.seq || c.closed {
			metrics.StaleResponsesDiscarded.Inc()
			c.logger.Debug("discarding superseded response", map[string]interface{}{
				"seq":    mySeq,
				"newest": c.seq,
			})
			return
		}

		if err != nil {
			// Keep the last good result set; a failed fetch degrades, it
			// never blanks the display.
			metrics.SearchFetchesTotal.WithLabelValues("failed").Inc()
			metrics.SearchFetchDuration.WithLabelValues("failed").Observe(elapsed.Seconds())
			c.opts.Observer.RecordFetch(ctx, "failed")
			c.opts.Observer.RecordFetchDuration(ctx, elapsed, "failed")
			c.phase = PhaseFailed
			c.logger.Warn("listing fetch failed", map[string]interface{}{
				"seq":   mySeq,
				"error": err.Error(),
			})
			return
		}

		metrics.SearchFetchesTotal.WithLabelValues("ok").Inc()
		metrics.SearchFetchDuration.WithLabelValues("ok").Observe(elapsed.Seconds())
		c.opts.Observer.RecordFetch(ctx, "ok")
		c.opts.Observer.RecordFetchDuration(ctx, elapsed, "ok")
		c.phase = PhaseSettled
		c.jobs = result.Jobs
		c.total = result.Total
		c.totalKnown = true
	}()
}

// Snapshot returns a consistent read-only view of the session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	jobs := make([]listing.Job, len(c.jobs))
	copy(jobs, c.jobs)

	return Snapshot{
		Filters:     c.state.Clone(),
		Phase:       c.phase,
		Jobs:        jobs,
		Total:       c.total,
		TotalPages:  paging.TotalPages(c.total, c.opts.PageSize),
		Window:      paging.Window(c.state.Page, c.total, c.opts.PageSize, c.opts.MaxVisiblePages),
		Explanation: c.explanation,
	}
}

// Close discards the session: pending debounce emissions are dropped and any
// in-flight fetch is canceled. Further mutations are ignored.
func (c *Controller) Close() {
	c.debouncer.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
}
