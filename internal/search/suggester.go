// Package search provides the debounced product suggestion dispatcher backing
// the storefront's type-ahead box.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

var (
	errSearchAPIRequired = errors.New("suggester: search API is required")

	defaultDebounceInterval = 300 * time.Millisecond
	defaultMinQueryLength   = 2
	dispatchTimeout         = 8 * time.Second
)

type searchAPI interface {
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
}

// Result is a completed suggestion dispatch. Query identifies which keystroke
// produced it; consumers compare it against their current input because
// dispatches are not cancelled and a slow response can land after a newer one.
type Result struct {
	Query    string           `json:"query"`
	Products []domain.Product `json:"products"`
	Err      error            `json:"-"`
	At       time.Time        `json:"at"`
}

type pending struct {
	query string
	timer Stopper
}

// Stopper cancels a scheduled dispatch. *time.Timer satisfies it.
type Stopper interface {
	Stop() bool
}

// SuggesterDeps configures a Suggester.
type SuggesterDeps struct {
	API              searchAPI
	DebounceInterval time.Duration
	MinQueryLength   int
	// Schedule runs fn after d. Tests inject a manual trigger.
	Schedule func(d time.Duration, fn func()) Stopper
	Clock    func() time.Time
	Logger   func(ctx context.Context, event string, fields map[string]any)
}

// Suggester coalesces rapid query updates per session into a single remote
// search call. Each update resets the session's timer, so only the query
// still standing after the debounce interval is dispatched.
type Suggester struct {
	api      searchAPI
	interval time.Duration
	minLen   int
	schedule func(d time.Duration, fn func()) Stopper
	clock    func() time.Time
	logger   func(ctx context.Context, event string, fields map[string]any)

	mu      sync.Mutex
	pending map[string]*pending
	latest  map[string]Result
}

// NewSuggester constructs a Suggester.
func NewSuggester(deps SuggesterDeps) (*Suggester, error) {
	if deps.API == nil {
		return nil, errSearchAPIRequired
	}
	if deps.DebounceInterval <= 0 {
		deps.DebounceInterval = defaultDebounceInterval
	}
	if deps.MinQueryLength <= 0 {
		deps.MinQueryLength = defaultMinQueryLength
	}
	if deps.Schedule == nil {
		deps.Schedule = func(d time.Duration, fn func()) Stopper { return time.AfterFunc(d, fn) }
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = func(context.Context, string, map[string]any) {}
	}
	return &Suggester{
		api:      deps.API,
		interval: deps.DebounceInterval,
		minLen:   deps.MinQueryLength,
		schedule: deps.Schedule,
		clock:    deps.Clock,
		logger:   deps.Logger,
		pending:  make(map[string]*pending),
		latest:   make(map[string]Result),
	}, nil
}

// Update records a keystroke. A query below the minimum length cancels any
// pending dispatch and clears the session's suggestions immediately.
func (s *Suggester) Update(ctx context.Context, sessionID, query string) {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	if prior, ok := s.pending[sessionID]; ok {
		prior.timer.Stop()
		delete(s.pending, sessionID)
	}
	if len(query) < s.minLen {
		delete(s.latest, sessionID)
		s.mu.Unlock()
		return
	}
	p := &pending{query: query}
	p.timer = s.schedule(s.interval, func() {
		s.dispatch(sessionID, p)
	})
	s.pending[sessionID] = p
	s.mu.Unlock()

	s.logger(ctx, "search.suggest.scheduled", map[string]any{
		"session_id": sessionID,
		"query":      query,
	})
}

// dispatch fires once the debounce window closes. It runs on the timer
// goroutine, so the remote call gets its own deadline rather than the
// originating request's context.
func (s *Suggester) dispatch(sessionID string, p *pending) {
	s.mu.Lock()
	if current, ok := s.pending[sessionID]; !ok || current != p {
		// Replaced or cancelled after the timer fired.
		s.mu.Unlock()
		return
	}
	delete(s.pending, sessionID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	products, err := s.api.SearchProducts(ctx, p.query)
	result := Result{Query: p.query, Products: products, Err: err, At: s.clock()}
	if err != nil {
		s.logger(ctx, "search.suggest.failed", map[string]any{
			"session_id": sessionID,
			"query":      p.query,
			"error":      err.Error(),
		})
		result.Products = nil
	}

	// Results apply in arrival order. Staleness is left to the consumer via
	// the Query tag rather than cancelling in-flight dispatches.
	s.mu.Lock()
	s.latest[sessionID] = result
	s.mu.Unlock()
}

// Latest returns the most recently arrived result for the session.
func (s *Suggester) Latest(sessionID string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.latest[sessionID]
	return r, ok
}

// Forget drops all state for a session.
func (s *Suggester) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[sessionID]; ok {
		p.timer.Stop()
		delete(s.pending, sessionID)
	}
	delete(s.latest, sessionID)
}
