package search_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kushal-tech/houseofneelam/internal/domain"
	"github.com/kushal-tech/houseofneelam/internal/search"
)

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.stopped = true
	return true
}

// manualScheduler captures scheduled dispatches so tests fire them on demand.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) schedule(d time.Duration, fn func()) search.Stopper {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &manualTimer{fn: fn}
	s.timers = append(s.timers, timer)
	return timer
}

func (s *manualScheduler) fire(i int) {
	s.mu.Lock()
	timer := s.timers[i]
	s.mu.Unlock()
	timer.fn()
}

func (s *manualScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

type recordingSearchAPI struct {
	mu      sync.Mutex
	queries []string
	results map[string][]domain.Product
	block   map[string]chan struct{}
	err     error
}

func (a *recordingSearchAPI) SearchProducts(ctx context.Context, q string) ([]domain.Product, error) {
	a.mu.Lock()
	a.queries = append(a.queries, q)
	gate := a.block[q]
	a.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if a.err != nil {
		return nil, a.err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.results[q], nil
}

func (a *recordingSearchAPI) calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.queries...)
}

func newSuggester(t *testing.T, remote *recordingSearchAPI, sched *manualScheduler) *search.Suggester {
	t.Helper()
	s, err := search.NewSuggester(search.SuggesterDeps{
		API:      remote,
		Schedule: sched.schedule,
	})
	require.NoError(t, err)
	return s
}

func TestSuggesterCoalescesRapidKeystrokes(t *testing.T) {
	t.Parallel()

	remote := &recordingSearchAPI{results: map[string][]domain.Product{
		"rin": {{ProductID: "r1", Name: "Gold Ring"}},
	}}
	sched := &manualScheduler{}
	s := newSuggester(t, remote, sched)
	ctx := context.Background()

	// Three keystrokes inside one debounce window: only the last stands.
	s.Update(ctx, "sess-1", "ri")
	s.Update(ctx, "sess-1", "rin")
	require.Equal(t, 2, sched.count())
	require.True(t, sched.timers[0].stopped)

	sched.fire(1)
	require.Equal(t, []string{"rin"}, remote.calls())

	result, ok := s.Latest("sess-1")
	require.True(t, ok)
	require.Equal(t, "rin", result.Query)
	require.Len(t, result.Products, 1)
}

func TestSuggesterShortQueryClearsState(t *testing.T) {
	t.Parallel()

	remote := &recordingSearchAPI{results: map[string][]domain.Product{
		"ring": {{ProductID: "r1"}},
	}}
	sched := &manualScheduler{}
	s := newSuggester(t, remote, sched)
	ctx := context.Background()

	s.Update(ctx, "sess-1", "ring")
	sched.fire(0)
	_, ok := s.Latest("sess-1")
	require.True(t, ok)

	// A single character drops below the minimum length: pending work is
	// cancelled and stale suggestions disappear immediately.
	s.Update(ctx, "sess-1", "r")
	_, ok = s.Latest("sess-1")
	require.False(t, ok)
	require.Equal(t, []string{"ring"}, remote.calls())
}

func TestSuggesterReplacedTimerNeverDispatches(t *testing.T) {
	t.Parallel()

	remote := &recordingSearchAPI{}
	sched := &manualScheduler{}
	s := newSuggester(t, remote, sched)
	ctx := context.Background()

	s.Update(ctx, "sess-1", "ring")
	s.Update(ctx, "sess-1", "rings")

	// Firing the replaced timer anyway (a real timer can win the race with
	// Stop) must not dispatch the stale query.
	sched.fire(0)
	require.Empty(t, remote.calls())

	sched.fire(1)
	require.Equal(t, []string{"rings"}, remote.calls())
}

func TestSuggesterSessionsAreIndependent(t *testing.T) {
	t.Parallel()

	remote := &recordingSearchAPI{results: map[string][]domain.Product{
		"ring":  {{ProductID: "r1"}},
		"chain": {{ProductID: "c1"}},
	}}
	sched := &manualScheduler{}
	s := newSuggester(t, remote, sched)
	ctx := context.Background()

	s.Update(ctx, "sess-a", "ring")
	s.Update(ctx, "sess-b", "chain")
	sched.fire(0)
	sched.fire(1)

	a, ok := s.Latest("sess-a")
	require.True(t, ok)
	require.Equal(t, "ring", a.Query)

	b, ok := s.Latest("sess-b")
	require.True(t, ok)
	require.Equal(t, "chain", b.Query)
}

func TestSuggesterSlowResponseOverwritesNewer(t *testing.T) {
	t.Parallel()

	slowGate := make(chan struct{})
	remote := &recordingSearchAPI{
		results: map[string][]domain.Product{
			"ring":  {{ProductID: "r1"}},
			"rings": {{ProductID: "r1"}, {ProductID: "r2"}},
		},
		block: map[string]chan struct{}{"ring": slowGate},
	}
	sched := &manualScheduler{}
	s := newSuggester(t, remote, sched)
	ctx := context.Background()

	// First dispatch goes in flight and stalls.
	s.Update(ctx, "sess-1", "ring")
	done := make(chan struct{})
	go func() {
		sched.fire(0)
		close(done)
	}()
	require.Eventually(t, func() bool {
		return len(remote.calls()) == 1
	}, time.Second, time.Millisecond)

	// Second dispatch completes while the first is still in flight.
	s.Update(ctx, "sess-1", "rings")
	sched.fire(1)
	result, ok := s.Latest("sess-1")
	require.True(t, ok)
	require.Equal(t, "rings", result.Query)

	// The slow response lands last and wins: results apply in arrival order
	// with no cancellation. The Query tag is how consumers detect the stale
	// overwrite.
	close(slowGate)
	<-done
	result, ok = s.Latest("sess-1")
	require.True(t, ok)
	require.Equal(t, "ring", result.Query)
	require.Len(t, result.Products, 1)
}

func TestSuggesterDispatchFailureIsTagged(t *testing.T) {
	t.Parallel()

	remote := &recordingSearchAPI{err: errors.New("search backend down")}
	sched := &manualScheduler{}
	s := newSuggester(t, remote, sched)

	s.Update(context.Background(), "sess-1", "ring")
	sched.fire(0)

	result, ok := s.Latest("sess-1")
	require.True(t, ok)
	require.Error(t, result.Err)
	require.Empty(t, result.Products)
}

func TestSuggesterForget(t *testing.T) {
	t.Parallel()

	remote := &recordingSearchAPI{}
	sched := &manualScheduler{}
	s := newSuggester(t, remote, sched)

	s.Update(context.Background(), "sess-1", "ring")
	s.Forget("sess-1")
	require.True(t, sched.timers[0].stopped)

	sched.fire(0)
	require.Empty(t, remote.calls())
	_, ok := s.Latest("sess-1")
	require.False(t, ok)
}
