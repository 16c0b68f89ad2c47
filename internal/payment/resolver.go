// Package payment resolves the final outcome of a hosted payment session
// after the processor redirects the customer back to the storefront.
package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kushal-tech/houseofneelam/internal/api"
	"github.com/kushal-tech/houseofneelam/internal/domain"
)

// State enumerates the resolver's states. checking and processing are
// transient; the rest are terminal.
type State string

const (
	// StateChecking is the initial state before the first poll returns.
	StateChecking State = "checking"
	// StateProcessing means a poll returned a non-terminal outcome.
	StateProcessing State = "processing"
	// StateSuccess means the processor captured the payment.
	StateSuccess State = "success"
	// StateFailed means the session reached a terminal non-paid outcome.
	StateFailed State = "failed"
	// StateTimeout means the attempt budget ran out without resolution.
	StateTimeout State = "timeout"
	// StateError means a transport failure interrupted polling.
	StateError State = "error"
)

// ErrMissingSessionID is returned when the return URL carries no session id.
var ErrMissingSessionID = errors.New("payment: missing session id")

var (
	errResolverAPIRequired    = errors.New("payment resolver: status api is required")
	errResolverOrdersRequired = errors.New("payment resolver: order fetcher is required")
)

const (
	defaultPollInterval = 2 * time.Second
	defaultMaxAttempts  = 5
)

type statusAPI interface {
	HostedSessionStatus(ctx context.Context, token, sessionID string) (api.SessionStatus, error)
}

type orderFetcher interface {
	GetOrder(ctx context.Context, token, orderID string) (domain.Order, error)
}

// ResolverDeps wires the remote endpoints and pacing knobs.
type ResolverDeps struct {
	API          statusAPI
	Orders       orderFetcher
	PollInterval time.Duration
	MaxAttempts  int
	// Sleep waits between polls; injectable for tests. The default honours
	// context cancellation.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger func(ctx context.Context, event string, fields map[string]any)
}

// Resolver polls the hosted-session status endpoint a bounded number of
// times. Polls are strictly sequential: the next one is scheduled only after
// the previous response is handled, and the bound is the attempt count, not
// wall clock.
type Resolver struct {
	api      statusAPI
	orders   orderFetcher
	interval time.Duration
	maxPolls int
	sleep    func(ctx context.Context, d time.Duration) error
	logger   func(ctx context.Context, event string, fields map[string]any)
}

// NewResolver constructs a Resolver enforcing dependency validation.
func NewResolver(deps ResolverDeps) (*Resolver, error) {
	if deps.API == nil {
		return nil, errResolverAPIRequired
	}
	if deps.Orders == nil {
		return nil, errResolverOrdersRequired
	}
	interval := deps.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxPolls := deps.MaxAttempts
	if maxPolls <= 0 {
		maxPolls = defaultMaxAttempts
	}
	sleep := deps.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &Resolver{
		api:      deps.API,
		orders:   deps.Orders,
		interval: interval,
		maxPolls: maxPolls,
		sleep:    sleep,
		logger:   logger,
	}, nil
}

// Result is the terminal outcome of a resolution run.
type Result struct {
	State    State
	Order    *domain.Order
	Attempts int
}

// Resolve walks the state machine for one returned session. clearCart runs
// exactly once on success, before the order snapshot is fetched for display.
// Only programmer errors surface as a Go error; transport failures and
// exhausted attempts land in the Result state.
func (r *Resolver) Resolve(ctx context.Context, token, sessionID string, clearCart func(ctx context.Context) error) (Result, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Result{}, ErrMissingSessionID
	}

	for attempt := 1; attempt <= r.maxPolls; attempt++ {
		if err := r.sleep(ctx, r.interval); err != nil {
			return Result{State: StateError, Attempts: attempt - 1}, nil
		}

		status, err := r.api.HostedSessionStatus(ctx, token, sessionID)
		if err != nil {
			r.logger(ctx, "status poll failed", map[string]any{
				"sessionId": sessionID,
				"attempt":   attempt,
				"error":     err.Error(),
			})
			return Result{State: StateError, Attempts: attempt}, nil
		}

		switch status.Outcome {
		case domain.OutcomePaid:
			if clearCart != nil {
				if err := clearCart(ctx); err != nil {
					r.logger(ctx, "cart clear after payment failed", map[string]any{
						"sessionId": sessionID,
						"error":     err.Error(),
					})
				}
			}
			result := Result{State: StateSuccess, Attempts: attempt}
			if order, err := r.orders.GetOrder(ctx, token, status.OrderID); err == nil {
				result.Order = &order
			} else {
				// The payment is confirmed regardless; display degrades to the id.
				r.logger(ctx, "order fetch after payment failed", map[string]any{
					"orderId": status.OrderID,
					"error":   err.Error(),
				})
				result.Order = &domain.Order{OrderID: status.OrderID, PaymentStatus: domain.PaymentPaid}
			}
			return result, nil
		case domain.OutcomeExpired, domain.OutcomeCancelled:
			return Result{State: StateFailed, Attempts: attempt}, nil
		default:
			// Transition to processing and schedule the next poll.
			r.logger(ctx, "payment still processing", map[string]any{
				"sessionId": sessionID,
				"attempt":   attempt,
				"outcome":   string(status.Outcome),
			})
		}
	}

	return Result{State: StateTimeout, Attempts: r.maxPolls}, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
