// Package session establishes and carries the storefront session: the signed
// session cookie, and the bridge that turns an identity-provider fragment
// token into a remote user session.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kushal-tech/houseofneelam/internal/api"
)

// ErrNoSessionID indicates the callback fragment carried no session marker.
var ErrNoSessionID = errors.New("session: no session id in fragment")

var errBridgeAPIRequired = errors.New("session bridge: exchanger is required")

// Tokens are single-use at the identity provider, so a duplicate invocation
// must reuse the first exchange's result rather than call again.
const exchangeReplayWindow = 2 * time.Minute

type exchanger interface {
	ExchangeSession(ctx context.Context, sessionID string) (api.ExchangedSession, error)
}

type completedExchange struct {
	result api.ExchangedSession
	err    error
	at     time.Time
}

// Bridge exchanges fragment session ids for remote user sessions, performing
// exactly one exchange per id even when the callback is rendered twice.
// Concurrent duplicates collapse via singleflight; sequential duplicates hit
// the replay cache.
type Bridge struct {
	api   exchanger
	clock func() time.Time

	sf   singleflight.Group
	mu   sync.Mutex
	done map[string]completedExchange
}

// NewBridge constructs a Bridge.
func NewBridge(remote exchanger) (*Bridge, error) {
	if remote == nil {
		return nil, errBridgeAPIRequired
	}
	return &Bridge{
		api:   remote,
		clock: time.Now,
		done:  make(map[string]completedExchange),
	}, nil
}

// ExchangeFragment parses the fragment and performs the exchange. A missing
// marker yields ErrNoSessionID so the caller can route to the login screen.
func (b *Bridge) ExchangeFragment(ctx context.Context, fragment string) (api.ExchangedSession, error) {
	sessionID := SessionIDFromFragment(fragment)
	if sessionID == "" {
		return api.ExchangedSession{}, ErrNoSessionID
	}
	return b.exchange(ctx, sessionID)
}

func (b *Bridge) exchange(ctx context.Context, sessionID string) (api.ExchangedSession, error) {
	now := b.clock()

	b.mu.Lock()
	b.pruneLocked(now)
	if prior, ok := b.done[sessionID]; ok {
		b.mu.Unlock()
		return prior.result, prior.err
	}
	b.mu.Unlock()

	result, err, _ := b.sf.Do(sessionID, func() (any, error) {
		exchanged, exchangeErr := b.api.ExchangeSession(ctx, sessionID)

		b.mu.Lock()
		b.done[sessionID] = completedExchange{result: exchanged, err: exchangeErr, at: b.clock()}
		b.mu.Unlock()

		if exchangeErr != nil {
			return api.ExchangedSession{}, exchangeErr
		}
		return exchanged, nil
	})
	if err != nil {
		return api.ExchangedSession{}, err
	}
	return result.(api.ExchangedSession), nil
}

func (b *Bridge) pruneLocked(now time.Time) {
	for id, entry := range b.done {
		if now.Sub(entry.at) > exchangeReplayWindow {
			delete(b.done, id)
		}
	}
}
