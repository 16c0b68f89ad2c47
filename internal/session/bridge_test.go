package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kushal-tech/houseofneelam/internal/api"
	"github.com/kushal-tech/houseofneelam/internal/domain"
	"github.com/kushal-tech/houseofneelam/internal/session"
)

type countingExchanger struct {
	calls  atomic.Int32
	result api.ExchangedSession
	err    error
}

func (e *countingExchanger) ExchangeSession(ctx context.Context, sessionID string) (api.ExchangedSession, error) {
	e.calls.Add(1)
	if e.err != nil {
		return api.ExchangedSession{}, e.err
	}
	return e.result, nil
}

func TestBridgeMissingSessionID(t *testing.T) {
	t.Parallel()

	remote := &countingExchanger{}
	bridge, err := session.NewBridge(remote)
	require.NoError(t, err)

	_, err = bridge.ExchangeFragment(context.Background(), "state=xyz")
	require.ErrorIs(t, err, session.ErrNoSessionID)
	require.Equal(t, int32(0), remote.calls.Load())
}

func TestBridgeExchangesOncePerID(t *testing.T) {
	t.Parallel()

	remote := &countingExchanger{result: api.ExchangedSession{
		User:  domain.User{ID: "u1", Name: "Asha"},
		Token: "remote-tok",
	}}
	bridge, err := session.NewBridge(remote)
	require.NoError(t, err)

	ctx := context.Background()

	// The callback page can be rendered twice for the same fragment; the
	// single-use token must be exchanged exactly once.
	first, err := bridge.ExchangeFragment(ctx, "session_id=hnk-1")
	require.NoError(t, err)
	second, err := bridge.ExchangeFragment(ctx, "session_id=hnk-1")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, int32(1), remote.calls.Load())
}

func TestBridgeCollapsesConcurrentDuplicates(t *testing.T) {
	t.Parallel()

	remote := &countingExchanger{result: api.ExchangedSession{Token: "tok"}}
	bridge, err := session.NewBridge(remote)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, exErr := bridge.ExchangeFragment(context.Background(), "session_id=hnk-2")
			if exErr == nil && got.Token != "tok" {
				exErr = errors.New("unexpected token")
			}
			results <- exErr
		}()
	}
	wg.Wait()
	close(results)

	for exErr := range results {
		require.NoError(t, exErr)
	}
	require.Equal(t, int32(1), remote.calls.Load())
}

func TestBridgeDistinctIDsExchangeSeparately(t *testing.T) {
	t.Parallel()

	remote := &countingExchanger{result: api.ExchangedSession{Token: "tok"}}
	bridge, err := session.NewBridge(remote)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = bridge.ExchangeFragment(ctx, "session_id=hnk-a")
	require.NoError(t, err)
	_, err = bridge.ExchangeFragment(ctx, "session_id=hnk-b")
	require.NoError(t, err)
	require.Equal(t, int32(2), remote.calls.Load())
}

func TestBridgeReplaysFailuresWithoutRetry(t *testing.T) {
	t.Parallel()

	remote := &countingExchanger{err: errors.New("token already consumed")}
	bridge, err := session.NewBridge(remote)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = bridge.ExchangeFragment(ctx, "session_id=hnk-3")
	require.Error(t, err)

	// A duplicate render must see the same failure, not burn another call
	// against an already consumed token.
	_, err = bridge.ExchangeFragment(ctx, "session_id=hnk-3")
	require.Error(t, err)
	require.Equal(t, int32(1), remote.calls.Load())
}

func TestNewBridgeValidation(t *testing.T) {
	t.Parallel()

	_, err := session.NewBridge(nil)
	require.Error(t, err)
}
