package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const scriptFetchTimeout = 10 * time.Second

// ScriptLoader fetches the processor's widget script once and reuses it for
// every subsequent caller. Concurrent first loads are collapsed into a single
// in-flight fetch.
type ScriptLoader struct {
	url  string
	http *http.Client

	sf     singleflight.Group
	mu     sync.RWMutex
	cached []byte
}

// NewScriptLoader constructs a loader for the given script URL.
func NewScriptLoader(url string) (*ScriptLoader, error) {
	if url == "" {
		return nil, errors.New("checkout: script url is required")
	}
	return &ScriptLoader{
		url:  url,
		http: &http.Client{Timeout: scriptFetchTimeout},
	}, nil
}

// Load returns the widget script, fetching it on first use only. A failed
// fetch is not cached, so the next caller retries.
func (l *ScriptLoader) Load(ctx context.Context) ([]byte, error) {
	l.mu.RLock()
	cached := l.cached
	l.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	result, err, _ := l.sf.Do(l.url, func() (any, error) {
		return l.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Loaded reports whether the script is already cached.
func (l *ScriptLoader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cached != nil
}

func (l *ScriptLoader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("checkout: build script request: %w", err)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout: fetch widget script: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checkout: fetch widget script: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("checkout: read widget script: %w", err)
	}

	l.mu.Lock()
	l.cached = body
	l.mu.Unlock()
	return body, nil
}
