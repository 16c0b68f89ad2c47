// Package handlers wires the storefront HTTP surface onto chi.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/kushal-tech/houseofneelam/internal/cart"
	"github.com/kushal-tech/houseofneelam/internal/platform/httpx"
	"github.com/kushal-tech/houseofneelam/internal/platform/requestctx"
)

var errBodyTooLarge = errors.New("request body too large")

const defaultMaxBodySize = 16 * 1024

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, errBodyTooLarge
	}
	return body, nil
}

func decodeJSONBody(r *http.Request, out any) error {
	body, err := readLimitedBody(r, defaultMaxBodySize)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errors.New("request body is required")
	}
	return json.Unmarshal(body, out)
}

func writeBodyError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		return
	}
	httpx.WriteError(ctx, w, httpx.NewError("validation_error", err.Error(), http.StatusBadRequest))
}

// sessionCart loads the caller's cart aggregate, creating an empty one when
// no state exists yet.
func sessionCart(ctx context.Context, store cart.Store) (*cart.Aggregate, error) {
	sessionID := requestctx.SessionID(ctx)
	if sessionID == "" {
		return nil, errors.New("no session on request")
	}
	crt, err := cart.NewAggregate(store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := crt.Load(ctx); err != nil {
		return nil, err
	}
	return crt, nil
}
