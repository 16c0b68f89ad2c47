// Package cart owns the storefront cart: an ordered set of product lines kept
// per session and mirrored into a persistent key-value store on every
// mutation once the initial load has completed.
package cart

import (
	"context"
	"errors"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

// ErrCartNotFound indicates no cart has been persisted for the session yet.
var ErrCartNotFound = errors.New("cart: not found")

// Store persists the serialized line array under a per-session key.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Save(ctx context.Context, sessionID string, lines []domain.CartLine) error
	Delete(ctx context.Context, sessionID string) error
}
