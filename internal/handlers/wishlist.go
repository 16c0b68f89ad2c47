package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kushal-tech/houseofneelam/internal/domain"
	"github.com/kushal-tech/houseofneelam/internal/platform/httpx"
	"github.com/kushal-tech/houseofneelam/internal/platform/requestctx"
)

type wishlistAPI interface {
	ListWishlist(ctx context.Context, token string) ([]domain.WishlistItem, error)
	AddToWishlist(ctx context.Context, token, productID string) error
	RemoveFromWishlist(ctx context.Context, token, productID string) error
}

// WishlistHandlers exposes the signed-in customer's saved products. Guests
// have no wishlist; every endpoint requires a remote token.
type WishlistHandlers struct {
	remote wishlistAPI
}

// NewWishlistHandlers constructs wishlist handlers.
func NewWishlistHandlers(remote wishlistAPI) *WishlistHandlers {
	return &WishlistHandlers{remote: remote}
}

// Routes wires the wishlist endpoints onto the provided router.
func (h *WishlistHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.list)
	r.Post("/items/{productID}", h.add)
	r.Delete("/items/{productID}", h.remove)
}

func (h *WishlistHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := requireToken(ctx, w)
	if !ok {
		return
	}

	items, err := h.remote.ListWishlist(ctx, token)
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	if items == nil {
		items = []domain.WishlistItem{}
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"items": items})
}

func (h *WishlistHandlers) add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := requireToken(ctx, w)
	if !ok {
		return
	}

	if err := h.remote.AddToWishlist(ctx, token, chi.URLParam(r, "productID")); err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, map[string]any{"added": true})
}

func (h *WishlistHandlers) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := requireToken(ctx, w)
	if !ok {
		return
	}

	if err := h.remote.RemoveFromWishlist(ctx, token, chi.URLParam(r, "productID")); err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requireToken(ctx context.Context, w http.ResponseWriter) (string, bool) {
	token := requestctx.RemoteToken(ctx)
	if token == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return "", false
	}
	return token, true
}
