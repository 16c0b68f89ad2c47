package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kushal-tech/houseofneelam/internal/domain"
	"github.com/kushal-tech/houseofneelam/internal/platform/httpx"
	"github.com/kushal-tech/houseofneelam/internal/platform/requestctx"
)

type ordersAPI interface {
	ListOrders(ctx context.Context, token string) ([]domain.Order, error)
	GetOrder(ctx context.Context, token, orderID string) (domain.Order, error)
}

// OrderHandlers exposes the signed-in customer's order history.
type OrderHandlers struct {
	remote ordersAPI
}

// NewOrderHandlers constructs order handlers.
func NewOrderHandlers(remote ordersAPI) *OrderHandlers {
	return &OrderHandlers{remote: remote}
}

// Routes wires the order endpoints onto the provided router.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listOrders)
	r.Get("/{orderID}", h.getOrder)
}

func (h *OrderHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := requestctx.RemoteToken(ctx)
	if token == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return
	}

	orders, err := h.remote.ListOrders(ctx, token)
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *OrderHandlers) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := requestctx.RemoteToken(ctx)
	if token == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return
	}

	order, err := h.remote.GetOrder(ctx, token, chi.URLParam(r, "orderID"))
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, order)
}
