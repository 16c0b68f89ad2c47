package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kushal-tech/houseofneelam/internal/cart"
	"github.com/kushal-tech/houseofneelam/internal/domain"
	"github.com/kushal-tech/houseofneelam/internal/platform/httpx"
)

// CartHandlers exposes the session-scoped cart endpoints.
type CartHandlers struct {
	store cart.Store
}

// NewCartHandlers constructs cart handlers over the given store.
func NewCartHandlers(store cart.Store) *CartHandlers {
	return &CartHandlers{store: store}
}

// Routes wires the cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCart)
	r.Post("/items", h.addItem)
	r.Put("/items/{productID}", h.setQuantity)
	r.Delete("/items/{productID}", h.removeItem)
	r.Delete("/", h.clearCart)
}

type cartResponse struct {
	Items []domain.CartLine `json:"items"`
	Total float64           `json:"total"`
}

type addItemRequest struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	crt, err := sessionCart(ctx, h.store)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Items: crt.Lines(), Total: crt.Total()})
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addItemRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	if strings.TrimSpace(req.Product.ProductID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "product.product_id is required", http.StatusBadRequest))
		return
	}

	crt, err := sessionCart(ctx, h.store)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	if err := crt.Add(ctx, req.Product, req.Quantity); err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Items: crt.Lines(), Total: crt.Total()})
}

func (h *CartHandlers) setQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req setQuantityRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	crt, err := sessionCart(ctx, h.store)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	if err := crt.SetQuantity(ctx, chi.URLParam(r, "productID"), req.Quantity); err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Items: crt.Lines(), Total: crt.Total()})
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	crt, err := sessionCart(ctx, h.store)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	if err := crt.Remove(ctx, chi.URLParam(r, "productID")); err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Items: crt.Lines(), Total: crt.Total()})
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	crt, err := sessionCart(ctx, h.store)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	if err := crt.Clear(ctx); err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Items: crt.Lines(), Total: 0})
}

func (h *CartHandlers) writeCartError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidProduct):
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "product is invalid", http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart storage is unavailable", http.StatusServiceUnavailable))
	}
}
