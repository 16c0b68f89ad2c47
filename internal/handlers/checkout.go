package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kushal-tech/houseofneelam/internal/api"
	"github.com/kushal-tech/houseofneelam/internal/cart"
	"github.com/kushal-tech/houseofneelam/internal/checkout"
	"github.com/kushal-tech/houseofneelam/internal/payment"
	"github.com/kushal-tech/houseofneelam/internal/platform/httpx"
	"github.com/kushal-tech/houseofneelam/internal/platform/metrics"
	"github.com/kushal-tech/houseofneelam/internal/platform/requestctx"
)

type processorStatusAPI interface {
	ProcessorPaymentStatus(ctx context.Context, processorOrderID string) (api.SessionStatus, error)
}

// CheckoutHandlers exposes the checkout, verification, and result endpoints.
type CheckoutHandlers struct {
	service   *checkout.Service
	resolver  *payment.Resolver
	loader    *checkout.ScriptLoader
	store     cart.Store
	processor processorStatusAPI
}

// NewCheckoutHandlers constructs checkout handlers.
func NewCheckoutHandlers(service *checkout.Service, resolver *payment.Resolver, loader *checkout.ScriptLoader, store cart.Store, processor processorStatusAPI) *CheckoutHandlers {
	return &CheckoutHandlers{
		service:   service,
		resolver:  resolver,
		loader:    loader,
		store:     store,
		processor: processor,
	}
}

// Routes wires the checkout endpoints onto the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.submit)
	r.Post("/verify", h.verify)
	r.Post("/cancel", h.cancel)
	r.Get("/result", h.result)
	r.Get("/status", h.processorStatus)
	r.Get("/script", h.script)
}

type checkoutRequest struct {
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
	OriginURL  string `json:"origin_url"`
}

type verifyRequest struct {
	ProcessorOrderID   string `json:"razorpay_order_id"`
	ProcessorPaymentID string `json:"razorpay_payment_id"`
	ProcessorSignature string `json:"razorpay_signature"`
}

type cancelRequest struct {
	OrderID string `json:"order_id"`
}

func (h *CheckoutHandlers) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkoutRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	crt, err := sessionCart(ctx, h.store)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart storage is unavailable", http.StatusServiceUnavailable))
		return
	}

	sub := checkout.Submission{
		Cart:       crt,
		Token:      requestctx.RemoteToken(ctx),
		GuestEmail: strings.TrimSpace(req.GuestEmail),
		GuestPhone: strings.TrimSpace(req.GuestPhone),
		OriginURL:  originURL(r, req.OriginURL),
	}
	if user, ok := requestctx.User(ctx); ok {
		sub.User = &user
	}

	initiation, err := h.service.Checkout(ctx, sub)
	if err != nil {
		metrics.RecordCheckoutOperation("submit", false)
		h.writeCheckoutError(ctx, w, err)
		return
	}

	metrics.RecordCheckoutOperation("submit", true)
	writeJSONResponse(w, http.StatusOK, initiation)
}

func (h *CheckoutHandlers) verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	if req.ProcessorOrderID == "" || req.ProcessorPaymentID == "" || req.ProcessorSignature == "" {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "payment verification fields are required", http.StatusBadRequest))
		return
	}

	crt, err := sessionCart(ctx, h.store)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart storage is unavailable", http.StatusServiceUnavailable))
		return
	}

	fields := api.VerifyProcessorPayment{
		ProcessorOrderID:   req.ProcessorOrderID,
		ProcessorPaymentID: req.ProcessorPaymentID,
		ProcessorSignature: req.ProcessorSignature,
	}
	if err := h.service.CompleteEmbedded(ctx, requestctx.RemoteToken(ctx), fields, crt); err != nil {
		metrics.RecordCheckoutOperation("verify", false)
		h.writeCheckoutError(ctx, w, err)
		return
	}

	metrics.RecordCheckoutOperation("verify", true)
	writeJSONResponse(w, http.StatusOK, map[string]any{"status": "verified"})
}

func (h *CheckoutHandlers) cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req cancelRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	h.service.CancelEmbedded(ctx, req.OrderID)
	writeJSONResponse(w, http.StatusOK, map[string]any{"status": "cancelled"})
}

// result blocks while the resolver polls the remote payment status, then
// reports the terminal state for the returned session.
func (h *CheckoutHandlers) result(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := r.URL.Query().Get("session_id")
	crt, err := sessionCart(ctx, h.store)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart storage is unavailable", http.StatusServiceUnavailable))
		return
	}

	result, err := h.resolver.Resolve(ctx, requestctx.RemoteToken(ctx), sessionID, crt.Clear)
	if err != nil {
		if errors.Is(err, payment.ErrMissingSessionID) {
			httpx.WriteError(ctx, w, httpx.NewError("validation_error", "session_id is required", http.StatusBadRequest))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected error", http.StatusInternalServerError))
		return
	}

	metrics.RecordCheckoutOperation("result", result.State == payment.StateSuccess)

	payload := map[string]any{
		"state":    string(result.State),
		"attempts": result.Attempts,
	}
	if result.Order != nil {
		payload["order"] = result.Order
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

// processorStatus looks up the recorded payment state for an embedded-flow
// processor order. Unlike result it does not poll; the widget reports its own
// completion and this endpoint only answers an explicit status check.
func (h *CheckoutHandlers) processorStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	processorOrderID := strings.TrimSpace(r.URL.Query().Get("processor_order_id"))
	if processorOrderID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "processor_order_id is required", http.StatusBadRequest))
		return
	}

	status, err := h.processor.ProcessorPaymentStatus(ctx, processorOrderID)
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, status)
}

// script serves the processor widget script from the acquire-once cache so
// repeated checkouts never refetch it.
func (h *CheckoutHandlers) script(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := h.loader.Load(ctx)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("network_error", "payment script unavailable", http.StatusBadGateway))
		return
	}

	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *CheckoutHandlers) writeCheckoutError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "cart is empty", http.StatusBadRequest))
	case errors.Is(err, checkout.ErrMissingContactInfo):
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "guest checkout requires email and phone", http.StatusBadRequest))
	case errors.Is(err, checkout.ErrVerificationFailed):
		httpx.WriteError(ctx, w, httpx.NewError("verification_failed", "payment verification failed", http.StatusPaymentRequired))
	case errors.Is(err, api.ErrUnauthorized):
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
	case api.IsTransport(err):
		httpx.WriteError(ctx, w, httpx.NewError("network_error", "upstream service unavailable", http.StatusBadGateway))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected error", http.StatusInternalServerError))
	}
}

func originURL(r *http.Request, explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if ref := r.Header.Get("Referer"); ref != "" {
		return ref
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
