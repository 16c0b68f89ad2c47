package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kushal-tech/houseofneelam/internal/api"
	"github.com/kushal-tech/houseofneelam/internal/domain"
	"github.com/kushal-tech/houseofneelam/internal/platform/httpx"
	"github.com/kushal-tech/houseofneelam/internal/platform/requestctx"
	"github.com/kushal-tech/houseofneelam/internal/session"
)

type authAPI interface {
	Me(ctx context.Context, token string) (domain.User, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandlers bridges identity-provider callbacks into storefront sessions.
type AuthHandlers struct {
	bridge  *session.Bridge
	manager *session.Manager
	remote  authAPI
}

// NewAuthHandlers constructs auth handlers.
func NewAuthHandlers(bridge *session.Bridge, manager *session.Manager, remote authAPI) *AuthHandlers {
	return &AuthHandlers{bridge: bridge, manager: manager, remote: remote}
}

// Routes wires the session bridge endpoints onto the provided router.
func (h *AuthHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/callback", h.callback)
	r.Get("/me", h.me)
	r.Post("/logout", h.logout)
}

type callbackRequest struct {
	Fragment string `json:"fragment"`
}

// callback receives the URL fragment relayed by the landing page, exchanges
// the embedded session id, and attaches the identity to the session cookie.
func (h *AuthHandlers) callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req callbackRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	exchanged, err := h.bridge.ExchangeFragment(ctx, req.Fragment)
	if err != nil {
		h.writeAuthError(ctx, w, err)
		return
	}

	if _, err := h.manager.Login(w, r, exchanged.User, exchanged.Token); err != nil {
		requestctx.Logger(ctx).Warn("session issue failed")
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "could not establish session", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"user": exchanged.User})
}

func (h *AuthHandlers) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := requestctx.RemoteToken(ctx)
	if token == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return
	}

	user, err := h.remote.Me(ctx, token)
	if err != nil {
		h.writeAuthError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"user": user})
}

// logout revokes the remote session best-effort and always strips the local
// identity, so a dead remote token cannot pin the user logged in.
func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if token := requestctx.RemoteToken(ctx); token != "" {
		if err := h.remote.Logout(ctx, token); err != nil {
			requestctx.Logger(ctx).Warn("remote logout failed")
		}
	}

	if err := h.manager.Logout(w, r); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "could not clear session", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"status": "logged_out"})
}

func (h *AuthHandlers) writeAuthError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoSessionID):
		httpx.WriteError(ctx, w, httpx.NewError("login_required", "no session id present, sign in to continue", http.StatusUnauthorized))
	case errors.Is(err, api.ErrUnauthorized):
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
	case api.IsTransport(err):
		httpx.WriteError(ctx, w, httpx.NewError("network_error", "upstream service unavailable", http.StatusBadGateway))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected error", http.StatusInternalServerError))
	}
}
