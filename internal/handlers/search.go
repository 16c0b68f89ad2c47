package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kushal-tech/houseofneelam/internal/domain"
	"github.com/kushal-tech/houseofneelam/internal/platform/httpx"
	"github.com/kushal-tech/houseofneelam/internal/platform/requestctx"
	"github.com/kushal-tech/houseofneelam/internal/search"
)

type productSearchAPI interface {
	SearchProducts(ctx context.Context, q string) ([]domain.Product, error)
}

// SearchHandlers serves full searches and the debounced suggestion box.
type SearchHandlers struct {
	remote    productSearchAPI
	suggester *search.Suggester
}

// NewSearchHandlers constructs search handlers.
func NewSearchHandlers(remote productSearchAPI, suggester *search.Suggester) *SearchHandlers {
	return &SearchHandlers{remote: remote, suggester: suggester}
}

// Routes wires the search endpoints onto the provided router.
func (h *SearchHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.searchNow)
	r.Post("/suggest", h.updateSuggestion)
	r.Get("/suggest", h.latestSuggestion)
}

// searchNow runs an immediate search, bypassing the debounce window. Used for
// explicit submits rather than keystrokes.
func (h *SearchHandlers) searchNow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "q is required", http.StatusBadRequest))
		return
	}

	products, err := h.remote.SearchProducts(ctx, q)
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"query": q, "products": products})
}

type suggestRequest struct {
	Query string `json:"query"`
}

// updateSuggestion records a keystroke. The remote dispatch fires only after
// the debounce window closes without a newer keystroke.
func (h *SearchHandlers) updateSuggestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req suggestRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	h.suggester.Update(ctx, requestctx.SessionID(ctx), req.Query)
	w.WriteHeader(http.StatusAccepted)
}

// latestSuggestion returns the most recently arrived result, tagged with the
// query that produced it so the caller can discard stale responses.
func (h *SearchHandlers) latestSuggestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, ok := h.suggester.Latest(requestctx.SessionID(ctx))
	if !ok {
		writeJSONResponse(w, http.StatusOK, map[string]any{"query": "", "products": []domain.Product{}})
		return
	}
	if result.Err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("network_error", "search is unavailable", http.StatusBadGateway))
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}
