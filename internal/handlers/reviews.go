package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kushal-tech/houseofneelam/internal/api"
	"github.com/kushal-tech/houseofneelam/internal/domain"
	"github.com/kushal-tech/houseofneelam/internal/platform/httpx"
)

type reviewsAPI interface {
	CreateReview(ctx context.Context, token string, input api.ReviewInput) (domain.Review, error)
	ListProductReviews(ctx context.Context, productID string) ([]domain.Review, error)
}

// ReviewHandlers exposes product reviews. Reading is public; writing needs a
// signed-in customer.
type ReviewHandlers struct {
	remote reviewsAPI
}

// NewReviewHandlers constructs review handlers.
func NewReviewHandlers(remote reviewsAPI) *ReviewHandlers {
	return &ReviewHandlers{remote: remote}
}

// Routes wires the review endpoints onto the provided router.
func (h *ReviewHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.create)
	r.Get("/{productID}", h.listForProduct)
}

func (h *ReviewHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := requireToken(ctx, w)
	if !ok {
		return
	}

	var input api.ReviewInput
	if err := decodeJSONBody(r, &input); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	if strings.TrimSpace(input.ProductID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "product_id is required", http.StatusBadRequest))
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "rating must be between 1 and 5", http.StatusBadRequest))
		return
	}

	review, err := h.remote.CreateReview(ctx, token, input)
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, review)
}

func (h *ReviewHandlers) listForProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reviews, err := h.remote.ListProductReviews(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"reviews": reviews})
}
