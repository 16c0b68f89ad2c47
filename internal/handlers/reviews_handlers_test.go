package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/kushal-tech/houseofneelam/internal/api"
	"github.com/kushal-tech/houseofneelam/internal/domain"
	"github.com/kushal-tech/houseofneelam/internal/handlers"
)

type stubReviewsRemote struct {
	reviews   []domain.Review
	err       error
	lastToken string
	lastInput api.ReviewInput
}

func (s *stubReviewsRemote) CreateReview(ctx context.Context, token string, input api.ReviewInput) (domain.Review, error) {
	s.lastToken = token
	s.lastInput = input
	if s.err != nil {
		return domain.Review{}, s.err
	}
	return domain.Review{ReviewID: "rev-1", ProductID: input.ProductID, Rating: input.Rating, Comment: input.Comment}, nil
}

func (s *stubReviewsRemote) ListProductReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.reviews, s.err
}

func reviewsRouter(remote *stubReviewsRemote) chi.Router {
	r := chi.NewRouter()
	r.Route("/reviews", handlers.NewReviewHandlers(remote).Routes)
	return r
}

func TestReviewsListIsPublic(t *testing.T) {
	t.Parallel()

	remote := &stubReviewsRemote{reviews: []domain.Review{
		{ReviewID: "rev-1", ProductID: "p-1", UserName: "Asha", Rating: 5, Comment: "Stunning craftsmanship"},
	}}
	router := reviewsRouter(remote)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reviews/p-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Reviews []domain.Review `json:"reviews"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	require.Len(t, payload.Reviews, 1)
	require.Equal(t, 5, payload.Reviews[0].Rating)
}

func TestReviewsEmptyListSerializesAsArray(t *testing.T) {
	t.Parallel()

	router := reviewsRouter(&stubReviewsRemote{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reviews/p-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"reviews":[]`)
}

func TestReviewsCreateRequiresToken(t *testing.T) {
	t.Parallel()

	router := reviewsRouter(&stubReviewsRemote{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reviews/", strings.NewReader(`{"product_id":"p-1","rating":4}`)))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReviewsCreate(t *testing.T) {
	t.Parallel()

	remote := &stubReviewsRemote{}
	router := reviewsRouter(remote)

	body := `{"product_id":"p-1","rating":4,"comment":"Lovely finish"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withRemoteToken(httptest.NewRequest(http.MethodPost, "/reviews/", strings.NewReader(body)), "hnk-1"))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "hnk-1", remote.lastToken)
	require.Equal(t, "p-1", remote.lastInput.ProductID)
	require.Equal(t, 4, remote.lastInput.Rating)

	var review domain.Review
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&review))
	require.Equal(t, "rev-1", review.ReviewID)
}

func TestReviewsCreateValidation(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing product": `{"rating":4}`,
		"rating too low":  `{"product_id":"p-1","rating":0}`,
		"rating too high": `{"product_id":"p-1","rating":6}`,
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			router := reviewsRouter(&stubReviewsRemote{})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, withRemoteToken(httptest.NewRequest(http.MethodPost, "/reviews/", strings.NewReader(body)), "hnk-1"))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var payload map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
			require.Equal(t, "validation_error", payload["error"])
		})
	}
}

func TestReviewsCreateUnknownProduct(t *testing.T) {
	t.Parallel()

	router := reviewsRouter(&stubReviewsRemote{err: api.ErrNotFound})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withRemoteToken(httptest.NewRequest(http.MethodPost, "/reviews/", strings.NewReader(`{"product_id":"p-x","rating":3}`)), "hnk-1"))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
