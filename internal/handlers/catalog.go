package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kushal-tech/houseofneelam/internal/api"
	"github.com/kushal-tech/houseofneelam/internal/domain"
	"github.com/kushal-tech/houseofneelam/internal/platform/httpx"
)

type catalogAPI interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// CatalogHandlers proxies public catalog reads to the remote commerce API.
type CatalogHandlers struct {
	catalog catalogAPI
}

// NewCatalogHandlers constructs catalog handlers.
func NewCatalogHandlers(catalog catalogAPI) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// Routes wires the catalog endpoints onto the provided router.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/products", h.listProducts)
	r.Get("/products/{productID}", h.getProduct)
	r.Get("/categories", h.listCategories)
}

func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseProductFilter(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", err.Error(), http.StatusBadRequest))
		return
	}

	products, err := h.catalog.ListProducts(ctx, filter)
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"products": products})
}

func (h *CatalogHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := h.catalog.GetProduct(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, product)
}

func (h *CatalogHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"categories": categories})
}

func parseProductFilter(r *http.Request) (domain.ProductFilter, error) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Category:    strings.TrimSpace(q.Get("category")),
		Subcategory: strings.TrimSpace(q.Get("subcategory")),
	}

	if raw := strings.TrimSpace(q.Get("min_price")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return domain.ProductFilter{}, errors.New("min_price must be a non-negative number")
		}
		filter.MinPrice = &v
	}
	if raw := strings.TrimSpace(q.Get("max_price")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return domain.ProductFilter{}, errors.New("max_price must be a non-negative number")
		}
		filter.MaxPrice = &v
	}
	if raw := strings.TrimSpace(q.Get("sort_by")); raw != "" {
		sort := domain.SortBy(raw)
		if !domain.ValidSortBy(sort) {
			return domain.ProductFilter{}, errors.New("unknown sort_by value")
		}
		filter.SortBy = sort
	}
	if raw := strings.TrimSpace(q.Get("in_stock")); raw != "" {
		filter.InStock = raw == "true" || raw == "1"
	}
	return filter, nil
}

// writeRemoteError maps remote API failures onto the storefront error taxonomy.
func writeRemoteError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, api.ErrNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "resource not found", http.StatusNotFound))
	case errors.Is(err, api.ErrUnauthorized):
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
	case api.IsTransport(err):
		httpx.WriteError(ctx, w, httpx.NewError("network_error", "upstream service unavailable", http.StatusBadGateway))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected error", http.StatusInternalServerError))
	}
}
