package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kushal-tech/houseofneelam/internal/api"
	"github.com/kushal-tech/houseofneelam/internal/domain"
	"github.com/kushal-tech/houseofneelam/internal/platform/httpx"
	"github.com/kushal-tech/houseofneelam/internal/platform/requestctx"
	"github.com/kushal-tech/houseofneelam/internal/session"
)

type adminAPI interface {
	AdminLogin(ctx context.Context, username, password string) (api.ExchangedSession, error)
	DashboardStats(ctx context.Context, token string) (domain.DashboardStats, error)
	CreateProduct(ctx context.Context, token string, input api.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, token, productID string, input api.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, token, productID string) error
	AdminListCategories(ctx context.Context, token string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, token string, input api.CategoryInput) (domain.Category, error)
	UpdateCategory(ctx context.Context, token, categoryID string, input api.CategoryInput) (domain.Category, error)
	DeleteCategory(ctx context.Context, token, categoryID string) error
	ListAllOrders(ctx context.Context, token string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, token, orderID string, status domain.OrderStatus) error
}

// AdminHandlers exposes the back-office surface. Everything past /login
// requires an admin identity on the session.
type AdminHandlers struct {
	remote  adminAPI
	manager *session.Manager
}

// NewAdminHandlers constructs admin handlers.
func NewAdminHandlers(remote adminAPI, manager *session.Manager) *AdminHandlers {
	return &AdminHandlers{remote: remote, manager: manager}
}

// Routes wires the back-office endpoints onto the provided router.
func (h *AdminHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/login", h.login)

	r.Group(func(g chi.Router) {
		g.Use(h.requireAdmin)
		g.Get("/dashboard/stats", h.dashboardStats)
		g.Post("/products", h.createProduct)
		g.Put("/products/{productID}", h.updateProduct)
		g.Delete("/products/{productID}", h.deleteProduct)
		g.Get("/categories", h.listCategories)
		g.Post("/categories", h.createCategory)
		g.Put("/categories/{categoryID}", h.updateCategory)
		g.Delete("/categories/{categoryID}", h.deleteCategory)
		g.Get("/orders", h.listOrders)
		g.Put("/orders/{orderID}/status", h.updateOrderStatus)
	})
}

func (h *AdminHandlers) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user, ok := requestctx.User(ctx)
		if !ok {
			httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
			return
		}
		if !user.IsAdmin() {
			httpx.WriteError(ctx, w, httpx.NewError("forbidden", "admin access required", http.StatusForbidden))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AdminHandlers) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req adminLoginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "username and password are required", http.StatusBadRequest))
		return
	}

	exchanged, err := h.remote.AdminLogin(ctx, req.Username, req.Password)
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	if !exchanged.User.IsAdmin() {
		httpx.WriteError(ctx, w, httpx.NewError("forbidden", "admin access required", http.StatusForbidden))
		return
	}

	if _, err := h.manager.Login(w, r, exchanged.User, exchanged.Token); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "could not establish session", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"user": exchanged.User})
}

func (h *AdminHandlers) dashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.remote.DashboardStats(ctx, requestctx.RemoteToken(ctx))
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, stats)
}

func (h *AdminHandlers) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, ok := h.decodeProductInput(ctx, w, r)
	if !ok {
		return
	}

	product, err := h.remote.CreateProduct(ctx, requestctx.RemoteToken(ctx), input)
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, product)
}

func (h *AdminHandlers) updateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, ok := h.decodeProductInput(ctx, w, r)
	if !ok {
		return
	}

	product, err := h.remote.UpdateProduct(ctx, requestctx.RemoteToken(ctx), chi.URLParam(r, "productID"), input)
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, product)
}

func (h *AdminHandlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.remote.DeleteProduct(ctx, requestctx.RemoteToken(ctx), chi.URLParam(r, "productID")); err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.remote.AdminListCategories(ctx, requestctx.RemoteToken(ctx))
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *AdminHandlers) createCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, ok := h.decodeCategoryInput(ctx, w, r)
	if !ok {
		return
	}

	category, err := h.remote.CreateCategory(ctx, requestctx.RemoteToken(ctx), input)
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, category)
}

func (h *AdminHandlers) updateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, ok := h.decodeCategoryInput(ctx, w, r)
	if !ok {
		return
	}

	category, err := h.remote.UpdateCategory(ctx, requestctx.RemoteToken(ctx), chi.URLParam(r, "categoryID"), input)
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, category)
}

func (h *AdminHandlers) deleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.remote.DeleteCategory(ctx, requestctx.RemoteToken(ctx), chi.URLParam(r, "categoryID")); err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.remote.ListAllOrders(ctx, requestctx.RemoteToken(ctx))
	if err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"orders": orders})
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandlers) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req orderStatusRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	status := domain.OrderStatus(strings.TrimSpace(req.Status))
	switch status {
	case domain.OrderPending, domain.OrderConfirmed, domain.OrderShipped, domain.OrderDelivered:
	default:
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "unknown order status", http.StatusBadRequest))
		return
	}

	if err := h.remote.UpdateOrderStatus(ctx, requestctx.RemoteToken(ctx), chi.URLParam(r, "orderID"), status); err != nil {
		writeRemoteError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"status": string(status)})
}

func (h *AdminHandlers) decodeProductInput(ctx context.Context, w http.ResponseWriter, r *http.Request) (api.ProductInput, bool) {
	var input api.ProductInput
	if err := decodeJSONBody(r, &input); err != nil {
		writeBodyError(ctx, w, err)
		return api.ProductInput{}, false
	}
	if strings.TrimSpace(input.Name) == "" || input.Price <= 0 || strings.TrimSpace(input.Category) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "name, positive price, and category are required", http.StatusBadRequest))
		return api.ProductInput{}, false
	}
	return input, true
}

func (h *AdminHandlers) decodeCategoryInput(ctx context.Context, w http.ResponseWriter, r *http.Request) (api.CategoryInput, bool) {
	var input api.CategoryInput
	if err := decodeJSONBody(r, &input); err != nil {
		writeBodyError(ctx, w, err)
		return api.CategoryInput{}, false
	}
	if strings.TrimSpace(input.Name) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("validation_error", "category name is required", http.StatusBadRequest))
		return api.CategoryInput{}, false
	}
	if input.Subcategories == nil {
		input.Subcategories = []string{}
	}
	return input, true
}
