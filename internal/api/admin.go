package api

import (
	"context"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

// ProductInput carries the writable product fields for back-office CRUD.
type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	InStock     bool     `json:"in_stock"`
}

// CategoryInput carries the writable category fields for back-office CRUD.
type CategoryInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Image         string   `json:"image,omitempty"`
	Subcategories []string `json:"subcategories"`
}

// DashboardStats returns aggregate back-office metrics.
func (c *Client) DashboardStats(ctx context.Context, token string) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.get(ctx, "dashboard stats", nil, token, &stats, "admin", "dashboard", "stats"); err != nil {
		return domain.DashboardStats{}, err
	}
	return stats, nil
}

// CreateProduct adds a catalog product.
func (c *Client) CreateProduct(ctx context.Context, token string, input ProductInput) (domain.Product, error) {
	var product domain.Product
	if err := c.post(ctx, "create product", token, input, &product, "admin", "products"); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// UpdateProduct replaces the writable fields of a catalog product.
func (c *Client) UpdateProduct(ctx context.Context, token, productID string, input ProductInput) (domain.Product, error) {
	var product domain.Product
	if err := c.put(ctx, "update product", token, input, &product, "admin", "products", productID); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// DeleteProduct removes a catalog product.
func (c *Client) DeleteProduct(ctx context.Context, token, productID string) error {
	return c.delete(ctx, "delete product", token, "admin", "products", productID)
}

// AdminListCategories returns every category, including empty ones hidden
// from the storefront listing.
func (c *Client) AdminListCategories(ctx context.Context, token string) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.get(ctx, "list admin categories", nil, token, &categories, "admin", "categories"); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a navigation category.
func (c *Client) CreateCategory(ctx context.Context, token string, input CategoryInput) (domain.Category, error) {
	var category domain.Category
	if err := c.post(ctx, "create category", token, input, &category, "admin", "categories"); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// UpdateCategory replaces the writable fields of a category.
func (c *Client) UpdateCategory(ctx context.Context, token, categoryID string, input CategoryInput) (domain.Category, error) {
	var category domain.Category
	if err := c.put(ctx, "update category", token, input, &category, "admin", "categories", categoryID); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, token, categoryID string) error {
	return c.delete(ctx, "delete category", token, "admin", "categories", categoryID)
}

// ListAllOrders returns every order for back-office review.
func (c *Client) ListAllOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.get(ctx, "list all orders", nil, token, &orders, "admin", "orders"); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order through its fulfilment states.
func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID string, status domain.OrderStatus) error {
	body := map[string]string{"status": string(status)}
	return c.put(ctx, "update order status", token, body, nil, "admin", "orders", orderID)
}
