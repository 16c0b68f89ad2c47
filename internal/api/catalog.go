package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

// ListProducts fetches the catalog listing with the given filters applied.
func (c *Client) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := url.Values{}
	if v := strings.TrimSpace(filter.Category); v != "" {
		query.Set("category", v)
	}
	if v := strings.TrimSpace(filter.Subcategory); v != "" {
		query.Set("subcategory", v)
	}
	if filter.MinPrice != nil {
		query.Set("min_price", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil {
		query.Set("max_price", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}
	if filter.SortBy != "" {
		query.Set("sort_by", string(filter.SortBy))
	}
	if filter.InStock {
		query.Set("in_stock", "true")
	}

	var payload struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.get(ctx, "list products", query, "", &payload, "products", "enhanced"); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

// GetProduct fetches a single product; a catalog miss yields ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	var product domain.Product
	if err := c.get(ctx, "get product", nil, "", &product, "products", productID); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// SearchProducts runs a free-text catalog search.
func (c *Client) SearchProducts(ctx context.Context, q string) ([]domain.Product, error) {
	query := url.Values{}
	query.Set("q", strings.TrimSpace(q))

	var payload struct {
		Results []domain.Product `json:"results"`
	}
	if err := c.get(ctx, "search products", query, "", &payload, "products", "search"); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// ListCategories fetches the category tree for navigation.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var payload struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := c.get(ctx, "list categories", nil, "", &payload, "categories"); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}
