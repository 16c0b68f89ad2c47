package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

// ListWishlist returns the authenticated customer's saved products.
func (c *Client) ListWishlist(ctx context.Context, token string) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	if err := c.get(ctx, "list wishlist", nil, token, &items, "wishlist"); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToWishlist saves a product for the authenticated customer. The remote
// endpoint takes the product id as a query parameter rather than a body.
func (c *Client) AddToWishlist(ctx context.Context, token, productID string) error {
	const op = "add to wishlist"
	endpoint, err := c.endpoint("wishlist", "add")
	if err != nil {
		return fmt.Errorf("api: %s: %w", op, err)
	}
	query := url.Values{"product_id": []string{productID}}
	return c.do(ctx, op, http.MethodPost, endpoint, query, token, nil, nil)
}

// RemoveFromWishlist drops a product from the customer's wishlist.
func (c *Client) RemoveFromWishlist(ctx context.Context, token, productID string) error {
	return c.delete(ctx, "remove from wishlist", token, "wishlist", "remove", productID)
}
