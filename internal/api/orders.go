package api

import (
	"context"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

// CreateOrderRequest is the order submission payload. Guest contact fields are
// empty (serialised as null) when the customer is authenticated.
type CreateOrderRequest struct {
	Items      []domain.OrderItem `json:"items"`
	GuestEmail *string            `json:"guest_email"`
	GuestPhone *string            `json:"guest_phone"`
}

// CreateOrder submits the cart snapshot and returns the remote order.
func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (domain.Order, error) {
	var order domain.Order
	if err := c.post(ctx, "create order", token, req, &order, "orders"); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// ListOrders returns the authenticated customer's order history.
func (c *Client) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.get(ctx, "list orders", nil, token, &orders, "orders"); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order snapshot; a miss yields ErrNotFound.
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (domain.Order, error) {
	var order domain.Order
	if err := c.get(ctx, "get order", nil, token, &order, "orders", orderID); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
