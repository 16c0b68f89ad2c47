package api

import (
	"context"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

// ReviewInput is the review submission payload.
type ReviewInput struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// CreateReview submits a product review for the authenticated customer.
func (c *Client) CreateReview(ctx context.Context, token string, input ReviewInput) (domain.Review, error) {
	var review domain.Review
	if err := c.post(ctx, "create review", token, input, &review, "reviews"); err != nil {
		return domain.Review{}, err
	}
	return review, nil
}

// ListProductReviews returns the reviews recorded for one product.
func (c *Client) ListProductReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := c.get(ctx, "list product reviews", nil, "", &reviews, "reviews", productID); err != nil {
		return nil, err
	}
	return reviews, nil
}
