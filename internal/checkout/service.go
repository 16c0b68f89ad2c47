// Package checkout converts cart contents and contact details into a remote
// order and hands the customer to the payment processor through one of two
// configured strategies.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kushal-tech/houseofneelam/internal/api"
	"github.com/kushal-tech/houseofneelam/internal/cart"
	"github.com/kushal-tech/houseofneelam/internal/domain"
)

var (
	errCheckoutAPIRequired      = errors.New("checkout service: remote api is required")
	errCheckoutStrategyRequired = errors.New("checkout service: payment strategy is required")
)

type checkoutAPI interface {
	CreateOrder(ctx context.Context, token string, req api.CreateOrderRequest) (domain.Order, error)
	VerifyPayment(ctx context.Context, token string, req api.VerifyProcessorPayment) error
}

// ServiceDeps wires the remote API and the configured payment strategy.
type ServiceDeps struct {
	API      checkoutAPI
	Strategy PaymentStrategy
	Clock    func() time.Time
	Logger   func(ctx context.Context, event string, fields map[string]any)
}

// Service orchestrates order submission and payment initiation.
type Service struct {
	api      checkoutAPI
	strategy PaymentStrategy
	now      func() time.Time
	logger   func(ctx context.Context, event string, fields map[string]any)
}

// NewService constructs a Service enforcing dependency validation.
func NewService(deps ServiceDeps) (*Service, error) {
	if deps.API == nil {
		return nil, errCheckoutAPIRequired
	}
	if deps.Strategy == nil {
		return nil, errCheckoutStrategyRequired
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &Service{
		api:      deps.API,
		strategy: deps.Strategy,
		now:      func() time.Time { return clock().UTC() },
		logger:   logger,
	}, nil
}

// Submission carries everything the orchestrator needs for one checkout.
type Submission struct {
	Cart       *cart.Aggregate
	User       *domain.User
	Token      string
	GuestEmail string
	GuestPhone string
	OriginURL  string
}

// Checkout validates the submission, creates the remote order from the cart
// snapshot, and initiates payment. The cart is never cleared here: clearing
// happens only after a confirmed payment outcome. Failures leave the cart
// intact and are retried only by the customer repeating the action.
func (s *Service) Checkout(ctx context.Context, sub Submission) (Initiation, error) {
	if sub.Cart == nil || sub.Cart.Empty() {
		return Initiation{}, ErrEmptyCart
	}

	guestEmail := strings.TrimSpace(sub.GuestEmail)
	guestPhone := strings.TrimSpace(sub.GuestPhone)
	if sub.User == nil && (guestEmail == "" || guestPhone == "") {
		return Initiation{}, ErrMissingContactInfo
	}

	lines := sub.Cart.Lines()
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		item := domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		}
		if len(line.Images) > 0 {
			item.Image = line.Images[0]
		}
		items = append(items, item)
	}

	req := api.CreateOrderRequest{Items: items}
	contact := Contact{Email: guestEmail, Phone: guestPhone}
	if sub.User != nil {
		contact = Contact{Name: sub.User.Name, Email: sub.User.Email}
	} else {
		req.GuestEmail = &guestEmail
		req.GuestPhone = &guestPhone
	}

	order, err := s.api.CreateOrder(ctx, sub.Token, req)
	if err != nil {
		return Initiation{}, fmt.Errorf("submit order: %w", err)
	}
	s.logger(ctx, "order submitted", map[string]any{
		"orderId": order.OrderID,
		"items":   len(items),
		"total":   order.TotalAmount,
		"guest":   sub.User == nil,
	})

	initiation, err := s.strategy.Initiate(ctx, InitiateParams{
		Token:     sub.Token,
		Order:     order,
		Contact:   contact,
		OriginURL: sub.OriginURL,
	})
	if err != nil {
		return Initiation{}, fmt.Errorf("initiate payment: %w", err)
	}
	return initiation, nil
}

// CompleteEmbedded forwards the widget's completion fields for server-side
// verification. On verified success the cart is cleared; on rejection the
// cart stays intact and ErrVerificationFailed is returned. The processor may
// have captured funds, and that ambiguity is not resolved here; the processor
// references are logged for manual reconciliation.
func (s *Service) CompleteEmbedded(ctx context.Context, token string, fields api.VerifyProcessorPayment, crt *cart.Aggregate) error {
	if err := s.api.VerifyPayment(ctx, token, fields); err != nil {
		if errors.Is(err, api.ErrRejected) {
			s.logger(ctx, "payment verification rejected", map[string]any{
				"processorOrderId":   fields.ProcessorOrderID,
				"processorPaymentId": fields.ProcessorPaymentID,
			})
			return ErrVerificationFailed
		}
		return fmt.Errorf("verify payment: %w", err)
	}

	if crt != nil {
		if err := crt.Clear(ctx); err != nil {
			// The order is paid; a failed cart wipe must not fail the checkout.
			s.logger(ctx, "cart clear after payment failed", map[string]any{
				"processorOrderId": fields.ProcessorOrderID,
				"error":            err.Error(),
			})
		}
	}
	s.logger(ctx, "payment verified", map[string]any{
		"processorOrderId": fields.ProcessorOrderID,
	})
	return nil
}

// CancelEmbedded records a widget dismissal. The cart stays intact so the
// customer can retry.
func (s *Service) CancelEmbedded(ctx context.Context, orderID string) {
	s.logger(ctx, "payment cancelled", map[string]any{
		"orderId": orderID,
		"at":      s.now().Format(time.RFC3339),
	})
}
