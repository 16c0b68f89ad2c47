package api

import (
	"context"
	"strings"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

// HostedSession identifies a processor-hosted payment page for one order.
type HostedSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CreateHostedSession asks the remote API for a hosted payment page URL.
func (c *Client) CreateHostedSession(ctx context.Context, token, orderID, originURL string) (HostedSession, error) {
	body := map[string]string{
		"order_id":   orderID,
		"origin_url": originURL,
	}
	var session HostedSession
	if err := c.post(ctx, "create payment session", token, body, &session, "payment", "create-session"); err != nil {
		return HostedSession{}, err
	}
	return session, nil
}

// SessionStatus reports the current outcome of a hosted payment session.
type SessionStatus struct {
	Outcome domain.SessionOutcome `json:"payment_status"`
	OrderID string                `json:"order_id"`
}

// HostedSessionStatus polls the remote status endpoint for a hosted session.
func (c *Client) HostedSessionStatus(ctx context.Context, token, sessionID string) (SessionStatus, error) {
	var status SessionStatus
	if err := c.get(ctx, "payment session status", nil, token, &status, "payment", "status", sessionID); err != nil {
		return SessionStatus{}, err
	}
	status.Outcome = domain.SessionOutcome(strings.ToLower(strings.TrimSpace(string(status.Outcome))))
	return status, nil
}

// ProcessorOrder carries the identifiers the embedded widget needs. Amount is
// in the currency's minor unit, as the processor requires.
type ProcessorOrder struct {
	ProcessorOrderID string `json:"razorpay_order_id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	KeyID            string `json:"key_id"`
}

// CreateProcessorOrder asks the remote API to open a processor order for the
// embedded widget flow.
func (c *Client) CreateProcessorOrder(ctx context.Context, token, orderID string) (ProcessorOrder, error) {
	body := map[string]string{"order_id": orderID}
	var order ProcessorOrder
	if err := c.post(ctx, "create processor order", token, body, &order, "razorpay", "create-order"); err != nil {
		return ProcessorOrder{}, err
	}
	return order, nil
}

// VerifyProcessorPayment forwards the widget completion fields to the remote
// verification endpoint. The fields are relayed untouched; signature checking
// is entirely the remote API's concern.
type VerifyProcessorPayment struct {
	ProcessorOrderID   string `json:"razorpay_order_id"`
	ProcessorPaymentID string `json:"razorpay_payment_id"`
	ProcessorSignature string `json:"razorpay_signature"`
}

// VerifyPayment relays the processor completion callback for server-side
// verification. A remote rejection surfaces as ErrRejected.
func (c *Client) VerifyPayment(ctx context.Context, token string, req VerifyProcessorPayment) error {
	return c.post(ctx, "verify payment", token, req, nil, "razorpay", "verify")
}

// ProcessorPaymentStatus reports the payment state recorded for a processor order.
func (c *Client) ProcessorPaymentStatus(ctx context.Context, processorOrderID string) (SessionStatus, error) {
	var status SessionStatus
	if err := c.get(ctx, "processor payment status", nil, "", &status, "razorpay", "status", processorOrderID); err != nil {
		return SessionStatus{}, err
	}
	status.Outcome = domain.SessionOutcome(strings.ToLower(strings.TrimSpace(string(status.Outcome))))
	return status, nil
}
