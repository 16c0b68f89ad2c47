package checkout

import (
	"context"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

// Contact carries the customer details handed to the payment processor.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// InitiateParams is everything a strategy needs to open a payment session for
// an already-created order.
type InitiateParams struct {
	Token     string
	Order     domain.Order
	Contact   Contact
	OriginURL string
}

// WidgetConfig configures the processor's embedded widget. Amount is in the
// currency's minor unit.
type WidgetConfig struct {
	ScriptURL        string `json:"script_url"`
	KeyID            string `json:"key_id"`
	ProcessorOrderID string `json:"processor_order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	PrefillName      string `json:"prefill_name,omitempty"`
	PrefillEmail     string `json:"prefill_email,omitempty"`
	PrefillContact   string `json:"prefill_contact,omitempty"`
}

// Initiation tells the browser how to proceed with payment: exactly one of
// RedirectURL (hosted flow) or Widget (embedded flow) is set.
type Initiation struct {
	Order       domain.Order  `json:"order"`
	RedirectURL string        `json:"redirect_url,omitempty"`
	Widget      *WidgetConfig `json:"widget,omitempty"`
}

// PaymentStrategy opens a payment session for an order. The two variants,
// hosted redirect and embedded widget, are selected by configuration; only
// one is ever active.
type PaymentStrategy interface {
	Initiate(ctx context.Context, params InitiateParams) (Initiation, error)
}
