package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/kushal-tech/houseofneelam/internal/api"
)

type processorOrderAPI interface {
	CreateProcessorOrder(ctx context.Context, token, orderID string) (api.ProcessorOrder, error)
}

// EmbeddedWidgetStrategy opens a processor order through the remote API and
// returns the configuration the browser needs to render the processor's
// in-page widget.
type EmbeddedWidgetStrategy struct {
	api       processorOrderAPI
	loader    *ScriptLoader
	scriptURL string
	shopName  string
}

// NewEmbeddedWidgetStrategy constructs the embedded widget variant. scriptURL
// is the path the storefront serves the (acquire-once) widget script from.
func NewEmbeddedWidgetStrategy(remote processorOrderAPI, loader *ScriptLoader, scriptURL, shopName string) (*EmbeddedWidgetStrategy, error) {
	if remote == nil {
		return nil, errors.New("checkout: remote api is required")
	}
	if loader == nil {
		return nil, errors.New("checkout: script loader is required")
	}
	if shopName == "" {
		shopName = "House of Neelam"
	}
	return &EmbeddedWidgetStrategy{
		api:       remote,
		loader:    loader,
		scriptURL: scriptURL,
		shopName:  shopName,
	}, nil
}

// Initiate opens the processor order and assembles the widget configuration,
// warming the script cache so the widget asset is ready before the browser
// asks for it.
func (s *EmbeddedWidgetStrategy) Initiate(ctx context.Context, params InitiateParams) (Initiation, error) {
	processorOrder, err := s.api.CreateProcessorOrder(ctx, params.Token, params.Order.OrderID)
	if err != nil {
		return Initiation{}, err
	}

	// Best effort: a cold script cache is filled on first asset request anyway.
	_, _ = s.loader.Load(ctx)

	widget := &WidgetConfig{
		ScriptURL:        s.scriptURL,
		KeyID:            processorOrder.KeyID,
		ProcessorOrderID: processorOrder.ProcessorOrderID,
		Amount:           processorOrder.Amount,
		Currency:         strings.ToUpper(processorOrder.Currency),
		Name:             s.shopName,
		Description:      "Order " + params.Order.OrderID,
		PrefillName:      params.Contact.Name,
		PrefillEmail:     params.Contact.Email,
		PrefillContact:   params.Contact.Phone,
	}
	return Initiation{
		Order:  params.Order,
		Widget: widget,
	}, nil
}
