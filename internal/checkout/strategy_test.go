package checkout_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kushal-tech/houseofneelam/internal/api"
	"github.com/kushal-tech/houseofneelam/internal/checkout"
	"github.com/kushal-tech/houseofneelam/internal/domain"
)

type stubHostedAPI struct {
	gotOrderID string
	gotOrigin  string
	session    api.HostedSession
	err        error
}

func (s *stubHostedAPI) CreateHostedSession(ctx context.Context, token, orderID, originURL string) (api.HostedSession, error) {
	s.gotOrderID = orderID
	s.gotOrigin = originURL
	if s.err != nil {
		return api.HostedSession{}, s.err
	}
	return s.session, nil
}

type stubProcessorAPI struct {
	gotOrderID string
	order      api.ProcessorOrder
	err        error
}

func (s *stubProcessorAPI) CreateProcessorOrder(ctx context.Context, token, orderID string) (api.ProcessorOrder, error) {
	s.gotOrderID = orderID
	if s.err != nil {
		return api.ProcessorOrder{}, s.err
	}
	return s.order, nil
}

func TestHostedRedirectStrategy(t *testing.T) {
	t.Parallel()

	remote := &stubHostedAPI{session: api.HostedSession{SessionID: "cs-1", URL: "https://pay.example/cs-1"}}
	strategy, err := checkout.NewHostedRedirectStrategy(remote)
	require.NoError(t, err)

	initiation, err := strategy.Initiate(context.Background(), checkout.InitiateParams{
		Order:     domain.Order{OrderID: "ord-1"},
		OriginURL: " https://shop.example ",
	})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/cs-1", initiation.RedirectURL)
	require.Nil(t, initiation.Widget)
	require.Equal(t, "ord-1", remote.gotOrderID)
	require.Equal(t, "https://shop.example", remote.gotOrigin)
}

func TestEmbeddedWidgetStrategyBuildsConfig(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("script"))
	}))
	t.Cleanup(ts.Close)

	loader, err := checkout.NewScriptLoader(ts.URL)
	require.NoError(t, err)

	remote := &stubProcessorAPI{order: api.ProcessorOrder{
		ProcessorOrderID: "rzp-ord-1",
		OrderID:          "ord-1",
		Amount:           150000,
		Currency:         "inr",
		KeyID:            "rzp_key",
	}}
	strategy, err := checkout.NewEmbeddedWidgetStrategy(remote, loader, "/api/v1/checkout/script", "")
	require.NoError(t, err)

	initiation, err := strategy.Initiate(context.Background(), checkout.InitiateParams{
		Order: domain.Order{OrderID: "ord-1"},
		Contact: checkout.Contact{
			Name:  "Asha",
			Email: "asha@example.com",
			Phone: "+91-90000-00000",
		},
	})
	require.NoError(t, err)
	require.Empty(t, initiation.RedirectURL)
	require.NotNil(t, initiation.Widget)

	widget := initiation.Widget
	require.Equal(t, "/api/v1/checkout/script", widget.ScriptURL)
	require.Equal(t, "rzp-ord-1", widget.ProcessorOrderID)
	require.Equal(t, int64(150000), widget.Amount)
	require.Equal(t, "INR", widget.Currency)
	require.Equal(t, "House of Neelam", widget.Name)
	require.Equal(t, "Order ord-1", widget.Description)
	require.Equal(t, "asha@example.com", widget.PrefillEmail)
	require.Equal(t, "ord-1", remote.gotOrderID)

	// Initiation warms the script cache for the asset route.
	require.True(t, loader.Loaded())
}
