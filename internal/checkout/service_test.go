package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kushal-tech/houseofneelam/internal/api"
	"github.com/kushal-tech/houseofneelam/internal/cart"
	"github.com/kushal-tech/houseofneelam/internal/checkout"
	"github.com/kushal-tech/houseofneelam/internal/domain"
)

type stubCheckoutAPI struct {
	mu           sync.Mutex
	orderCalls   int
	verifyCalls  int
	lastOrderReq api.CreateOrderRequest
	orderResult  domain.Order
	orderErr     error
	verifyErr    error
}

func (s *stubCheckoutAPI) CreateOrder(ctx context.Context, token string, req api.CreateOrderRequest) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderCalls++
	s.lastOrderReq = req
	if s.orderErr != nil {
		return domain.Order{}, s.orderErr
	}
	return s.orderResult, nil
}

func (s *stubCheckoutAPI) VerifyPayment(ctx context.Context, token string, req api.VerifyProcessorPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifyCalls++
	return s.verifyErr
}

type stubStrategy struct {
	calls  int
	params checkout.InitiateParams
	result checkout.Initiation
	err    error
}

func (s *stubStrategy) Initiate(ctx context.Context, params checkout.InitiateParams) (checkout.Initiation, error) {
	s.calls++
	s.params = params
	if s.err != nil {
		return checkout.Initiation{}, s.err
	}
	return s.result, nil
}

type memStore struct {
	mu    sync.Mutex
	lines map[string][]domain.CartLine
}

func newMemStore() *memStore {
	return &memStore{lines: make(map[string][]domain.CartLine)}
}

func (s *memStore) Load(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, ok := s.lines[sessionID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return append([]domain.CartLine(nil), lines...), nil
}

func (s *memStore) Save(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[sessionID] = append([]domain.CartLine(nil), lines...)
	return nil
}

func (s *memStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lines, sessionID)
	return nil
}

func loadedCart(t *testing.T, products ...domain.Product) *cart.Aggregate {
	t.Helper()
	agg, err := cart.NewAggregate(newMemStore(), "sess-1")
	require.NoError(t, err)
	require.NoError(t, agg.Load(context.Background()))
	for _, p := range products {
		require.NoError(t, agg.Add(context.Background(), p, 1))
	}
	return agg
}

func newService(t *testing.T, remote *stubCheckoutAPI, strategy *stubStrategy) *checkout.Service {
	t.Helper()
	svc, err := checkout.NewService(checkout.ServiceDeps{API: remote, Strategy: strategy})
	require.NoError(t, err)
	return svc
}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Parallel()

	remote := &stubCheckoutAPI{}
	svc := newService(t, remote, &stubStrategy{})

	_, err := svc.Checkout(context.Background(), checkout.Submission{Cart: loadedCart(t)})
	require.ErrorIs(t, err, checkout.ErrEmptyCart)
	require.Equal(t, 0, remote.orderCalls)
}

func TestCheckoutGuestRequiresContactBeforeAnyCall(t *testing.T) {
	t.Parallel()

	remote := &stubCheckoutAPI{}
	strategy := &stubStrategy{}
	svc := newService(t, remote, strategy)
	crt := loadedCart(t, domain.Product{ProductID: "r1", Price: 1500})

	_, err := svc.Checkout(context.Background(), checkout.Submission{
		Cart:       crt,
		GuestEmail: "asha@example.com",
		GuestPhone: "   ",
	})
	require.ErrorIs(t, err, checkout.ErrMissingContactInfo)
	require.Equal(t, 0, remote.orderCalls)
	require.Equal(t, 0, strategy.calls)
	require.False(t, crt.Empty())
}

func TestCheckoutGuestSnapshotsCartIntoOrder(t *testing.T) {
	t.Parallel()

	remote := &stubCheckoutAPI{orderResult: domain.Order{OrderID: "ord-1", TotalAmount: 1500}}
	strategy := &stubStrategy{result: checkout.Initiation{RedirectURL: "https://pay.example/cs-1"}}
	svc := newService(t, remote, strategy)

	crt := loadedCart(t, domain.Product{
		ProductID: "r1",
		Name:      "Gold Ring",
		Price:     1500,
		Images:    []string{"first.jpg", "second.jpg"},
	})

	initiation, err := svc.Checkout(context.Background(), checkout.Submission{
		Cart:       crt,
		GuestEmail: "asha@example.com",
		GuestPhone: "+91-90000-00000",
		OriginURL:  "https://shop.example/checkout",
	})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/cs-1", initiation.RedirectURL)

	req := remote.lastOrderReq
	require.Len(t, req.Items, 1)
	require.Equal(t, "first.jpg", req.Items[0].Image)
	require.NotNil(t, req.GuestEmail)
	require.Equal(t, "asha@example.com", *req.GuestEmail)
	require.NotNil(t, req.GuestPhone)

	require.Equal(t, "ord-1", strategy.params.Order.OrderID)
	require.Equal(t, "https://shop.example/checkout", strategy.params.OriginURL)
	require.Equal(t, "asha@example.com", strategy.params.Contact.Email)

	// Initiation never clears the cart; only a confirmed outcome does.
	require.False(t, crt.Empty())
}

func TestCheckoutAuthenticatedOmitsGuestFields(t *testing.T) {
	t.Parallel()

	remote := &stubCheckoutAPI{orderResult: domain.Order{OrderID: "ord-2"}}
	strategy := &stubStrategy{}
	svc := newService(t, remote, strategy)

	user := domain.User{ID: "u1", Name: "Asha", Email: "asha@example.com"}
	_, err := svc.Checkout(context.Background(), checkout.Submission{
		Cart:  loadedCart(t, domain.Product{ProductID: "r1", Price: 100}),
		User:  &user,
		Token: "tok-1",
	})
	require.NoError(t, err)
	require.Nil(t, remote.lastOrderReq.GuestEmail)
	require.Nil(t, remote.lastOrderReq.GuestPhone)
	require.Equal(t, "Asha", strategy.params.Contact.Name)
}

func TestCheckoutOrderFailureLeavesCart(t *testing.T) {
	t.Parallel()

	remote := &stubCheckoutAPI{orderErr: &api.TransportError{Op: "create order", Err: errors.New("connection refused")}}
	strategy := &stubStrategy{}
	svc := newService(t, remote, strategy)
	crt := loadedCart(t, domain.Product{ProductID: "r1", Price: 100})

	_, err := svc.Checkout(context.Background(), checkout.Submission{
		Cart:       crt,
		GuestEmail: "a@example.com",
		GuestPhone: "123",
	})
	require.True(t, api.IsTransport(err))
	require.Equal(t, 0, strategy.calls)
	require.False(t, crt.Empty())
}

func TestCompleteEmbeddedClearsCartOnSuccess(t *testing.T) {
	t.Parallel()

	remote := &stubCheckoutAPI{}
	svc := newService(t, remote, &stubStrategy{})
	crt := loadedCart(t, domain.Product{ProductID: "r1", Price: 100})

	err := svc.CompleteEmbedded(context.Background(), "tok", api.VerifyProcessorPayment{
		ProcessorOrderID:   "rzp-ord",
		ProcessorPaymentID: "rzp-pay",
		ProcessorSignature: "sig",
	}, crt)
	require.NoError(t, err)
	require.Equal(t, 1, remote.verifyCalls)
	require.True(t, crt.Empty())
}

func TestCompleteEmbeddedRejectionKeepsCart(t *testing.T) {
	t.Parallel()

	remote := &stubCheckoutAPI{verifyErr: api.ErrRejected}
	svc := newService(t, remote, &stubStrategy{})
	crt := loadedCart(t, domain.Product{ProductID: "r1", Price: 100})

	err := svc.CompleteEmbedded(context.Background(), "tok", api.VerifyProcessorPayment{
		ProcessorOrderID: "rzp-ord",
	}, crt)
	require.ErrorIs(t, err, checkout.ErrVerificationFailed)
	require.False(t, crt.Empty())
}

func TestCompleteEmbeddedTransportFailureIsNotVerificationFailure(t *testing.T) {
	t.Parallel()

	remote := &stubCheckoutAPI{verifyErr: &api.TransportError{Op: "verify", Err: errors.New("timeout")}}
	svc := newService(t, remote, &stubStrategy{})
	crt := loadedCart(t, domain.Product{ProductID: "r1", Price: 100})

	err := svc.CompleteEmbedded(context.Background(), "tok", api.VerifyProcessorPayment{}, crt)
	require.Error(t, err)
	require.NotErrorIs(t, err, checkout.ErrVerificationFailed)
	require.False(t, crt.Empty())
}

func TestNewServiceValidation(t *testing.T) {
	t.Parallel()

	_, err := checkout.NewService(checkout.ServiceDeps{Strategy: &stubStrategy{}})
	require.Error(t, err)

	_, err = checkout.NewService(checkout.ServiceDeps{API: &stubCheckoutAPI{}})
	require.Error(t, err)
}
