package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/kushal-tech/houseofneelam/internal/api"
)

type hostedSessionAPI interface {
	CreateHostedSession(ctx context.Context, token, orderID, originURL string) (api.HostedSession, error)
}

// HostedRedirectStrategy asks the remote API for a processor-hosted payment
// page and instructs the browser to perform a full-page redirect to it.
type HostedRedirectStrategy struct {
	api hostedSessionAPI
}

// NewHostedRedirectStrategy constructs the hosted redirect variant.
func NewHostedRedirectStrategy(remote hostedSessionAPI) (*HostedRedirectStrategy, error) {
	if remote == nil {
		return nil, errors.New("checkout: remote api is required")
	}
	return &HostedRedirectStrategy{api: remote}, nil
}

// Initiate opens a hosted session and returns the redirect target.
func (s *HostedRedirectStrategy) Initiate(ctx context.Context, params InitiateParams) (Initiation, error) {
	session, err := s.api.CreateHostedSession(ctx, params.Token, params.Order.OrderID, strings.TrimSpace(params.OriginURL))
	if err != nil {
		return Initiation{}, err
	}
	return Initiation{
		Order:       params.Order,
		RedirectURL: session.URL,
	}, nil
}
