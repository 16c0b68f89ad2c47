package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

const sessionTokenCookie = "session_token"

// ExchangedSession is the result of turning an identity-provider session id
// into a remote user session.
type ExchangedSession struct {
	User  domain.User
	Token string
}

type exchangePayload struct {
	UserID       string      `json:"user_id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	SessionToken string      `json:"session_token"`
}

func (p exchangePayload) user() domain.User {
	role := p.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	return domain.User{ID: p.UserID, Name: p.Name, Email: p.Email, Role: role}
}

// ExchangeSession trades the opaque identity-provider session id for a remote
// user session. The session token arrives either as a response cookie or as a
// body field; both are honoured.
func (c *Client) ExchangeSession(ctx context.Context, sessionID string) (ExchangedSession, error) {
	const op = "exchange session"
	endpoint, err := c.endpoint("auth", "session")
	if err != nil {
		return ExchangedSession{}, fmt.Errorf("api: %s: %w", op, err)
	}
	query := url.Values{}
	query.Set("session_id", sessionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return ExchangedSession{}, fmt.Errorf("api: %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return ExchangedSession{}, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return ExchangedSession{}, &TransportError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode >= 400:
		return ExchangedSession{}, fmt.Errorf("api: %s: status %d: %w", op, resp.StatusCode, ErrUnauthorized)
	}

	var payload exchangePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ExchangedSession{}, fmt.Errorf("api: %s: decode response: %w", op, err)
	}

	token := payload.SessionToken
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionTokenCookie && cookie.Value != "" {
			token = cookie.Value
		}
	}
	if token == "" {
		return ExchangedSession{}, fmt.Errorf("api: %s: no session token issued: %w", op, ErrUnauthorized)
	}

	return ExchangedSession{User: payload.user(), Token: token}, nil
}

// Me returns the user bound to the remote session token.
func (c *Client) Me(ctx context.Context, token string) (domain.User, error) {
	var payload exchangePayload
	if err := c.get(ctx, "auth me", nil, token, &payload, "auth", "me"); err != nil {
		return domain.User{}, err
	}
	return payload.user(), nil
}

// Logout invalidates the remote session token.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.post(ctx, "auth logout", token, nil, nil, "auth", "logout")
}

// AdminLogin authenticates a back-office operator with static credentials.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (ExchangedSession, error) {
	body := map[string]string{"username": username, "password": password}
	var payload exchangePayload
	if err := c.post(ctx, "admin login", "", body, &payload, "admin", "login"); err != nil {
		return ExchangedSession{}, err
	}
	if payload.SessionToken == "" {
		return ExchangedSession{}, fmt.Errorf("api: admin login: no session token issued: %w", ErrUnauthorized)
	}
	return ExchangedSession{User: payload.user(), Token: payload.SessionToken}, nil
}
