package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/kushal-tech/houseofneelam/internal/domain"
	"github.com/kushal-tech/houseofneelam/internal/platform/config"
	"github.com/kushal-tech/houseofneelam/internal/platform/requestctx"
)

// ErrInvalidSession covers every way a presented cookie can fail to verify.
var ErrInvalidSession = errors.New("session: invalid or expired session")

var errSigningKeyRequired = errors.New("session manager: signing key is required")

// Claims is the signed payload of the storefront session cookie. The remote
// token lives only here, never in client-readable storage.
type Claims struct {
	SessionID   string       `json:"sid"`
	User        *domain.User `json:"user,omitempty"`
	RemoteToken string       `json:"rtk,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and verifies signed session cookies.
type Manager struct {
	signingKey []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	clock      func() time.Time
}

// NewManager constructs a Manager from session configuration.
func NewManager(cfg config.SessionConfig) (*Manager, error) {
	if cfg.SigningKey == "" {
		return nil, errSigningKeyRequired
	}
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "neelam_session"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Manager{
		signingKey: []byte(cfg.SigningKey),
		cookieName: cookieName,
		ttl:        ttl,
		secure:     cfg.Secure,
		clock:      time.Now,
	}, nil
}

// NewSessionID mints a lexicographically sortable session identifier.
func (m *Manager) NewSessionID() string {
	now := m.clock()
	return ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
}

// Issue signs a session cookie and writes it to the response.
func (m *Manager) Issue(w http.ResponseWriter, claims Claims) error {
	now := m.clock()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return fmt.Errorf("session: sign token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Parse reads and verifies the session cookie from a request.
func (m *Manager) Parse(r *http.Request) (Claims, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return Claims{}, ErrInvalidSession
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.signingKey, nil
	}, jwt.WithTimeFunc(m.clock))
	if err != nil || !token.Valid || claims.SessionID == "" {
		return Claims{}, ErrInvalidSession
	}
	return claims, nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware ensures every request carries a session. Requests without a
// valid cookie get a fresh anonymous session minted on the spot so the cart
// store always has a stable key to hang state on.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.Parse(r)
		if err != nil {
			claims = Claims{SessionID: m.NewSessionID()}
			if issueErr := m.Issue(w, claims); issueErr != nil {
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
		}

		ctx := requestctx.WithSessionID(r.Context(), claims.SessionID)
		if claims.User != nil {
			ctx = requestctx.WithUser(ctx, *claims.User)
		}
		if claims.RemoteToken != "" {
			ctx = requestctx.WithRemoteToken(ctx, claims.RemoteToken)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Login re-issues the session cookie with the exchanged identity attached.
// The session id is preserved so the anonymous cart follows the user in.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, exchanged domain.User, remoteToken string) (Claims, error) {
	sessionID := requestctx.SessionID(r.Context())
	if sessionID == "" {
		sessionID = m.NewSessionID()
	}
	claims := Claims{
		SessionID:   sessionID,
		User:        &exchanged,
		RemoteToken: remoteToken,
	}
	if err := m.Issue(w, claims); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

// Logout strips the identity but keeps the session id, matching the remote
// API's behaviour of leaving the anonymous cart in place.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	sessionID := requestctx.SessionID(r.Context())
	if sessionID == "" {
		m.Clear(w)
		return nil
	}
	return m.Issue(w, Claims{SessionID: sessionID})
}
