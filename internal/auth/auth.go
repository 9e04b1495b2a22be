// Package auth issues and checks admin session tokens and the per-action
// request-forgery tokens embedded in admin forms.
package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"urlexport/internal/config"
)

// CapManageOptions is the capability required to run exports.
const CapManageOptions = "manage_options"

const (
	audienceSession = "urlexport-session"
	audienceAction  = "urlexport-action"
)

var (
	ErrUnauthenticated = errors.New("not logged in")
	ErrInvalidToken    = errors.New("the link you followed has expired")
	ErrForbidden       = errors.New("you do not have sufficient permissions to access this page")
)

// SessionClaims identify a logged-in admin user. Subject is the user login.
type SessionClaims struct {
	Capabilities []string `json:"caps"`
	jwt.RegisteredClaims
}

// Can reports whether the session carries capability.
func (c *SessionClaims) Can(capability string) bool {
	return c != nil && slices.Contains(c.Capabilities, capability)
}

// Require returns an error wrapping ErrForbidden unless the session carries capability.
func (c *SessionClaims) Require(capability string) error {
	if !c.Can(capability) {
		return fmt.Errorf("%w: missing capability %s", ErrForbidden, capability)
	}
	return nil
}

// ActionClaims bind a form submission to one user and one action.
type ActionClaims struct {
	Action string `json:"action"`
	jwt.RegisteredClaims
}

// Manager signs and validates HS256 tokens.
type Manager struct {
	secret     []byte
	sessionTTL time.Duration
	actionTTL  time.Duration
	now        func() time.Time
}

// NewManager creates a token manager. The secret is required.
func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("auth jwt secret is required")
	}
	m := &Manager{
		secret:     []byte(cfg.JWTSecret),
		sessionTTL: cfg.SessionTTL,
		actionTTL:  cfg.ActionTTL,
		now:        time.Now,
	}
	if m.sessionTTL <= 0 {
		m.sessionTTL = 12 * time.Hour
	}
	if m.actionTTL <= 0 {
		m.actionTTL = 24 * time.Hour
	}
	return m, nil
}

// IssueSession returns a session token for user with the given capabilities.
func (m *Manager) IssueSession(user string, caps []string) (string, error) {
	now := m.now()
	claims := &SessionClaims{
		Capabilities: caps,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user,
			Audience:  jwt.ClaimStrings{audienceSession},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.sessionTTL)),
		},
	}
	return m.sign(claims)
}

// ParseSession validates a session token. Errors wrap ErrUnauthenticated.
func (m *Manager) ParseSession(token string) (*SessionClaims, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims := &SessionClaims{}
	if err := m.parse(token, claims, audienceSession); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrUnauthenticated)
	}
	return claims, nil
}

// IssueActionToken returns a token valid only for user submitting action.
func (m *Manager) IssueActionToken(user, action string) (string, error) {
	now := m.now()
	claims := &ActionClaims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user,
			Audience:  jwt.ClaimStrings{audienceAction},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.actionTTL)),
		},
	}
	return m.sign(claims)
}

// VerifyActionToken checks token was issued to user for action. Errors wrap ErrInvalidToken.
func (m *Manager) VerifyActionToken(token, user, action string) error {
	if token == "" {
		return fmt.Errorf("%w: missing token", ErrInvalidToken)
	}
	claims := &ActionClaims{}
	if err := m.parse(token, claims, audienceAction); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Action != action || claims.Subject != user {
		return fmt.Errorf("%w: token bound to another action or user", ErrInvalidToken)
	}
	return nil
}

func (m *Manager) sign(claims jwt.Claims) (string, error) {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return s, nil
}

func (m *Manager) parse(token string, claims jwt.Claims, audience string) error {
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	return err
}
