// Package auth resolves requests to operators. Operators are a small
// fixed set configured through the environment, so there is no signup
// flow: a known email and token pair logs in, everything else is
// rejected.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Principal is the authenticated operator attached to a request.
type Principal struct {
	ID    string
	Email string
	Name  string
}

type operator struct {
	principal Principal
	token     string
}

// Registry holds the configured operators and their live sessions.
type Registry struct {
	operators map[string]operator // keyed by email

	mu       sync.RWMutex
	sessions map[string]Principal // keyed by session id
}

// NewRegistry parses "email:token" entries. Malformed entries are
// rejected so a typo in AUTH_OPERATORS fails at startup, not at login.
func NewRegistry(pairs []string) (*Registry, error) {
	r := &Registry{
		operators: make(map[string]operator),
		sessions:  make(map[string]Principal),
	}

	for _, pair := range pairs {
		email, token, ok := strings.Cut(pair, ":")
		email = strings.ToLower(strings.TrimSpace(email))
		token = strings.TrimSpace(token)
		if !ok || email == "" || token == "" {
			return nil, fmt.Errorf("invalid operator entry %q: must be 'email:token'", pair)
		}
		r.operators[email] = operator{
			principal: Principal{
				ID:    OperatorID(email),
				Email: email,
				Name:  displayName(email),
			},
			token: token,
		}
	}
	return r, nil
}

// OperatorID derives a stable id from the email, so the same operator
// keeps the same profile row across restarts and backends.
func OperatorID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.ToLower(email))).String()
}

// displayName turns "budi.san@example.com" into "Budi San".
func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	if len(parts) == 0 {
		return email
	}
	return strings.Join(parts, " ")
}

// Login validates the credentials and issues a new session id.
func (r *Registry) Login(email, token string) (Principal, string, error) {
	op, ok := r.operators[strings.ToLower(strings.TrimSpace(email))]
	if !ok || op.token != token {
		return Principal{}, "", ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	r.mu.Lock()
	r.sessions[sessionID] = op.principal
	r.mu.Unlock()
	return op.principal, sessionID, nil
}

// Resolve maps a session id back to its principal.
func (r *Registry) Resolve(sessionID string) (Principal, error) {
	r.mu.RLock()
	p, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return Principal{}, ErrNotAuthenticated
	}
	return p, nil
}

// ResolveToken authenticates a bearer token directly, for clients that
// skip the login form.
func (r *Registry) ResolveToken(token string) (Principal, error) {
	for _, op := range r.operators {
		if op.token == token {
			return op.principal, nil
		}
	}
	return Principal{}, ErrNotAuthenticated
}

// Revoke invalidates a session. Unknown ids are a no-op.
func (r *Registry) Revoke(sessionID string) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}

type contextKey struct{}

// WithPrincipal attaches the principal to the request context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom extracts the principal, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
