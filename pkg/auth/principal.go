package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmehra2102/marketplace/pkg/apperr"
)

var (
	ErrMissingCredentials = apperr.Unauthorized("authentication credentials were not provided")
	ErrInvalidToken       = apperr.Unauthorized("invalid token")
)

// Principal is the authenticated caller. Staff principals act as administrators.
type Principal struct {
	UserID  int64
	Email   string
	IsStaff bool
}

type TokenStore interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

// Middleware resolves "Authorization: Token <key>" and rejects the request when the
// header is absent or the key is unknown. onError writes the failure response.
func Middleware(store TokenStore, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := tokenFromHeader(r.Header.Get("Authorization"))
			if !ok {
				onError(w, r, ErrMissingCredentials)
				return
			}
			p, err := store.Authenticate(r.Context(), token)
			if err != nil {
				if apperr.KindOf(err) != apperr.KindInternal {
					err = ErrInvalidToken
				}
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func tokenFromHeader(h string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found || !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
