package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/marketplace/pkg/apperr"
)

type stubTokens map[string]Principal

func (s stubTokens) Authenticate(_ context.Context, token string) (Principal, error) {
	if token == "broken" {
		return Principal{}, errors.New("pg down")
	}
	p, ok := s[token]
	if !ok {
		return Principal{}, ErrInvalidToken
	}
	return p, nil
}

func TestMiddleware(t *testing.T) {
	store := stubTokens{"abc": {UserID: 7, Email: "buyer@example.com"}}
	var gotErr error
	onError := func(w http.ResponseWriter, _ *http.Request, err error) {
		gotErr = err
		w.WriteHeader(apperr.HTTPStatus(err))
	}
	var seen Principal
	h := Middleware(store, onError)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		require.True(t, ok)
		seen = p
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		status int
		err    error
	}{
		{"valid token", "Token abc", http.StatusNoContent, nil},
		{"scheme is case insensitive", "token abc", http.StatusNoContent, nil},
		{"missing header", "", http.StatusUnauthorized, ErrMissingCredentials},
		{"wrong scheme", "Bearer abc", http.StatusUnauthorized, ErrMissingCredentials},
		{"unknown token", "Token nope", http.StatusUnauthorized, ErrInvalidToken},
		{"store failure", "Token broken", http.StatusInternalServerError, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotErr, seen = nil, Principal{}
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.err != nil {
				assert.ErrorIs(t, gotErr, tc.err)
			}
			if tc.status == http.StatusNoContent {
				assert.Equal(t, int64(7), seen.UserID)
			}
		})
	}
}
