package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/marketplace/internal/cart/domain"
	stockdomain "github.com/dmehra2102/marketplace/internal/stock/domain"
	"github.com/dmehra2102/marketplace/pkg/auth"
	"github.com/dmehra2102/marketplace/pkg/httpx"
)

// stubCart owns line 1 for customer 7 only.
type stubCart struct {
	removed []int64
}

func (s *stubCart) AddLine(_ context.Context, customerID, stockLineID int64, quantity int) (domain.CartLine, error) {
	if quantity > 5 {
		return domain.CartLine{}, stockdomain.ErrInsufficientStock
	}
	return domain.CartLine{ID: 11, CustomerID: customerID, StockLineID: stockLineID, Quantity: quantity, TotalPrice: int64(quantity) * 100}, nil
}

func (s *stubCart) UpdateLine(_ context.Context, customerID, id int64, quantity int) (domain.CartLine, error) {
	if customerID != 7 || id != 1 {
		return domain.CartLine{}, domain.ErrCartLineNotFound
	}
	return domain.CartLine{ID: id, CustomerID: customerID, StockLineID: 3, Quantity: quantity, TotalPrice: int64(quantity) * 100}, nil
}

func (s *stubCart) RemoveLine(_ context.Context, customerID, id int64) error {
	if customerID != 7 || id != 1 {
		return domain.ErrCartLineNotFound
	}
	s.removed = append(s.removed, id)
	return nil
}

func (s *stubCart) GetLine(_ context.Context, customerID, id int64) (domain.CartLine, error) {
	if customerID != 7 || id != 1 {
		return domain.CartLine{}, domain.ErrCartLineNotFound
	}
	return domain.CartLine{ID: 1, CustomerID: 7, StockLineID: 3, Quantity: 2, TotalPrice: 200}, nil
}

func (s *stubCart) ListLines(_ context.Context, customerID int64) ([]domain.CartLine, error) {
	if customerID != 7 {
		return nil, nil
	}
	return []domain.CartLine{{ID: 1, StockLineID: 3, Quantity: 2}, {ID: 2, StockLineID: 4, Quantity: 1}}, nil
}

func newRouter(svc CartService, userID int64) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := tokenStore{"secret": auth.Principal{UserID: userID}}
	r := chi.NewRouter()
	NewHandler(log, svc).Register(r, auth.Middleware(store, httpx.ErrorWriter(log)))
	return r
}

type tokenStore map[string]auth.Principal

func (s tokenStore) Authenticate(_ context.Context, token string) (auth.Principal, error) {
	p, ok := s[token]
	if !ok {
		return auth.Principal{}, auth.ErrInvalidToken
	}
	return p, nil
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rdr io.Reader = http.NoBody
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Authorization", "Token secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAddLine(t *testing.T) {
	r := newRouter(&stubCart{}, 7)

	rec := do(r, http.MethodPost, "/cart", `{"product_stock_line_id":3,"quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var got cartLineResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(3), got.StockLineID)
	assert.Equal(t, int64(200), got.TotalPrice)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/cart", `{"product_stock_line_id":3,"quantity":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/cart", `{"product_stock_line_id":3,"quantity":9}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/cart", `{"quantity":1}`).Code)
}

func TestCartRequiresToken(t *testing.T) {
	r := newRouter(&stubCart{}, 7)

	req := httptest.NewRequest(http.MethodGet, "/cart", http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/cart", http.NoBody)
	req.Header.Set("Authorization", "Token nope")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateAndRemoveAreCustomerScoped(t *testing.T) {
	svc := &stubCart{}
	owner := newRouter(svc, 7)
	other := newRouter(svc, 8)

	rec := do(owner, http.MethodPatch, "/cart/1", `{"quantity":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity":4`)

	assert.Equal(t, http.StatusNotFound, do(other, http.MethodPatch, "/cart/1", `{"quantity":4}`).Code)
	assert.Equal(t, http.StatusNotFound, do(other, http.MethodDelete, "/cart/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(other, http.MethodGet, "/cart/1", "").Code)
	assert.Empty(t, svc.removed)

	assert.Equal(t, http.StatusNoContent, do(owner, http.MethodDelete, "/cart/1", "").Code)
	assert.Equal(t, []int64{1}, svc.removed)
}

func TestListLines(t *testing.T) {
	rec := do(newRouter(&stubCart{}, 7), http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []cartLineResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)

	rec = do(newRouter(&stubCart{}, 8), http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
