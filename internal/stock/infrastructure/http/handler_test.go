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

	"github.com/dmehra2102/marketplace/internal/stock/domain"
	"github.com/dmehra2102/marketplace/pkg/auth"
)

type stubService struct {
	lastUpdate domain.Update
	lastSlug   string
}

func (s *stubService) Get(_ context.Context, id int64) (domain.StockLine, error) {
	if id != 1 {
		return domain.StockLine{}, domain.ErrStockLineNotFound
	}
	return domain.StockLine{ID: 1, ShopSlug: "dns", ProductName: "iPhone", Quantity: 4, Price: 9900, CanBuy: true}, nil
}

func (s *stubService) UpdateLine(_ context.Context, p auth.Principal, slug string, id int64, u domain.Update) (domain.StockLine, error) {
	if p.UserID != 7 {
		return domain.StockLine{}, domain.ErrNotShopManager
	}
	s.lastSlug, s.lastUpdate = slug, u
	return u.Apply(domain.StockLine{ID: id, ShopSlug: slug, Quantity: 4, Price: 9900, CanBuy: true}), nil
}

func (s *stubService) Restock(_ context.Context, _ auth.Principal, slug string, id int64, amount int) (domain.StockLine, error) {
	return domain.StockLine{ID: id, ShopSlug: slug, Quantity: 4 + amount}, nil
}

func newRouter(svc StockService, userID int64) http.Handler {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	asUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), auth.Principal{UserID: userID})))
		})
	}
	r := chi.NewRouter()
	h.Register(r, asUser)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rdr io.Reader = http.NoBody
	if body != "" {
		rdr = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, rdr))
	return rec
}

func TestGetStockLine(t *testing.T) {
	r := newRouter(&stubService{}, 7)

	rec := do(r, http.MethodGet, "/stock/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got stockLineResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 4, got.Quantity)
	assert.Equal(t, "dns", got.Shop)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/stock/2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/stock/abc", "").Code)
}

func TestUpdateStockLine(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc, 7)

	rec := do(r, http.MethodPatch, "/shop/dns/stock/1", `{"quantity":12,"can_buy":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var got stockLineResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 12, got.Quantity)
	assert.False(t, got.CanBuy)
	assert.Equal(t, "dns", svc.lastSlug)
	assert.Nil(t, svc.lastUpdate.Price)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/shop/dns/stock/1", `{"quantity":-1}`).Code)
	assert.Equal(t, http.StatusForbidden, do(newRouter(svc, 8), http.MethodPatch, "/shop/dns/stock/1", `{"quantity":1}`).Code)
}

func TestRestock(t *testing.T) {
	r := newRouter(&stubService{}, 7)

	rec := do(r, http.MethodPost, "/shop/dns/stock/1/restock", `{"amount":6}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity":10`)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/shop/dns/stock/1/restock", `{"amount":0}`).Code)
}
