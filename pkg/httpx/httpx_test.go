package httpx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/marketplace/pkg/apperr"
)

type addressBody struct {
	City   string `json:"city" validate:"required,max=50"`
	Street string `json:"street" validate:"required,max=50"`
}

type payload struct {
	Quantity int          `json:"quantity" validate:"required,min=1"`
	Address  *addressBody `json:"address" validate:"required"`
}

func TestDecode(t *testing.T) {
	v := NewValidator()

	t.Run("valid", func(t *testing.T) {
		var out payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":2,"address":{"city":"Kazan","street":"Lenina"}}`))
		require.NoError(t, Decode(req, v, &out))
		assert.Equal(t, 2, out.Quantity)
		assert.Equal(t, "Kazan", out.Address.City)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		var out payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":2,"address":{"city":"a","street":"b"},"extra":1}`))
		err := Decode(req, v, &out)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("empty body", func(t *testing.T) {
		var out payload
		req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		err := Decode(req, v, &out)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("field errors use json names", func(t *testing.T) {
		var out payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":0,"address":{"city":"","street":"x"}}`))
		err := Decode(req, v, &out)
		var fe *FieldErrors
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "required", fe.Fields["quantity"])
		assert.Equal(t, "required", fe.Fields["address.city"])
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestWriteError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)

	rec := httptest.NewRecorder()
	WriteError(log, rec, req, apperr.Conflict("nothing could be ordered"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"conflict","message":"nothing could be ordered"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteError(log, rec, req, errors.New("dial tcp: refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal_error","message":"internal error"}`, rec.Body.String())
}
