package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stockdomain "github.com/dmehra2102/marketplace/internal/stock/domain"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"created", "confirmed", "assembled", "sent", "delivered", "cancelled"} {
		st, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(st))
	}
	_, err := ParseStatus("lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusTransitions(t *testing.T) {
	assert.NoError(t, StatusCreated.CanBecome(StatusDelivered))
	assert.NoError(t, StatusSent.CanBecome(StatusConfirmed))
	assert.NoError(t, StatusDelivered.CanBecome(StatusCancelled))
	assert.NoError(t, StatusCancelled.CanBecome(StatusCancelled))
	assert.ErrorIs(t, StatusCancelled.CanBecome(StatusCreated), ErrOrderCancelled)
	assert.ErrorIs(t, StatusCreated.CanBecome("shipped"), ErrInvalidStatus)
}

func TestAddressValidate(t *testing.T) {
	a := Address{City: " Moscow ", Street: "Tverskaya", House: "1"}.Normalize()
	require.NoError(t, a.Validate())
	assert.Equal(t, "Moscow", a.City)

	assert.ErrorIs(t, Address{City: "Moscow", House: "1"}.Validate(), ErrAddressIncomplete)
	assert.ErrorIs(t, Address{City: "Moscow", Street: "x", House: strings.Repeat("1", 201)}.Validate(), ErrAddressFieldTooLong)

	b := Address{ID: 9, CustomerID: 1, City: "Moscow", Street: "Tverskaya", House: "1"}
	assert.True(t, a.SameAs(b))
	b.Apartment = "12"
	assert.False(t, a.SameAs(b))
}

func TestNewOrderUsesCurrentPrice(t *testing.T) {
	line := stockdomain.StockLine{ID: 5, ShopID: 2, ShopName: "DNS", ProductName: "iPhone", ProductModel: "15", Quantity: 10, Price: 1250, CanBuy: true}
	o, err := NewOrder(1, line, 3, Address{City: "c", Street: "s", House: "h"})
	require.NoError(t, err)

	assert.Equal(t, int64(3750), o.TotalPrice)
	assert.Equal(t, StatusCreated, o.Status)
	assert.Equal(t, "DNS", o.ShopName)

	ev := NewOrderCreated(o)
	assert.Equal(t, int64(3750), ev.TotalPrice)
	assert.Equal(t, "c", ev.Address.City)
}

func TestWithStatus(t *testing.T) {
	o := Order{ID: 1, Status: StatusCreated}
	next, err := o.WithStatus(StatusSent)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, next.Status)
	assert.Equal(t, StatusCreated, o.Status)

	ev := NewOrderStatusChanged(next, o.Status)
	assert.Equal(t, StatusCreated, ev.From)
	assert.Equal(t, StatusSent, ev.To)

	cancelled := Order{Status: StatusCancelled}
	_, err = cancelled.WithStatus(StatusSent)
	assert.ErrorIs(t, err, ErrOrderCancelled)
}

func TestNewOrderRejectsOverflowingTotal(t *testing.T) {
	line := stockdomain.StockLine{ID: 5, Quantity: 10, Price: 1<<62 + 1, CanBuy: true}
	_, err := NewOrder(1, line, 4, Address{City: "c", Street: "s", House: "h"})
	assert.ErrorIs(t, err, stockdomain.ErrPriceOverflow)
}
