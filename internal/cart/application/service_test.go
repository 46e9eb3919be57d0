package application

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/marketplace/internal/cart/domain"
	stockdomain "github.com/dmehra2102/marketplace/internal/stock/domain"
)

type memCart struct {
	nextID int64
	lines  map[int64]domain.CartLine
}

func newMemCart() *memCart { return &memCart{lines: map[int64]domain.CartLine{}} }

func (m *memCart) Create(_ context.Context, l domain.CartLine) (domain.CartLine, error) {
	m.nextID++
	l.ID = m.nextID
	m.lines[l.ID] = l
	return l, nil
}

func (m *memCart) Get(_ context.Context, customerID, id int64) (domain.CartLine, error) {
	l, ok := m.lines[id]
	if !ok || l.CustomerID != customerID {
		return domain.CartLine{}, domain.ErrCartLineNotFound
	}
	return l, nil
}

func (m *memCart) UpdateQuantity(_ context.Context, l domain.CartLine) (domain.CartLine, error) {
	m.lines[l.ID] = l
	return l, nil
}

func (m *memCart) Delete(ctx context.Context, customerID, id int64) error {
	if _, err := m.Get(ctx, customerID, id); err != nil {
		return err
	}
	delete(m.lines, id)
	return nil
}

func (m *memCart) List(_ context.Context, customerID int64) ([]domain.CartLine, error) {
	var out []domain.CartLine
	for _, l := range m.lines {
		if l.CustomerID == customerID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stockSnapshot map[int64]stockdomain.Availability

func (s stockSnapshot) GetAvailability(_ context.Context, id int64) (stockdomain.Availability, error) {
	av, ok := s[id]
	if !ok {
		return stockdomain.Availability{}, stockdomain.ErrStockLineNotFound
	}
	return av, nil
}

func newService() (*Service, *memCart, stockSnapshot) {
	repo := newMemCart()
	stock := stockSnapshot{
		1: {Quantity: 10, CanBuy: true, Price: 700},
		2: {Quantity: 10, CanBuy: false, Price: 300},
	}
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, stock), repo, stock
}

func TestAddLine(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	line, err := svc.AddLine(ctx, 5, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), line.TotalPrice)
	assert.NotZero(t, line.ID)

	_, err = svc.AddLine(ctx, 5, 1, 11)
	assert.ErrorIs(t, err, stockdomain.ErrInsufficientStock)

	_, err = svc.AddLine(ctx, 5, 2, 1)
	assert.ErrorIs(t, err, stockdomain.ErrProductUnavailable)

	_, err = svc.AddLine(ctx, 5, 3, 1)
	assert.ErrorIs(t, err, domain.ErrUnknownStockLine)

	_, err = svc.AddLine(ctx, 5, 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestUpdateLineRevalidatesAgainstCurrentStock(t *testing.T) {
	svc, _, stock := newService()
	ctx := context.Background()
	line, err := svc.AddLine(ctx, 5, 1, 2)
	require.NoError(t, err)

	stock[1] = stockdomain.Availability{Quantity: 3, CanBuy: true, Price: 800}

	updated, err := svc.UpdateLine(ctx, 5, line.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2400), updated.TotalPrice)

	_, err = svc.UpdateLine(ctx, 5, line.ID, 4)
	assert.ErrorIs(t, err, stockdomain.ErrInsufficientStock)

	_, err = svc.UpdateLine(ctx, 6, line.ID, 1)
	assert.ErrorIs(t, err, domain.ErrCartLineNotFound, "another customer's line")
}

func TestRemoveAndListAreCustomerScoped(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	a1, err := svc.AddLine(ctx, 5, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, 6, 1, 1)
	require.NoError(t, err)
	a2, err := svc.AddLine(ctx, 5, 1, 2)
	require.NoError(t, err)

	lines, err := svc.ListLines(ctx, 5)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, []int64{a1.ID, a2.ID}, []int64{lines[0].ID, lines[1].ID})

	assert.ErrorIs(t, svc.RemoveLine(ctx, 6, a1.ID), domain.ErrCartLineNotFound)
	require.NoError(t, svc.RemoveLine(ctx, 5, a1.ID))

	_, err = svc.GetLine(ctx, 5, a1.ID)
	assert.ErrorIs(t, err, domain.ErrCartLineNotFound)
}
