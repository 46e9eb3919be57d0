//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/marketplace/internal/cart/domain"
	stockdomain "github.com/dmehra2102/marketplace/internal/stock/domain"
	"github.com/dmehra2102/marketplace/internal/testenv"
)

func TestRepository(t *testing.T) {
	pool := testenv.Postgres(t)
	ctx := context.Background()
	repo := NewRepository(testenv.Logger(), pool)

	manager := testenv.User(t, pool, "boss@dns.ru", false)
	shop := testenv.Shop(t, pool, "dns", manager)
	stock := testenv.StockLine(t, pool, shop, "phone", 10, 500)
	ann := testenv.User(t, pool, "ann@example.com", false)
	bob := testenv.User(t, pool, "bob@example.com", false)

	av := stockdomain.Availability{Quantity: 10, CanBuy: true, Price: 500}
	first, err := domain.NewCartLine(ann, stock, 2, av)
	require.NoError(t, err)
	first, err = repo.Create(ctx, first)
	require.NoError(t, err)
	second, err := domain.NewCartLine(ann, stock, 1, av)
	require.NoError(t, err)
	second, err = repo.Create(ctx, second)
	require.NoError(t, err)

	lines, err := repo.List(ctx, ann)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, first.ID, lines[0].ID)
	assert.Equal(t, int64(1000), lines[0].TotalPrice)

	_, err = repo.Get(ctx, bob, first.ID)
	assert.ErrorIs(t, err, domain.ErrCartLineNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, bob, first.ID), domain.ErrCartLineNotFound)

	updated, err := first.WithQuantity(5, av)
	require.NoError(t, err)
	_, err = repo.UpdateQuantity(ctx, updated)
	require.NoError(t, err)
	got, err := repo.Get(ctx, ann, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, int64(2500), got.TotalPrice)

	require.NoError(t, repo.Delete(ctx, ann, first.ID))
	lines, err = repo.List(ctx, ann)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	orphan, err := domain.NewCartLine(ann, 999999, 1, av)
	require.NoError(t, err)
	_, err = repo.Create(ctx, orphan)
	assert.ErrorIs(t, err, domain.ErrUnknownStockLine)
}
