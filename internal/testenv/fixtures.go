//go:build integration

package testenv

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func User(t *testing.T, pool *pgxpool.Pool, email string, staff bool) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email, is_staff) VALUES ($1, $2) RETURNING id`, email, staff).Scan(&id)
	require.NoError(t, err)
	return id
}

func Token(t *testing.T, pool *pgxpool.Pool, userID int64, key string) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `INSERT INTO auth_tokens (key, user_id) VALUES ($1, $2)`, key, userID)
	require.NoError(t, err)
}

// Shop creates a shop managed (and owned) by managerID.
func Shop(t *testing.T, pool *pgxpool.Pool, slug string, managerID int64) int64 {
	t.Helper()
	ctx := context.Background()
	var id int64
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO shops (slug, name) VALUES ($1, $1) RETURNING id`, slug).Scan(&id))
	_, err := pool.Exec(ctx, `INSERT INTO shop_managers (shop_id, user_id, is_owner) VALUES ($1, $2, TRUE)`, id, managerID)
	require.NoError(t, err)
	return id
}

// StockLine offers a new product in shopID.
func StockLine(t *testing.T, pool *pgxpool.Pool, shopID int64, name string, quantity int, price int64) int64 {
	t.Helper()
	ctx := context.Background()
	var productID, id int64
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO products (name, model) VALUES ($1, 'M1') RETURNING id`, name).Scan(&productID))
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO stock_lines (shop_id, product_id, quantity, price, can_buy)
		VALUES ($1, $2, $3, $4, TRUE) RETURNING id`, shopID, productID, quantity, price).Scan(&id))
	return id
}

func CartLine(t *testing.T, pool *pgxpool.Pool, customerID, stockLineID int64, quantity int) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(), `INSERT INTO cart_lines (customer_id, stock_line_id, quantity, total_price)
		SELECT $1::bigint, id, $3::int, price * $3::int FROM stock_lines WHERE id = $2 RETURNING id`, customerID, stockLineID, quantity).Scan(&id)
	require.NoError(t, err)
	return id
}

func StockQuantity(t *testing.T, pool *pgxpool.Pool, stockLineID int64) int {
	t.Helper()
	var q int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT quantity FROM stock_lines WHERE id = $1`, stockLineID).Scan(&q))
	return q
}
