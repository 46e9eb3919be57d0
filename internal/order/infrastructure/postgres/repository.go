package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/marketplace/internal/order/domain"
	"github.com/dmehra2102/marketplace/pkg/outbox"
)

const selectOrder = `SELECT o.id, o.customer_id, o.stock_line_id, o.shop_id, sh.slug, o.shop_name, o.product_name,
		o.product_model, o.quantity, o.total_price, a.id, a.customer_id, a.city, a.street, a.house, a.apartment,
		o.status, o.created_at, o.updated_at
	FROM orders o
	JOIN shops sh ON sh.id = o.shop_id
	JOIN addresses a ON a.id = o.address_id`

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	a := &o.Address
	err := row.Scan(&o.ID, &o.CustomerID, &o.StockLineID, &o.ShopID, &o.ShopSlug, &o.ShopName, &o.ProductName,
		&o.ProductModel, &o.Quantity, &o.TotalPrice, &a.ID, &a.CustomerID, &a.City, &a.Street, &a.House, &a.Apartment,
		&o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, err
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// SaveAddress relies on the (customer, city, street, house, apartment) unique key;
// the no-op update makes RETURNING yield the existing row.
func (r *Repository) SaveAddress(ctx context.Context, a domain.Address) (domain.Address, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO addresses (customer_id, city, street, house, apartment)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (customer_id, city, street, house, apartment) DO UPDATE SET city = EXCLUDED.city
		RETURNING id`, a.CustomerID, a.City, a.Street, a.House, a.Apartment).Scan(&a.ID)
	if err != nil {
		return domain.Address{}, err
	}
	return a, nil
}

func (r *Repository) ListForCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	return r.list(ctx, selectOrder+` WHERE o.customer_id = $1 ORDER BY o.created_at DESC, o.id DESC`, customerID)
}

func (r *Repository) ListForShop(ctx context.Context, shopID int64) ([]domain.Order, error) {
	return r.list(ctx, selectOrder+` WHERE o.shop_id = $1 ORDER BY o.created_at DESC, o.id DESC`, shopID)
}

func (r *Repository) GetForShop(ctx context.Context, shopID, id int64) (domain.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, selectOrder+` WHERE o.id = $1 AND o.shop_id = $2`, id, shopID))
}

func (r *Repository) UpdateStatus(ctx context.Context, o domain.Order, from domain.OrderStatus, ev outbox.Event) (domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `UPDATE orders SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		o.ID, from, o.Status, o.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	if ct.RowsAffected() == 0 {
		return domain.Order{}, domain.ErrStatusChanged
	}
	if err := insertOutbox(ctx, tx, ev); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	r.log.Debug("order status stored", "order_id", o.ID, "status", o.Status)
	return o, nil
}
