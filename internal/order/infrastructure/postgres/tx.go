package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	cartdomain "github.com/dmehra2102/marketplace/internal/cart/domain"
	"github.com/dmehra2102/marketplace/internal/order/application"
	"github.com/dmehra2102/marketplace/internal/order/domain"
	stockdomain "github.com/dmehra2102/marketplace/internal/stock/domain"
	stockpg "github.com/dmehra2102/marketplace/internal/stock/infrastructure/postgres"
	"github.com/dmehra2102/marketplace/pkg/outbox"
)

// TxRunner runs each confirmation step in its own READ COMMITTED transaction.
// Waiting on a locked stock row longer than lockTimeout fails the step with
// ErrStockContended.
type TxRunner struct {
	log         *slog.Logger
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

func NewTxRunner(log *slog.Logger, pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{log: log, pool: pool, lockTimeout: lockTimeout}
}

func (r *TxRunner) InTx(ctx context.Context, fn func(tx application.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if r.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`,
			fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())); err != nil {
			return err
		}
	}
	if err := fn(&unitOfWork{tx: tx}); err != nil {
		return err
	}
	return stockpg.Translate(tx.Commit(ctx))
}

type unitOfWork struct {
	tx pgx.Tx
}

func (u *unitOfWork) LockStockLine(ctx context.Context, id int64) (stockdomain.StockLine, error) {
	return stockpg.ScanStockLine(u.tx.QueryRow(ctx, stockpg.SelectStockLine+` WHERE s.id = $1 FOR UPDATE OF s`, id))
}

// DecrementStock runs after LockStockLine, so zero affected rows means the
// quantity is short rather than the line missing.
func (u *unitOfWork) DecrementStock(ctx context.Context, id int64, amount int) (int, error) {
	var left int
	err := u.tx.QueryRow(ctx, `UPDATE stock_lines SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2 RETURNING quantity`, id, amount).Scan(&left)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, stockdomain.ErrInsufficientStock
	}
	if err != nil {
		return 0, stockpg.Translate(err)
	}
	return left, nil
}

func (u *unitOfWork) InsertOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	err := u.tx.QueryRow(ctx, `INSERT INTO orders (customer_id, stock_line_id, shop_id, shop_name, product_name,
			product_model, quantity, total_price, address_id, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING id`,
		o.CustomerID, o.StockLineID, o.ShopID, o.ShopName, o.ProductName, o.ProductModel,
		o.Quantity, o.TotalPrice, o.Address.ID, o.Status, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		return domain.Order{}, stockpg.Translate(err)
	}
	return o, nil
}

func (u *unitOfWork) DeleteCartLine(ctx context.Context, customerID, id int64) error {
	ct, err := u.tx.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1 AND customer_id = $2`, id, customerID)
	if err != nil {
		return stockpg.Translate(err)
	}
	if ct.RowsAffected() == 0 {
		return cartdomain.ErrCartLineNotFound
	}
	return nil
}

func (u *unitOfWork) AppendOutbox(ctx context.Context, ev outbox.Event) error {
	return insertOutbox(ctx, u.tx, ev)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertOutbox(ctx context.Context, db execer, ev outbox.Event) error {
	_, err := db.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		ev.AggregateType, ev.AggregateID, ev.Type, ev.Payload, ev.Headers, ev.Traceparent, outbox.StatusPending)
	return err
}
