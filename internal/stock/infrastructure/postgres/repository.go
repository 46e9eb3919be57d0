package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/marketplace/internal/stock/domain"
	"github.com/dmehra2102/marketplace/pkg/apperr"
)

// SelectStockLine reads a stock line with its shop and product names. Callers append
// the WHERE clause (and FOR UPDATE OF s when locking).
const SelectStockLine = `SELECT s.id, s.shop_id, s.product_id, s.quantity, s.price, s.can_buy,
		sh.slug, sh.name, p.name, p.model, s.updated_at
	FROM stock_lines s
	JOIN shops sh ON sh.id = s.shop_id
	JOIN products p ON p.id = s.product_id`

func ScanStockLine(row pgx.Row) (domain.StockLine, error) {
	var l domain.StockLine
	err := row.Scan(&l.ID, &l.ShopID, &l.ProductID, &l.Quantity, &l.Price, &l.CanBuy,
		&l.ShopSlug, &l.ShopName, &l.ProductName, &l.ProductModel, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StockLine{}, domain.ErrStockLineNotFound
	}
	if err != nil {
		return domain.StockLine{}, Translate(err)
	}
	return l, nil
}

// Translate maps lock contention failures to ErrStockContended.
func Translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return apperr.Wrap(domain.ErrStockContended, err)
		}
	}
	return err
}

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.StockLine, error) {
	return ScanStockLine(r.pool.QueryRow(ctx, SelectStockLine+` WHERE s.id = $1`, id))
}

func (r *Repository) Decrement(ctx context.Context, id int64, amount int) (int, error) {
	var left int
	err := r.pool.QueryRow(ctx, `UPDATE stock_lines SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2 RETURNING quantity`, id, amount).Scan(&left)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_lines WHERE id = $1)`, id).Scan(&exists); err != nil {
			return 0, err
		}
		if !exists {
			return 0, domain.ErrStockLineNotFound
		}
		return 0, domain.ErrInsufficientStock
	}
	if err != nil {
		return 0, Translate(err)
	}
	return left, nil
}

func (r *Repository) Restock(ctx context.Context, shopID, id int64, amount int) (domain.StockLine, error) {
	ct, err := r.pool.Exec(ctx, `UPDATE stock_lines SET quantity = quantity + $3, updated_at = now()
		WHERE id = $1 AND shop_id = $2`, id, shopID, amount)
	if err != nil {
		return domain.StockLine{}, Translate(err)
	}
	if ct.RowsAffected() == 0 {
		return domain.StockLine{}, domain.ErrStockLineNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, shopID, id int64, u domain.Update) (domain.StockLine, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.StockLine{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	line, err := ScanStockLine(tx.QueryRow(ctx, SelectStockLine+` WHERE s.id = $1 AND s.shop_id = $2 FOR UPDATE OF s`, id, shopID))
	if err != nil {
		return domain.StockLine{}, err
	}
	line = u.Apply(line)

	err = tx.QueryRow(ctx, `UPDATE stock_lines SET quantity = $2, price = $3, can_buy = $4, updated_at = now()
		WHERE id = $1 RETURNING updated_at`, line.ID, line.Quantity, line.Price, line.CanBuy).Scan(&line.UpdatedAt)
	if err != nil {
		return domain.StockLine{}, Translate(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.StockLine{}, Translate(err)
	}
	return line, nil
}

func (r *Repository) ShopBySlug(ctx context.Context, slug string) (domain.Shop, error) {
	var s domain.Shop
	err := r.pool.QueryRow(ctx, `SELECT id, slug, name FROM shops WHERE slug = $1`, slug).Scan(&s.ID, &s.Slug, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Shop{}, domain.ErrShopNotFound
	}
	return s, err
}

func (r *Repository) IsManager(ctx context.Context, shopID, userID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shop_managers WHERE shop_id = $1 AND user_id = $2)`,
		shopID, userID).Scan(&ok)
	return ok, err
}
