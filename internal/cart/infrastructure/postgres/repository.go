package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/marketplace/internal/cart/domain"
)

const selectCartLine = `SELECT id, customer_id, stock_line_id, quantity, total_price, created_at, updated_at FROM cart_lines`

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func scanCartLine(row pgx.Row) (domain.CartLine, error) {
	var l domain.CartLine
	err := row.Scan(&l.ID, &l.CustomerID, &l.StockLineID, &l.Quantity, &l.TotalPrice, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CartLine{}, domain.ErrCartLineNotFound
	}
	return l, err
}

func (r *Repository) Create(ctx context.Context, l domain.CartLine) (domain.CartLine, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO cart_lines (customer_id, stock_line_id, quantity, total_price, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		l.CustomerID, l.StockLineID, l.Quantity, l.TotalPrice, l.CreatedAt, l.UpdatedAt).Scan(&l.ID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return domain.CartLine{}, domain.ErrUnknownStockLine
	}
	if err != nil {
		return domain.CartLine{}, err
	}
	return l, nil
}

func (r *Repository) Get(ctx context.Context, customerID, id int64) (domain.CartLine, error) {
	return scanCartLine(r.pool.QueryRow(ctx, selectCartLine+` WHERE id = $1 AND customer_id = $2`, id, customerID))
}

func (r *Repository) UpdateQuantity(ctx context.Context, l domain.CartLine) (domain.CartLine, error) {
	ct, err := r.pool.Exec(ctx, `UPDATE cart_lines SET quantity = $3, total_price = $4, updated_at = $5
		WHERE id = $1 AND customer_id = $2`, l.ID, l.CustomerID, l.Quantity, l.TotalPrice, l.UpdatedAt)
	if err != nil {
		return domain.CartLine{}, err
	}
	if ct.RowsAffected() == 0 {
		return domain.CartLine{}, domain.ErrCartLineNotFound
	}
	return l, nil
}

func (r *Repository) Delete(ctx context.Context, customerID, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1 AND customer_id = $2`, id, customerID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrCartLineNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, customerID int64) ([]domain.CartLine, error) {
	rows, err := r.pool.Query(ctx, selectCartLine+` WHERE customer_id = $1 ORDER BY created_at, id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
