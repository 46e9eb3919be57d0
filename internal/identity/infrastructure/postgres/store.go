package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	notification "github.com/dmehra2102/marketplace/internal/notification/domain"
	"github.com/dmehra2102/marketplace/pkg/apperr"
	"github.com/dmehra2102/marketplace/pkg/auth"
)

var ErrUserNotFound = apperr.NotFound("user not found")

// Store resolves API tokens and user contact details.
type Store struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewStore(log *slog.Logger, pool *pgxpool.Pool) *Store {
	return &Store{log: log, pool: pool}
}

func (s *Store) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	var p auth.Principal
	err := s.pool.QueryRow(ctx, `SELECT u.id, u.email, u.is_staff
		FROM auth_tokens t JOIN users u ON u.id = t.user_id
		WHERE t.key = $1 AND u.is_active`, token).Scan(&p.UserID, &p.Email, &p.IsStaff)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.Principal{}, auth.ErrInvalidToken
	}
	if err != nil {
		return auth.Principal{}, err
	}
	return p, nil
}

func (s *Store) CustomerContact(ctx context.Context, userID int64) (notification.Contact, error) {
	var c notification.Contact
	err := s.pool.QueryRow(ctx, `SELECT email, first_name FROM users WHERE id = $1`, userID).Scan(&c.Email, &c.FirstName)
	if errors.Is(err, pgx.ErrNoRows) {
		return notification.Contact{}, ErrUserNotFound
	}
	return c, err
}

// ManagerEmails lists the addresses of everyone managing shopID, owners first.
func (s *Store) ManagerEmails(ctx context.Context, shopID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT u.email FROM shop_managers m JOIN users u ON u.id = m.user_id
		WHERE m.shop_id = $1 AND u.is_active ORDER BY m.is_owner DESC, u.id`, shopID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
