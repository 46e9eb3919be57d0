package application

import (
	"context"

	"github.com/dmehra2102/marketplace/internal/cart/domain"
	stockdomain "github.com/dmehra2102/marketplace/internal/stock/domain"
)

// CartRepository lookups are scoped to the customer; another customer's line is
// reported as ErrCartLineNotFound.
type CartRepository interface {
	Create(ctx context.Context, l domain.CartLine) (domain.CartLine, error)
	Get(ctx context.Context, customerID, id int64) (domain.CartLine, error)
	UpdateQuantity(ctx context.Context, l domain.CartLine) (domain.CartLine, error)
	Delete(ctx context.Context, customerID, id int64) error
	List(ctx context.Context, customerID int64) ([]domain.CartLine, error)
}

type StockReader interface {
	GetAvailability(ctx context.Context, stockLineID int64) (stockdomain.Availability, error)
}
