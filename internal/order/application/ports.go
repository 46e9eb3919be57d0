package application

import (
	"context"

	cartdomain "github.com/dmehra2102/marketplace/internal/cart/domain"
	"github.com/dmehra2102/marketplace/internal/order/domain"
	stockdomain "github.com/dmehra2102/marketplace/internal/stock/domain"
	"github.com/dmehra2102/marketplace/pkg/auth"
	"github.com/dmehra2102/marketplace/pkg/outbox"
)

// Tx is the unit of work confirming a single cart line. Every call runs in the
// same database transaction.
type Tx interface {
	// LockStockLine reads the stock line and holds its row lock until the
	// transaction ends.
	LockStockLine(ctx context.Context, id int64) (stockdomain.StockLine, error)
	DecrementStock(ctx context.Context, id int64, amount int) (int, error)
	InsertOrder(ctx context.Context, o domain.Order) (domain.Order, error)
	DeleteCartLine(ctx context.Context, customerID, id int64) error
	AppendOutbox(ctx context.Context, ev outbox.Event) error
}

// TxRunner commits when fn returns nil and rolls back otherwise.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

type CartSource interface {
	ListLines(ctx context.Context, customerID int64) ([]cartdomain.CartLine, error)
}

type OrderRepository interface {
	// SaveAddress returns the customer's stored copy of addr, creating it if needed.
	SaveAddress(ctx context.Context, addr domain.Address) (domain.Address, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
	ListForShop(ctx context.Context, shopID int64) ([]domain.Order, error)
	GetForShop(ctx context.Context, shopID, id int64) (domain.Order, error)
	// UpdateStatus writes o.Status only if the stored status is still from, and
	// appends ev in the same transaction.
	UpdateStatus(ctx context.Context, o domain.Order, from domain.OrderStatus, ev outbox.Event) (domain.Order, error)
}

type ShopAccess interface {
	ManagedShop(ctx context.Context, p auth.Principal, slug string) (stockdomain.Shop, error)
}
