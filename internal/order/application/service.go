package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	cartdomain "github.com/dmehra2102/marketplace/internal/cart/domain"
	"github.com/dmehra2102/marketplace/internal/order/domain"
	"github.com/dmehra2102/marketplace/pkg/apperr"
	"github.com/dmehra2102/marketplace/pkg/auth"
	"github.com/dmehra2102/marketplace/pkg/outbox"
	"github.com/dmehra2102/marketplace/pkg/tracing"
)

type Service struct {
	log    *slog.Logger
	runner TxRunner
	carts  CartSource
	repo   OrderRepository
	shops  ShopAccess
}

func NewService(log *slog.Logger, runner TxRunner, carts CartSource, repo OrderRepository, shops ShopAccess) *Service {
	return &Service{log: log, runner: runner, carts: carts, repo: repo, shops: shops}
}

// Confirmation is the outcome of ConfirmOrder. Events[i] describes Orders[i].
type Confirmation struct {
	Orders []domain.Order
	Events []domain.OrderCreated
}

// ConfirmOrder turns every cart line that can still be satisfied into an order.
// Each line commits or rolls back on its own; lines that fail validation or lose a
// race for stock stay in the cart.
func (s *Service) ConfirmOrder(ctx context.Context, customerID int64, addr domain.Address) (Confirmation, error) {
	addr = addr.Normalize()
	if err := addr.Validate(); err != nil {
		return Confirmation{}, err
	}
	addr.CustomerID = customerID
	addr, err := s.repo.SaveAddress(ctx, addr)
	if err != nil {
		return Confirmation{}, fmt.Errorf("save address: %w", err)
	}

	lines, err := s.carts.ListLines(ctx, customerID)
	if err != nil {
		return Confirmation{}, fmt.Errorf("list cart: %w", err)
	}
	if len(lines) == 0 {
		return Confirmation{}, domain.ErrEmptyCart
	}

	var out Confirmation
	for _, line := range lines {
		o, err := s.confirmLine(ctx, customerID, line, addr)
		if err != nil {
			if !skippable(err) {
				return Confirmation{}, fmt.Errorf("confirm cart line %d: %w", line.ID, err)
			}
			s.log.Warn("cart line skipped", "customer_id", customerID, "cart_line_id", line.ID,
				"stock_line_id", line.StockLineID, "err", err)
			continue
		}
		out.Orders = append(out.Orders, o)
		out.Events = append(out.Events, domain.NewOrderCreated(o))
	}
	if len(out.Orders) == 0 {
		return Confirmation{}, domain.ErrNothingConfirmed
	}
	s.log.Info("order confirmed", "customer_id", customerID, "orders", len(out.Orders), "cart_lines", len(lines))
	return out, nil
}

func (s *Service) confirmLine(ctx context.Context, customerID int64, line cartdomain.CartLine, addr domain.Address) (domain.Order, error) {
	var created domain.Order
	err := s.runner.InTx(ctx, func(tx Tx) error {
		stock, err := tx.LockStockLine(ctx, line.StockLineID)
		if err != nil {
			return err
		}
		if err := stock.Availability().Check(line.Quantity); err != nil {
			return err
		}
		if _, err := tx.DecrementStock(ctx, stock.ID, line.Quantity); err != nil {
			return err
		}
		o, err := domain.NewOrder(customerID, stock, line.Quantity, addr)
		if err != nil {
			return err
		}
		o, err = tx.InsertOrder(ctx, o)
		if err != nil {
			return err
		}
		if err := tx.DeleteCartLine(ctx, customerID, line.ID); err != nil {
			return err
		}
		payload, err := json.Marshal(domain.NewOrderCreated(o))
		if err != nil {
			return err
		}
		ev := outbox.NewEvent(domain.AggregateType, strconv.FormatInt(o.ID, 10), domain.EventOrderCreated, payload, tracing.Traceparent(ctx))
		if err := tx.AppendOutbox(ctx, ev); err != nil {
			return err
		}
		created = o
		return nil
	})
	return created, err
}

// skippable reports per-line failures that leave the line in the cart instead of
// failing the whole confirmation.
func skippable(err error) bool {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindNotFound, apperr.KindConflict:
		return true
	}
	return false
}

// UpdateStatus moves an order of the manager's shop to status.
func (s *Service) UpdateStatus(ctx context.Context, p auth.Principal, slug string, orderID int64, patch domain.StatusPatch) (domain.Order, error) {
	shop, err := s.shops.ManagedShop(ctx, p, slug)
	if err != nil {
		return domain.Order{}, err
	}
	if patch.DeliveryAddress {
		return domain.Order{}, domain.ErrAddressImmutable
	}
	next, err := domain.ParseStatus(patch.Status)
	if err != nil {
		return domain.Order{}, err
	}
	o, err := s.repo.GetForShop(ctx, shop.ID, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Status == next {
		return o, nil
	}
	updated, err := o.WithStatus(next)
	if err != nil {
		return domain.Order{}, err
	}
	payload, err := json.Marshal(domain.NewOrderStatusChanged(updated, o.Status))
	if err != nil {
		return domain.Order{}, err
	}
	ev := outbox.NewEvent(domain.AggregateType, strconv.FormatInt(o.ID, 10), domain.EventOrderStatusChanged, payload, tracing.Traceparent(ctx))
	updated, err = s.repo.UpdateStatus(ctx, updated, o.Status, ev)
	if err != nil {
		return domain.Order{}, err
	}
	s.log.Info("order status changed", "order_id", o.ID, "shop", slug, "from", o.Status, "to", updated.Status, "user_id", p.UserID)
	return updated, nil
}

func (s *Service) CustomerOrders(ctx context.Context, customerID int64) ([]domain.Order, error) {
	return s.repo.ListForCustomer(ctx, customerID)
}

func (s *Service) ShopOrders(ctx context.Context, p auth.Principal, slug string) ([]domain.Order, error) {
	shop, err := s.shops.ManagedShop(ctx, p, slug)
	if err != nil {
		return nil, err
	}
	return s.repo.ListForShop(ctx, shop.ID)
}
