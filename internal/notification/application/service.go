package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmehra2102/marketplace/internal/notification/domain"
	order "github.com/dmehra2102/marketplace/internal/order/domain"
	"github.com/dmehra2102/marketplace/pkg/apperr"
)

var ErrMalformedEvent = apperr.Validation("malformed event payload")

type Service struct {
	log      *slog.Logger
	dir      Directory
	mailer   Mailer
	attempts int
	backoff  time.Duration
}

type Option func(*Service)

// WithRetry sets how many times each lookup or mail of an event is tried.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if backoff > 0 {
			s.backoff = backoff
		}
	}
}

func NewService(log *slog.Logger, dir Directory, mailer Mailer, opts ...Option) *Service {
	s := &Service{
		log:      log,
		dir:      dir,
		mailer:   mailer,
		attempts: 3,
		backoff:  200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle notifies the people concerned by an order event. Unknown event types are
// ignored. Each step is retried on its own, so a mail that went out is not sent
// again when a later step fails.
func (s *Service) Handle(ctx context.Context, eventType string, payload []byte) error {
	switch eventType {
	case order.EventOrderCreated:
		var ev order.OrderCreated
		if err := json.Unmarshal(payload, &ev); err != nil {
			return apperr.Wrap(ErrMalformedEvent, fmt.Errorf("decode %s: %w", eventType, err))
		}
		return s.orderCreated(ctx, ev)
	case order.EventOrderStatusChanged:
		var ev order.OrderStatusChanged
		if err := json.Unmarshal(payload, &ev); err != nil {
			return apperr.Wrap(ErrMalformedEvent, fmt.Errorf("decode %s: %w", eventType, err))
		}
		return s.statusChanged(ctx, ev)
	default:
		s.log.Debug("event ignored", "type", eventType)
		return nil
	}
}

// orderCreated mails the customer before the shop managers.
func (s *Service) orderCreated(ctx context.Context, ev order.OrderCreated) error {
	var customer domain.Contact
	err := s.step(ctx, fmt.Sprintf("customer %d", ev.CustomerID), func(ctx context.Context) (err error) {
		customer, err = s.dir.CustomerContact(ctx, ev.CustomerID)
		return err
	})
	if err != nil {
		return err
	}
	err = s.step(ctx, "mail customer", func(ctx context.Context) error {
		return s.mailer.Send(ctx, domain.OrderCreatedForCustomer(ev, customer))
	})
	if err != nil {
		return err
	}

	var managers []string
	err = s.step(ctx, fmt.Sprintf("managers of shop %d", ev.ShopID), func(ctx context.Context) (err error) {
		managers, err = s.dir.ManagerEmails(ctx, ev.ShopID)
		return err
	})
	if err != nil {
		return err
	}
	if len(managers) == 0 {
		s.log.Warn("shop has no managers to notify", "shop_id", ev.ShopID, "order_id", ev.OrderID)
		return nil
	}
	err = s.step(ctx, "mail managers", func(ctx context.Context) error {
		return s.mailer.Send(ctx, domain.OrderCreatedForManagers(ev, customer, managers))
	})
	if err != nil {
		return err
	}
	s.log.Info("order created notifications sent", "order_id", ev.OrderID, "managers", len(managers))
	return nil
}

func (s *Service) statusChanged(ctx context.Context, ev order.OrderStatusChanged) error {
	var customer domain.Contact
	err := s.step(ctx, fmt.Sprintf("customer %d", ev.CustomerID), func(ctx context.Context) (err error) {
		customer, err = s.dir.CustomerContact(ctx, ev.CustomerID)
		return err
	})
	if err != nil {
		return err
	}
	err = s.step(ctx, "mail customer", func(ctx context.Context) error {
		return s.mailer.Send(ctx, domain.StatusChangedForCustomer(ev, customer))
	})
	if err != nil {
		return err
	}
	s.log.Info("status change notification sent", "order_id", ev.OrderID, "status", ev.To)
	return nil
}

// step runs fn until it succeeds or attempts run out. Classified errors such as
// an unknown user are final and end the step at once.
func (s *Service) step(ctx context.Context, name string, fn func(context.Context) error) error {
	var err error
	for i := 0; i < s.attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s: %w", name, errors.Join(err, ctx.Err()))
			case <-time.After(s.backoff * time.Duration(i)):
			}
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if apperr.KindOf(err) != apperr.KindInternal {
			break
		}
		s.log.Warn("notification step failed", "step", name, "attempt", i+1, "err", err)
	}
	return fmt.Errorf("%s: %w", name, err)
}
