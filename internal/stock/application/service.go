package application

import (
	"context"
	"log/slog"

	"github.com/dmehra2102/marketplace/internal/stock/domain"
	"github.com/dmehra2102/marketplace/pkg/auth"
)

type Service struct {
	log   *slog.Logger
	repo  StockRepository
	shops ShopDirectory
}

func NewService(log *slog.Logger, repo StockRepository, shops ShopDirectory) *Service {
	return &Service{log: log, repo: repo, shops: shops}
}

// GetAvailability is a point-in-time read. Callers outside the confirmation
// transaction must treat it as advisory.
func (s *Service) GetAvailability(ctx context.Context, id int64) (domain.Availability, error) {
	line, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Availability{}, err
	}
	return line.Availability(), nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.StockLine, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Decrement(ctx context.Context, id int64, amount int) (int, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	left, err := s.repo.Decrement(ctx, id, amount)
	if err != nil {
		return 0, err
	}
	s.log.Info("stock decremented", "stock_line_id", id, "amount", amount, "quantity", left)
	return left, nil
}

// ManagedShop resolves slug and checks that p manages it. Staff manage every shop.
func (s *Service) ManagedShop(ctx context.Context, p auth.Principal, slug string) (domain.Shop, error) {
	shop, err := s.shops.ShopBySlug(ctx, slug)
	if err != nil {
		return domain.Shop{}, err
	}
	if p.IsStaff {
		return shop, nil
	}
	ok, err := s.shops.IsManager(ctx, shop.ID, p.UserID)
	if err != nil {
		return domain.Shop{}, err
	}
	if !ok {
		return domain.Shop{}, domain.ErrNotShopManager
	}
	return shop, nil
}

func (s *Service) UpdateLine(ctx context.Context, p auth.Principal, slug string, id int64, u domain.Update) (domain.StockLine, error) {
	if err := u.Validate(); err != nil {
		return domain.StockLine{}, err
	}
	shop, err := s.ManagedShop(ctx, p, slug)
	if err != nil {
		return domain.StockLine{}, err
	}
	line, err := s.repo.Update(ctx, shop.ID, id, u)
	if err != nil {
		return domain.StockLine{}, err
	}
	s.log.Info("stock line updated", "stock_line_id", id, "shop_id", shop.ID, "user_id", p.UserID)
	return line, nil
}

func (s *Service) Restock(ctx context.Context, p auth.Principal, slug string, id int64, amount int) (domain.StockLine, error) {
	if amount <= 0 {
		return domain.StockLine{}, domain.ErrInvalidAmount
	}
	shop, err := s.ManagedShop(ctx, p, slug)
	if err != nil {
		return domain.StockLine{}, err
	}
	line, err := s.repo.Restock(ctx, shop.ID, id, amount)
	if err != nil {
		return domain.StockLine{}, err
	}
	s.log.Info("stock line restocked", "stock_line_id", id, "amount", amount, "quantity", line.Quantity)
	return line, nil
}
