package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmehra2102/marketplace/internal/cart/domain"
	stockdomain "github.com/dmehra2102/marketplace/internal/stock/domain"
)

type Service struct {
	log   *slog.Logger
	repo  CartRepository
	stock StockReader
}

func NewService(log *slog.Logger, repo CartRepository, stock StockReader) *Service {
	return &Service{log: log, repo: repo, stock: stock}
}

func (s *Service) AddLine(ctx context.Context, customerID, stockLineID int64, quantity int) (domain.CartLine, error) {
	if quantity <= 0 {
		return domain.CartLine{}, domain.ErrInvalidQuantity
	}
	av, err := s.availability(ctx, stockLineID)
	if err != nil {
		return domain.CartLine{}, err
	}
	line, err := domain.NewCartLine(customerID, stockLineID, quantity, av)
	if err != nil {
		return domain.CartLine{}, err
	}
	line, err = s.repo.Create(ctx, line)
	if err != nil {
		return domain.CartLine{}, err
	}
	s.log.Info("cart line added", "cart_line_id", line.ID, "customer_id", customerID,
		"stock_line_id", stockLineID, "quantity", quantity)
	return line, nil
}

func (s *Service) UpdateLine(ctx context.Context, customerID, id int64, quantity int) (domain.CartLine, error) {
	line, err := s.repo.Get(ctx, customerID, id)
	if err != nil {
		return domain.CartLine{}, err
	}
	if quantity <= 0 {
		return domain.CartLine{}, domain.ErrInvalidQuantity
	}
	av, err := s.availability(ctx, line.StockLineID)
	if err != nil {
		return domain.CartLine{}, err
	}
	line, err = line.WithQuantity(quantity, av)
	if err != nil {
		return domain.CartLine{}, err
	}
	return s.repo.UpdateQuantity(ctx, line)
}

func (s *Service) RemoveLine(ctx context.Context, customerID, id int64) error {
	if err := s.repo.Delete(ctx, customerID, id); err != nil {
		return err
	}
	s.log.Info("cart line removed", "cart_line_id", id, "customer_id", customerID)
	return nil
}

func (s *Service) GetLine(ctx context.Context, customerID, id int64) (domain.CartLine, error) {
	return s.repo.Get(ctx, customerID, id)
}

// ListLines returns the customer's cart in creation order.
func (s *Service) ListLines(ctx context.Context, customerID int64) ([]domain.CartLine, error) {
	return s.repo.List(ctx, customerID)
}

func (s *Service) availability(ctx context.Context, stockLineID int64) (stockdomain.Availability, error) {
	av, err := s.stock.GetAvailability(ctx, stockLineID)
	if errors.Is(err, stockdomain.ErrStockLineNotFound) {
		return stockdomain.Availability{}, domain.ErrUnknownStockLine
	}
	return av, err
}
