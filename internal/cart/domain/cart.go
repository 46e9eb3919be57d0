package domain

import (
	"time"

	stockdomain "github.com/dmehra2102/marketplace/internal/stock/domain"
	"github.com/dmehra2102/marketplace/pkg/apperr"
)

var (
	ErrCartLineNotFound = apperr.NotFound("cart line not found")
	ErrInvalidQuantity  = apperr.Validation("quantity must be positive")
	ErrUnknownStockLine = apperr.Validation("product stock line does not exist")
)

// CartLine is a customer's pending intent to buy Quantity units of a stock line.
// TotalPrice is fixed when the line is saved.
type CartLine struct {
	ID          int64
	CustomerID  int64
	StockLineID int64
	Quantity    int
	TotalPrice  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCartLine validates quantity against a snapshot of the stock line. The check is
// advisory; confirmation re-validates under lock.
func NewCartLine(customerID, stockLineID int64, quantity int, av stockdomain.Availability) (CartLine, error) {
	if quantity <= 0 {
		return CartLine{}, ErrInvalidQuantity
	}
	if err := av.Check(quantity); err != nil {
		return CartLine{}, err
	}
	total, err := av.TotalPrice(quantity)
	if err != nil {
		return CartLine{}, err
	}
	now := time.Now().UTC()
	return CartLine{
		CustomerID:  customerID,
		StockLineID: stockLineID,
		Quantity:    quantity,
		TotalPrice:  total,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (l CartLine) WithQuantity(quantity int, av stockdomain.Availability) (CartLine, error) {
	if quantity <= 0 {
		return CartLine{}, ErrInvalidQuantity
	}
	if err := av.Check(quantity); err != nil {
		return CartLine{}, err
	}
	total, err := av.TotalPrice(quantity)
	if err != nil {
		return CartLine{}, err
	}
	l.Quantity = quantity
	l.TotalPrice = total
	l.UpdatedAt = time.Now().UTC()
	return l, nil
}
