package domain

import (
	"math"
	"time"

	"github.com/dmehra2102/marketplace/pkg/apperr"
)

var (
	ErrStockLineNotFound  = apperr.NotFound("stock line not found")
	ErrShopNotFound       = apperr.NotFound("shop not found")
	ErrProductUnavailable = apperr.Validation("product is not available for order")
	ErrInsufficientStock  = apperr.Validation("not enough product in stock")
	ErrStockContended     = apperr.Conflict("stock line is being modified concurrently")
	ErrNotShopManager     = apperr.Forbidden("only shop managers can make changes")
	ErrNegativeQuantity   = apperr.Validation("quantity must not be negative")
	ErrNegativePrice      = apperr.Validation("price must not be negative")
	ErrInvalidAmount      = apperr.Validation("amount must be positive")
	ErrPriceTooHigh       = apperr.Validation("price exceeds the allowed maximum")
	ErrPriceOverflow      = apperr.Validation("total price is out of range")
)

// MaxPrice is the largest unit price a manager may set, in minor units.
const MaxPrice int64 = 1_000_000_000_000

type Shop struct {
	ID   int64
	Slug string
	Name string
}

// StockLine is a product offered by one shop. Product and shop names are carried
// along for order snapshots and notifications.
type StockLine struct {
	ID           int64
	ShopID       int64
	ProductID    int64
	Quantity     int
	Price        int64
	CanBuy       bool
	ShopSlug     string
	ShopName     string
	ProductName  string
	ProductModel string
	UpdatedAt    time.Time
}

type Availability struct {
	Quantity int   `json:"quantity"`
	CanBuy   bool  `json:"can_buy"`
	Price    int64 `json:"price"`
}

func (s StockLine) Availability() Availability {
	return Availability{Quantity: s.Quantity, CanBuy: s.CanBuy, Price: s.Price}
}

// Check reports whether quantity units can be bought right now.
func (a Availability) Check(quantity int) error {
	if !a.CanBuy {
		return ErrProductUnavailable
	}
	if quantity > a.Quantity {
		return ErrInsufficientStock
	}
	return nil
}

// TotalPrice is the exact integer price of quantity units. It fails rather than
// wrap when the product does not fit in an int64.
func (a Availability) TotalPrice(quantity int) (int64, error) {
	if a.Price > 0 && int64(quantity) > math.MaxInt64/a.Price {
		return 0, ErrPriceOverflow
	}
	return int64(quantity) * a.Price, nil
}

// Update is a manager's partial edit of a stock line. Nil fields are left as is.
type Update struct {
	Quantity *int
	Price    *int64
	CanBuy   *bool
}

func (u Update) Validate() error {
	if u.Quantity != nil && *u.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if u.Price != nil && *u.Price < 0 {
		return ErrNegativePrice
	}
	if u.Price != nil && *u.Price > MaxPrice {
		return ErrPriceTooHigh
	}
	return nil
}

func (u Update) Apply(s StockLine) StockLine {
	if u.Quantity != nil {
		s.Quantity = *u.Quantity
	}
	if u.Price != nil {
		s.Price = *u.Price
	}
	if u.CanBuy != nil {
		s.CanBuy = *u.CanBuy
	}
	return s
}
