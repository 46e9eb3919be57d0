package domain

import (
	"strings"
	"time"

	stockdomain "github.com/dmehra2102/marketplace/internal/stock/domain"
	"github.com/dmehra2102/marketplace/pkg/apperr"
)

var (
	ErrOrderNotFound       = apperr.NotFound("order not found")
	ErrEmptyCart           = apperr.NotFound("cart is empty")
	ErrNothingConfirmed    = apperr.Conflict("none of the cart items could be ordered")
	ErrInvalidStatus       = apperr.Validation("unknown order status")
	ErrOrderCancelled      = apperr.Validation("cancelled orders cannot change status")
	ErrStatusChanged       = apperr.Conflict("order status was changed concurrently")
	ErrAddressIncomplete   = apperr.Validation("delivery address requires city, street and house")
	ErrAddressFieldTooLong = apperr.Validation("delivery address field is too long")
	ErrAddressImmutable    = apperr.Validation("delivery address of an order cannot be changed")
)

// StatusPatch is a manager's edit of an order. Only Status may change;
// DeliveryAddress reports that the request also tried to replace the address.
type StatusPatch struct {
	Status          string
	DeliveryAddress bool
}

type OrderStatus string

const (
	StatusCreated   OrderStatus = "created"
	StatusConfirmed OrderStatus = "confirmed"
	StatusAssembled OrderStatus = "assembled"
	StatusSent      OrderStatus = "sent"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var statuses = []OrderStatus{StatusCreated, StatusConfirmed, StatusAssembled, StatusSent, StatusDelivered, StatusCancelled}

func ParseStatus(s string) (OrderStatus, error) {
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// CanBecome allows any move between valid states except out of cancelled.
func (s OrderStatus) CanBecome(next OrderStatus) error {
	if _, err := ParseStatus(string(next)); err != nil {
		return err
	}
	if s == StatusCancelled && next != StatusCancelled {
		return ErrOrderCancelled
	}
	return nil
}

const maxAddressField = 200

type Address struct {
	ID         int64
	CustomerID int64
	City       string
	Street     string
	House      string
	Apartment  string
}

// Normalize trims every field so equal addresses compare equal.
func (a Address) Normalize() Address {
	a.City = strings.TrimSpace(a.City)
	a.Street = strings.TrimSpace(a.Street)
	a.House = strings.TrimSpace(a.House)
	a.Apartment = strings.TrimSpace(a.Apartment)
	return a
}

func (a Address) Validate() error {
	if a.City == "" || a.Street == "" || a.House == "" {
		return ErrAddressIncomplete
	}
	for _, f := range []string{a.City, a.Street, a.House, a.Apartment} {
		if len(f) > maxAddressField {
			return ErrAddressFieldTooLong
		}
	}
	return nil
}

// SameAs compares the delivery location, ignoring ids.
func (a Address) SameAs(b Address) bool {
	return a.City == b.City && a.Street == b.Street && a.House == b.House && a.Apartment == b.Apartment
}

// Order is one confirmed cart line. Shop and product names are snapshotted at
// confirmation; only Status changes afterwards.
type Order struct {
	ID           int64
	CustomerID   int64
	StockLineID  int64
	ShopID       int64
	ShopSlug     string
	ShopName     string
	ProductName  string
	ProductModel string
	Quantity     int
	TotalPrice   int64
	Address      Address
	Status       OrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewOrder prices quantity units of the locked stock line at its current price.
func NewOrder(customerID int64, line stockdomain.StockLine, quantity int, addr Address) (Order, error) {
	total, err := line.Availability().TotalPrice(quantity)
	if err != nil {
		return Order{}, err
	}
	now := time.Now().UTC()
	return Order{
		CustomerID:   customerID,
		StockLineID:  line.ID,
		ShopID:       line.ShopID,
		ShopSlug:     line.ShopSlug,
		ShopName:     line.ShopName,
		ProductName:  line.ProductName,
		ProductModel: line.ProductModel,
		Quantity:     quantity,
		TotalPrice:   total,
		Address:      addr,
		Status:       StatusCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (o Order) WithStatus(next OrderStatus) (Order, error) {
	if err := o.Status.CanBecome(next); err != nil {
		return Order{}, err
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}
