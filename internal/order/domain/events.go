package domain

import "time"

const (
	AggregateType           = "order"
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type EventAddress struct {
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Apartment string `json:"apartment,omitempty"`
}

type OrderCreated struct {
	OrderID      int64        `json:"order_id"`
	CustomerID   int64        `json:"customer_id"`
	ShopID       int64        `json:"shop_id"`
	ShopName     string       `json:"shop_name"`
	StockLineID  int64        `json:"stock_line_id"`
	ProductName  string       `json:"product_name"`
	ProductModel string       `json:"product_model"`
	Quantity     int          `json:"quantity"`
	TotalPrice   int64        `json:"total_price"`
	Address      EventAddress `json:"delivery_address"`
	CreatedAt    time.Time    `json:"created_at"`
}

type OrderStatusChanged struct {
	OrderID      int64        `json:"order_id"`
	CustomerID   int64        `json:"customer_id"`
	ShopID       int64        `json:"shop_id"`
	ShopName     string       `json:"shop_name"`
	ProductName  string       `json:"product_name"`
	ProductModel string       `json:"product_model"`
	Quantity     int          `json:"quantity"`
	TotalPrice   int64        `json:"total_price"`
	Address      EventAddress `json:"delivery_address"`
	From         OrderStatus  `json:"from"`
	To           OrderStatus  `json:"to"`
	ChangedAt    time.Time    `json:"changed_at"`
}

func eventAddress(a Address) EventAddress {
	return EventAddress{City: a.City, Street: a.Street, House: a.House, Apartment: a.Apartment}
}

func NewOrderCreated(o Order) OrderCreated {
	return OrderCreated{
		OrderID:      o.ID,
		CustomerID:   o.CustomerID,
		ShopID:       o.ShopID,
		ShopName:     o.ShopName,
		StockLineID:  o.StockLineID,
		ProductName:  o.ProductName,
		ProductModel: o.ProductModel,
		Quantity:     o.Quantity,
		TotalPrice:   o.TotalPrice,
		Address:      eventAddress(o.Address),
		CreatedAt:    o.CreatedAt,
	}
}

func NewOrderStatusChanged(o Order, from OrderStatus) OrderStatusChanged {
	return OrderStatusChanged{
		OrderID:      o.ID,
		CustomerID:   o.CustomerID,
		ShopID:       o.ShopID,
		ShopName:     o.ShopName,
		ProductName:  o.ProductName,
		ProductModel: o.ProductModel,
		Quantity:     o.Quantity,
		TotalPrice:   o.TotalPrice,
		Address:      eventAddress(o.Address),
		From:         from,
		To:           o.Status,
		ChangedAt:    o.UpdatedAt,
	}
}
