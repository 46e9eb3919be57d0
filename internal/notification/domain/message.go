package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	order "github.com/dmehra2102/marketplace/internal/order/domain"
)

const (
	SubjectOrderCreated  = "New order created!"
	SubjectStatusChanged = "Order status changed."
	signature            = "Sincerely,\nMarketplace Team."
)

type Contact struct {
	Email     string
	FirstName string
}

func (c Contact) Greeting() string {
	if c.FirstName == "" {
		return "Hello!"
	}
	return "Hello, " + c.FirstName + "!"
}

type Message struct {
	To      []string
	Subject string
	Body    string
}

// FormatPrice renders an amount in minor currency units with two decimals.
func FormatPrice(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

type details struct {
	model, name string
	quantity    int
	total       int64
	addr        order.EventAddress
}

func (d details) write(b *strings.Builder) {
	fmt.Fprintf(b, "Product:\n\tModel: %s\n\tName: %s\n\tQuantity: %d\n\tTotal price: %s\n",
		d.model, d.name, d.quantity, FormatPrice(d.total))
	fmt.Fprintf(b, "Delivery address:\n\tCity: %s\n\tStreet: %s\n\tHouse: %s\n", d.addr.City, d.addr.Street, d.addr.House)
	if d.addr.Apartment != "" {
		fmt.Fprintf(b, "\tApartment: %s\n", d.addr.Apartment)
	}
	b.WriteString("\n" + signature)
}

func createdDetails(ev order.OrderCreated) details {
	return details{model: ev.ProductModel, name: ev.ProductName, quantity: ev.Quantity, total: ev.TotalPrice, addr: ev.Address}
}

func OrderCreatedForCustomer(ev order.OrderCreated, customer Contact) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nYou have created a new order №%d.\n\nOrder details:\nShop: %s\n",
		customer.Greeting(), ev.OrderID, ev.ShopName)
	createdDetails(ev).write(&b)
	return Message{To: []string{customer.Email}, Subject: SubjectOrderCreated, Body: b.String()}
}

func OrderCreatedForManagers(ev order.OrderCreated, customer Contact, managers []string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello!\nA new order №%d has been placed in your store.\n\nOrder details:\nCustomer: %s\n",
		ev.OrderID, customer.Email)
	createdDetails(ev).write(&b)
	return Message{To: managers, Subject: SubjectOrderCreated, Body: b.String()}
}

func StatusChangedForCustomer(ev order.OrderStatusChanged, customer Contact) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nOrder status №%d changed to '%s'.\n\nOrder details:\nShop: %s\n",
		customer.Greeting(), ev.OrderID, ev.To, ev.ShopName)
	details{model: ev.ProductModel, name: ev.ProductName, quantity: ev.Quantity, total: ev.TotalPrice, addr: ev.Address}.write(&b)
	return Message{To: []string{customer.Email}, Subject: SubjectStatusChanged, Body: b.String()}
}
