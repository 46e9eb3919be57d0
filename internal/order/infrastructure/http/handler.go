package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/marketplace/internal/order/application"
	"github.com/dmehra2102/marketplace/internal/order/domain"
	"github.com/dmehra2102/marketplace/pkg/auth"
	"github.com/dmehra2102/marketplace/pkg/httpx"
)

type OrderService interface {
	ConfirmOrder(ctx context.Context, customerID int64, addr domain.Address) (application.Confirmation, error)
	UpdateStatus(ctx context.Context, p auth.Principal, slug string, orderID int64, patch domain.StatusPatch) (domain.Order, error)
	CustomerOrders(ctx context.Context, customerID int64) ([]domain.Order, error)
	ShopOrders(ctx context.Context, p auth.Principal, slug string) ([]domain.Order, error)
}

type Handler struct {
	log      *slog.Logger
	service  OrderService
	validate *validatorv10.Validate
	tracer   trace.Tracer
}

func NewHandler(log *slog.Logger, service OrderService) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: httpx.NewValidator(),
		tracer:   otel.Tracer("order-http"),
	}
}

type addressReq struct {
	City      string `json:"city" validate:"required,max=200"`
	Street    string `json:"street" validate:"required,max=200"`
	House     string `json:"house" validate:"required,max=200"`
	Apartment string `json:"apartment" validate:"max=200"`
}

type confirmOrderReq struct {
	DeliveryAddress *addressReq `json:"delivery_address" validate:"required"`
}

type updateStatusReq struct {
	Status          string          `json:"status"`
	DeliveryAddress json.RawMessage `json:"delivery_address"`
}

type addressResp struct {
	ID        int64  `json:"id"`
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Apartment string `json:"apartment,omitempty"`
}

type orderResp struct {
	ID              int64       `json:"id"`
	CustomerID      int64       `json:"customer_id"`
	StockLineID     int64       `json:"product_stock_line_id"`
	Shop            string      `json:"shop"`
	ShopName        string      `json:"shop_name"`
	ProductName     string      `json:"product_name"`
	ProductModel    string      `json:"product_model"`
	Quantity        int         `json:"quantity"`
	TotalPrice      int64       `json:"total_price"`
	DeliveryAddress addressResp `json:"delivery_address"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func toResp(o domain.Order) orderResp {
	return orderResp{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		StockLineID:  o.StockLineID,
		Shop:         o.ShopSlug,
		ShopName:     o.ShopName,
		ProductName:  o.ProductName,
		ProductModel: o.ProductModel,
		Quantity:     o.Quantity,
		TotalPrice:   o.TotalPrice,
		DeliveryAddress: addressResp{
			ID:        o.Address.ID,
			City:      o.Address.City,
			Street:    o.Address.Street,
			House:     o.Address.House,
			Apartment: o.Address.Apartment,
		},
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toRespList(orders []domain.Order) []orderResp {
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		out = append(out, toResp(o))
	}
	return out
}

func (h *Handler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/cart/confirm-order", h.confirmOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/shop/{slug}/orders", h.listShopOrders)
		r.Patch("/shop/{slug}/orders/{orderID}", h.updateStatus)
	})
}

func (h *Handler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ConfirmOrder")
	defer span.End()

	p, _ := auth.FromContext(ctx)
	var req confirmOrderReq
	if err := httpx.Decode(r, h.validate, &req); err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	addr := domain.Address{
		City:      req.DeliveryAddress.City,
		Street:    req.DeliveryAddress.Street,
		House:     req.DeliveryAddress.House,
		Apartment: req.DeliveryAddress.Apartment,
	}

	res, err := h.service.ConfirmOrder(ctx, p.UserID, addr)
	if err != nil {
		span.RecordError(err)
		httpx.WriteError(h.log, w, r, err)
		return
	}
	span.SetAttributes(attribute.Int("orders.created", len(res.Orders)))
	httpx.WriteJSON(w, http.StatusCreated, toRespList(res.Orders))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	orders, err := h.service.CustomerOrders(r.Context(), p.UserID)
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRespList(orders))
}

func (h *Handler) listShopOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	orders, err := h.service.ShopOrders(r.Context(), p, chi.URLParam(r, "slug"))
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRespList(orders))
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderStatus")
	defer span.End()

	p, _ := auth.FromContext(ctx)
	id, err := httpx.IDParam(r, "orderID")
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	var req updateStatusReq
	if err := httpx.Decode(r, h.validate, &req); err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	span.SetAttributes(attribute.Int64("order_id", id), attribute.String("order.status", req.Status))

	o, err := h.service.UpdateStatus(ctx, p, chi.URLParam(r, "slug"), id, domain.StatusPatch{
		Status:          req.Status,
		DeliveryAddress: req.DeliveryAddress != nil,
	})
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResp(o))
}
