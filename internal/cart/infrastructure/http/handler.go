package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/marketplace/internal/cart/domain"
	"github.com/dmehra2102/marketplace/pkg/auth"
	"github.com/dmehra2102/marketplace/pkg/httpx"
)

type CartService interface {
	AddLine(ctx context.Context, customerID, stockLineID int64, quantity int) (domain.CartLine, error)
	UpdateLine(ctx context.Context, customerID, id int64, quantity int) (domain.CartLine, error)
	RemoveLine(ctx context.Context, customerID, id int64) error
	GetLine(ctx context.Context, customerID, id int64) (domain.CartLine, error)
	ListLines(ctx context.Context, customerID int64) ([]domain.CartLine, error)
}

type Handler struct {
	log      *slog.Logger
	service  CartService
	validate *validatorv10.Validate
	tracer   trace.Tracer
}

func NewHandler(log *slog.Logger, service CartService) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: httpx.NewValidator(),
		tracer:   otel.Tracer("cart-http"),
	}
}

type addLineReq struct {
	StockLineID int64 `json:"product_stock_line_id" validate:"required,min=1"`
	Quantity    int   `json:"quantity" validate:"required,min=1"`
}

type updateLineReq struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type cartLineResp struct {
	ID          int64     `json:"id"`
	StockLineID int64     `json:"product_stock_line_id"`
	Quantity    int       `json:"quantity"`
	TotalPrice  int64     `json:"total_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toResp(l domain.CartLine) cartLineResp {
	return cartLineResp{
		ID:          l.ID,
		StockLineID: l.StockLineID,
		Quantity:    l.Quantity,
		TotalPrice:  l.TotalPrice,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// Register mounts the cart routes; every route requires an authenticated customer.
func (h *Handler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/cart", h.listLines)
		r.Post("/cart", h.addLine)
		r.Get("/cart/{id}", h.getLine)
		r.Patch("/cart/{id}", h.updateLine)
		r.Delete("/cart/{id}", h.removeLine)
	})
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddCartLine")
	defer span.End()

	p, _ := auth.FromContext(ctx)
	var req addLineReq
	if err := httpx.Decode(r, h.validate, &req); err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	span.SetAttributes(attribute.Int64("stock_line_id", req.StockLineID))

	line, err := h.service.AddLine(ctx, p.UserID, req.StockLineID, req.Quantity)
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toResp(line))
}

func (h *Handler) updateLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateCartLine")
	defer span.End()

	p, _ := auth.FromContext(ctx)
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	var req updateLineReq
	if err := httpx.Decode(r, h.validate, &req); err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	line, err := h.service.UpdateLine(ctx, p.UserID, id, req.Quantity)
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResp(line))
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	if err := h.service.RemoveLine(r.Context(), p.UserID, id); err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getLine(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	line, err := h.service.GetLine(r.Context(), p.UserID, id)
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResp(line))
}

func (h *Handler) listLines(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	lines, err := h.service.ListLines(r.Context(), p.UserID)
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	out := make([]cartLineResp, 0, len(lines))
	for _, l := range lines {
		out = append(out, toResp(l))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
