package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/marketplace/internal/stock/domain"
	"github.com/dmehra2102/marketplace/pkg/auth"
	"github.com/dmehra2102/marketplace/pkg/httpx"
)

type StockService interface {
	Get(ctx context.Context, id int64) (domain.StockLine, error)
	UpdateLine(ctx context.Context, p auth.Principal, slug string, id int64, u domain.Update) (domain.StockLine, error)
	Restock(ctx context.Context, p auth.Principal, slug string, id int64, amount int) (domain.StockLine, error)
}

type Handler struct {
	log      *slog.Logger
	service  StockService
	validate *validatorv10.Validate
	tracer   trace.Tracer
}

func NewHandler(log *slog.Logger, service StockService) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: httpx.NewValidator(),
		tracer:   otel.Tracer("stock-http"),
	}
}

type stockLineResp struct {
	ID           int64  `json:"id"`
	Shop         string `json:"shop"`
	ShopName     string `json:"shop_name"`
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductModel string `json:"product_model"`
	Quantity     int    `json:"quantity"`
	Price        int64  `json:"price"`
	CanBuy       bool   `json:"can_buy"`
}

func toResp(l domain.StockLine) stockLineResp {
	return stockLineResp{
		ID:           l.ID,
		Shop:         l.ShopSlug,
		ShopName:     l.ShopName,
		ProductID:    l.ProductID,
		ProductName:  l.ProductName,
		ProductModel: l.ProductModel,
		Quantity:     l.Quantity,
		Price:        l.Price,
		CanBuy:       l.CanBuy,
	}
}

type updateStockReq struct {
	Quantity *int   `json:"quantity" validate:"omitempty,min=0"`
	Price    *int64 `json:"price" validate:"omitempty,min=0"`
	CanBuy   *bool  `json:"can_buy"`
}

type restockReq struct {
	Amount int `json:"amount" validate:"required,min=1"`
}

func (h *Handler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/stock/{id}", h.getStockLine)
	r.With(requireAuth).Patch("/shop/{slug}/stock/{stockID}", h.updateStockLine)
	r.With(requireAuth).Post("/shop/{slug}/stock/{stockID}/restock", h.restock)
}

func (h *Handler) getStockLine(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	line, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResp(line))
}

func (h *Handler) updateStockLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateStockLine")
	defer span.End()

	p, _ := auth.FromContext(ctx)
	id, err := httpx.IDParam(r, "stockID")
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	var req updateStockReq
	if err := httpx.Decode(r, h.validate, &req); err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	line, err := h.service.UpdateLine(ctx, p, chi.URLParam(r, "slug"), id,
		domain.Update{Quantity: req.Quantity, Price: req.Price, CanBuy: req.CanBuy})
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResp(line))
}

func (h *Handler) restock(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RestockStockLine")
	defer span.End()

	p, _ := auth.FromContext(ctx)
	id, err := httpx.IDParam(r, "stockID")
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	var req restockReq
	if err := httpx.Decode(r, h.validate, &req); err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	line, err := h.service.Restock(ctx, p, chi.URLParam(r, "slug"), id, req.Amount)
	if err != nil {
		httpx.WriteError(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResp(line))
}
