package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmehra2102/marketplace/internal/stock/domain"
)

type Ledger interface {
	GetAvailability(ctx context.Context, id int64) (domain.Availability, error)
	Decrement(ctx context.Context, id int64, amount int) (int, error)
}

type Server struct {
	log    *slog.Logger
	ledger Ledger
}

func NewServer(log *slog.Logger, ledger Ledger) *Server {
	return &Server{log: log, ledger: ledger}
}

func (s *Server) GetAvailability(ctx context.Context, req *AvailabilityRequest) (*AvailabilityResponse, error) {
	if req.StockLineID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "stock_line_id must be positive")
	}
	av, err := s.ledger.GetAvailability(ctx, req.StockLineID)
	if errors.Is(err, domain.ErrStockLineNotFound) {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	if err != nil {
		s.log.Error("availability lookup failed", "stock_line_id", req.StockLineID, "err", err)
		return nil, status.Error(codes.Internal, "availability lookup failed")
	}
	return &AvailabilityResponse{Quantity: av.Quantity, CanBuy: av.CanBuy, Price: av.Price}, nil
}

// Decrement takes amount units off a stock line atomically. It never goes below zero.
func (s *Server) Decrement(ctx context.Context, req *DecrementRequest) (*DecrementResponse, error) {
	if req.StockLineID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "stock_line_id must be positive")
	}
	left, err := s.ledger.Decrement(ctx, req.StockLineID, req.Amount)
	switch {
	case err == nil:
		return &DecrementResponse{Quantity: left}, nil
	case errors.Is(err, domain.ErrInvalidAmount):
		return nil, status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrStockLineNotFound):
		return nil, status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrStockContended):
		return nil, status.Error(codes.Aborted, err.Error())
	default:
		s.log.Error("decrement failed", "stock_line_id", req.StockLineID, "amount", req.Amount, "err", err)
		return nil, status.Error(codes.Internal, "decrement failed")
	}
}

func Run(addr string, srv *Server) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	gs := grpc.NewServer()
	RegisterLedgerServer(gs, srv)
	go func() {
		if err := gs.Serve(lis); err != nil {
			srv.log.Error("grpc serve stopped", "err", err)
		}
	}()
	return gs, nil
}
