package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	serviceName           = "marketplace.stock.v1.StockLedger"
	getAvailabilityMethod = "/" + serviceName + "/GetAvailability"
	decrementMethod       = "/" + serviceName + "/Decrement"
)

type AvailabilityRequest struct {
	StockLineID int64 `json:"stock_line_id"`
}

type AvailabilityResponse struct {
	Quantity int   `json:"quantity"`
	CanBuy   bool  `json:"can_buy"`
	Price    int64 `json:"price"`
}

type DecrementRequest struct {
	StockLineID int64 `json:"stock_line_id"`
	Amount      int   `json:"amount"`
}

type DecrementResponse struct {
	Quantity int `json:"quantity"`
}

type LedgerServer interface {
	GetAvailability(ctx context.Context, req *AvailabilityRequest) (*AvailabilityResponse, error)
	Decrement(ctx context.Context, req *DecrementRequest) (*DecrementResponse, error)
}

var ledgerServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetAvailability", Handler: getAvailabilityHandler},
		{MethodName: "Decrement", Handler: decrementHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stock_ledger",
}

func getAvailabilityHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AvailabilityRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServer).GetAvailability(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getAvailabilityMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServer).GetAvailability(ctx, req.(*AvailabilityRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func decrementHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DecrementRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServer).Decrement(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: decrementMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServer).Decrement(ctx, req.(*DecrementRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&ledgerServiceDesc, srv)
}
