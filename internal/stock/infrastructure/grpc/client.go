package grpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/dmehra2102/marketplace/internal/stock/domain"
)

type Client struct {
	log  *slog.Logger
	cc   grpc.ClientConnInterface
	conn *grpc.ClientConn
}

func Dial(log *slog.Logger, addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{log: log, cc: conn, conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// GetAvailability satisfies the cart's stock reader port.
func (c *Client) GetAvailability(ctx context.Context, id int64) (domain.Availability, error) {
	out := new(AvailabilityResponse)
	err := c.cc.Invoke(ctx, getAvailabilityMethod, &AvailabilityRequest{StockLineID: id}, out)
	switch status.Code(err) {
	case codes.OK:
		return domain.Availability{Quantity: out.Quantity, CanBuy: out.CanBuy, Price: out.Price}, nil
	case codes.NotFound, codes.InvalidArgument:
		return domain.Availability{}, domain.ErrStockLineNotFound
	default:
		c.log.Error("stock ledger call failed", "stock_line_id", id, "err", err)
		return domain.Availability{}, err
	}
}

func (c *Client) Decrement(ctx context.Context, id int64, amount int) (int, error) {
	out := new(DecrementResponse)
	err := c.cc.Invoke(ctx, decrementMethod, &DecrementRequest{StockLineID: id, Amount: amount}, out)
	switch status.Code(err) {
	case codes.OK:
		return out.Quantity, nil
	case codes.NotFound:
		return 0, domain.ErrStockLineNotFound
	case codes.FailedPrecondition:
		return 0, domain.ErrInsufficientStock
	case codes.Aborted:
		return 0, domain.ErrStockContended
	case codes.InvalidArgument:
		return 0, domain.ErrInvalidAmount
	default:
		c.log.Error("stock ledger call failed", "stock_line_id", id, "err", err)
		return 0, err
	}
}
