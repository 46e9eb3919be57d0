package application

import (
	"context"

	"github.com/dmehra2102/marketplace/internal/stock/domain"
)

type StockRepository interface {
	Get(ctx context.Context, id int64) (domain.StockLine, error)
	Decrement(ctx context.Context, id int64, amount int) (int, error)
	Restock(ctx context.Context, shopID, id int64, amount int) (domain.StockLine, error)
	Update(ctx context.Context, shopID, id int64, u domain.Update) (domain.StockLine, error)
}

type ShopDirectory interface {
	ShopBySlug(ctx context.Context, slug string) (domain.Shop, error)
	IsManager(ctx context.Context, shopID, userID int64) (bool, error)
}
