package equipment

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, req CreateEquipmentRequest) (*Equipment, error)
	Update(ctx context.Context, id int, req UpdateEquipmentRequest) (*Equipment, error)
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*Equipment, error)
	List(ctx context.Context) ([]Equipment, error)

	// PriceFor sums the current rental prices of the given equipment
	// ids. Every id must resolve; a missing id fails the whole lookup
	// with ErrEquipmentNotFound. An empty set prices to zero.
	PriceFor(ctx context.Context, ids []int) (decimal.Decimal, error)
}
