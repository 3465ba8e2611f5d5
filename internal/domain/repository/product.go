package repository

import (
	"context"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
)

// ProductRepository provides read access to the catalog and its counters.
// Counter mutation happens only through the settlement transaction scope.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	SalesSummary(ctx context.Context, shop string) (*model.SalesSummary, error)
}
