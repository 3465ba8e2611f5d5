package dto

import (
	"github.com/mkurbatov/craftmarket/internal/domain/model"
)

// ProductResponse is the public catalog item representation, counters
// included for the reporting layer.
type ProductResponse struct {
	ID      int64  `json:"id"`
	Shop    string `json:"shop"`
	Name    string `json:"name"`
	Price   int64  `json:"price"`
	Stock   int64  `json:"stock"`
	Sales   int64  `json:"sales"`
	Revenue int64  `json:"revenue"`
}

// NewProductResponse maps a domain product onto the response shape.
func NewProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:      p.ID,
		Shop:    p.Shop,
		Name:    p.Name,
		Price:   p.Price,
		Stock:   p.Stock,
		Sales:   p.Sales,
		Revenue: p.Revenue,
	}
}
