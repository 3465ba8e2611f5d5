package model

import "time"

// Product is a catalog item owned by a seller shop. Price and Revenue are in
// cents, Stock and Sales are unit counters. Stock never goes negative.
type Product struct {
	ID        int64
	Shop      string
	Name      string
	Price     int64
	Stock     int64
	Sales     int64
	Revenue   int64
	CreatedAt time.Time
}

// ProductCounters is the counter snapshot returned by a catalog mutation.
type ProductCounters struct {
	Stock   int64
	Sales   int64
	Revenue int64
}

// SalesSummary aggregates cumulative sales and revenue over one shop.
type SalesSummary struct {
	Shop    string
	Sales   int64
	Revenue int64
}
