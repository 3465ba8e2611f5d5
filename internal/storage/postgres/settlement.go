package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/mkurbatov/craftmarket/internal/domain/errors"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
	"github.com/mkurbatov/craftmarket/internal/domain/repository"
)

// settlementUnit implements repository.UnitOfWork on a serializable
// transaction. Postgres aborts one of two conflicting settlements with a
// serialization failure; that surfaces as ErrConcurrentModification and the
// engine retries.
type settlementUnit struct {
	storage *Storage
}

func (u *settlementUnit) WithinSettlement(ctx context.Context, fn func(ctx context.Context, tx repository.SettlementTx) error) error {
	tx, err := u.storage.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}

	scope := &settlementTx{tx: tx}
	if err := fn(ctx, scope); err != nil {
		_ = tx.Rollback(ctx)
		return asConflict(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return asConflict(err)
	}
	return nil
}

// asConflict maps serialization failures and deadlocks to the retryable
// sentinel; everything else passes through.
func asConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return domainErrors.ErrConcurrentModification
	}
	return err
}

type settlementTx struct {
	tx pgx.Tx
}

func (s *settlementTx) BuyerForUpdate(ctx context.Context, id int64) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1 FOR UPDATE`
	return scanAccount(s.tx.QueryRow(ctx, query, id))
}

func (s *settlementTx) ProductsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := s.tx.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Shop, &p.Name, &p.Price, &p.Stock, &p.Sales, &p.Revenue, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) != len(distinctInt64(ids)) {
		return nil, domainErrors.ErrItemNotFound
	}
	return result, nil
}

func (s *settlementTx) SellersByShop(ctx context.Context, shops []string) (map[string]*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE shop = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := s.tx.Query(ctx, query, shops)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sellers := make(map[string]*model.Account, len(shops))
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.Role, &acc.Shop, &acc.Balance, &acc.CreatedAt); err != nil {
			return nil, err
		}
		sellers[acc.Shop] = &acc
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, shop := range shops {
		if _, ok := sellers[shop]; !ok {
			return nil, domainErrors.ErrSellerNotFound
		}
	}
	return sellers, nil
}

func (s *settlementTx) ReserveAndSell(ctx context.Context, productID, quantity, unitRevenue int64) (*model.ProductCounters, error) {
	// Stock sufficiency is re-validated here, at write time: the condition
	// makes a lost update between read and decrement impossible.
	const query = `UPDATE products
                   SET stock = stock - $2, sales = sales + $2, revenue = revenue + $2 * $3
                   WHERE id = $1 AND stock >= $2
                   RETURNING stock, sales, revenue`
	var counters model.ProductCounters
	err := s.tx.QueryRow(ctx, query, productID, quantity, unitRevenue).Scan(&counters.Stock, &counters.Sales, &counters.Revenue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrInsufficientStock
		}
		return nil, err
	}
	return &counters, nil
}

func (s *settlementTx) Debit(ctx context.Context, accountID, amount int64) (int64, error) {
	const query = `UPDATE accounts SET balance = balance - $2
                   WHERE id = $1 AND balance >= $2
                   RETURNING balance`
	var balance int64
	err := s.tx.QueryRow(ctx, query, accountID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrInsufficientBalance
		}
		return 0, err
	}
	return balance, nil
}

func (s *settlementTx) Credit(ctx context.Context, accountID, amount int64) (int64, error) {
	const query = `UPDATE accounts SET balance = balance + $2 WHERE id = $1 RETURNING balance`
	var balance int64
	err := s.tx.QueryRow(ctx, query, accountID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrSellerNotFound
		}
		return 0, err
	}
	return balance, nil
}

func (s *settlementTx) InsertOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	const insertOrder = `INSERT INTO orders (buyer_id, seller_shops, items_price, shipping_price, total_price,
                                            payment_method, full_name, address, city, postal_code, country)
                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                         RETURNING id, created_at`
	persisted := *order
	err := s.tx.QueryRow(ctx, insertOrder,
		order.BuyerID, order.SellerShops, order.ItemsPrice, order.ShippingPrice, order.TotalPrice,
		order.PaymentMethod, order.ShippingAddress.FullName, order.ShippingAddress.Address,
		order.ShippingAddress.City, order.ShippingAddress.PostalCode, order.ShippingAddress.Country,
	).Scan(&persisted.ID, &persisted.CreatedAt)
	if err != nil {
		return nil, err
	}

	const insertItem = `INSERT INTO order_items (order_id, product_id, name, shop, quantity, unit_price)
                        VALUES ($1, $2, $3, $4, $5, $6)`
	for _, item := range order.Items {
		if _, err := s.tx.Exec(ctx, insertItem, persisted.ID, item.ProductID, item.Name, item.Shop, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}
	return &persisted, nil
}

func distinctInt64(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
