package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/mkurbatov/craftmarket/internal/domain/errors"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
	"github.com/mkurbatov/craftmarket/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool used by the storage, kept as an
// interface so tests can substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type accountRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Accounts() repository.AccountRepository {
	return &accountRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Settlements() repository.UnitOfWork {
	return &settlementUnit{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
            id BIGSERIAL PRIMARY KEY,
            name TEXT UNIQUE NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            shop TEXT UNIQUE,
            balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id BIGSERIAL PRIMARY KEY,
            shop TEXT NOT NULL,
            name TEXT NOT NULL,
            price BIGINT NOT NULL CHECK (price > 0),
            stock BIGINT NOT NULL DEFAULT 0 CHECK (stock >= 0),
            sales BIGINT NOT NULL DEFAULT 0,
            revenue BIGINT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            buyer_id BIGINT NOT NULL REFERENCES accounts(id),
            seller_shops TEXT[] NOT NULL,
            items_price BIGINT NOT NULL,
            shipping_price BIGINT NOT NULL,
            total_price BIGINT NOT NULL,
            payment_method TEXT NOT NULL,
            full_name TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL DEFAULT '',
            postal_code TEXT NOT NULL DEFAULT '',
            country TEXT NOT NULL DEFAULT '',
            is_paid BOOLEAN NOT NULL DEFAULT FALSE,
            paid_at TIMESTAMPTZ,
            is_delivered BOOLEAN NOT NULL DEFAULT FALSE,
            delivered_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            product_id BIGINT NOT NULL REFERENCES products(id),
            name TEXT NOT NULL,
            shop TEXT NOT NULL,
            quantity BIGINT NOT NULL CHECK (quantity > 0),
            unit_price BIGINT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_shops ON orders USING GIN (seller_shops)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_shop ON products(shop)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- AccountRepository implementation ---

func (r *accountRepository) Create(ctx context.Context, name, email, passwordHash string, role model.Role, shop string, startingBalance int64) (*model.Account, error) {
	const query = `INSERT INTO accounts (name, email, password_hash, role, shop, balance)
                   VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
                   RETURNING id, created_at`
	var acc model.Account
	err := r.storage.pool.QueryRow(ctx, query, name, email, passwordHash, string(role), shop, startingBalance).Scan(&acc.ID, &acc.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	acc.Name = name
	acc.Email = email
	acc.PasswordHash = passwordHash
	acc.Role = role
	acc.Shop = shop
	acc.Balance = startingBalance
	return &acc, nil
}

const accountColumns = `id, name, email, password_hash, role, COALESCE(shop, ''), balance, created_at`

func scanAccount(row pgx.Row) (*model.Account, error) {
	var acc model.Account
	err := row.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.Role, &acc.Shop, &acc.Balance, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email=$1`
	return scanAccount(r.storage.pool.QueryRow(ctx, query, email))
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1`
	return scanAccount(r.storage.pool.QueryRow(ctx, query, id))
}

// --- ProductRepository implementation ---

const productColumns = `id, shop, name, price, stock, sales, revenue, created_at`

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Shop, &p.Name, &p.Price, &p.Stock, &p.Sales, &p.Revenue, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrItemNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
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
	return result, nil
}

func (r *productRepository) SalesSummary(ctx context.Context, shop string) (*model.SalesSummary, error) {
	const query = `SELECT COALESCE(SUM(sales), 0), COALESCE(SUM(revenue), 0) FROM products WHERE shop=$1`
	summary := model.SalesSummary{Shop: shop}
	if err := r.storage.pool.QueryRow(ctx, query, shop).Scan(&summary.Sales, &summary.Revenue); err != nil {
		return nil, err
	}
	return &summary, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, buyer_id, seller_shops, items_price, shipping_price, total_price,
                      payment_method, full_name, address, city, postal_code, country,
                      is_paid, paid_at, is_delivered, delivered_at, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.BuyerID, &o.SellerShops, &o.ItemsPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.PaymentMethod, &o.ShippingAddress.FullName, &o.ShippingAddress.Address, &o.ShippingAddress.City,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	const query = `SELECT product_id, name, shop, quantity, unit_price
                   FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Shop, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *orderRepository) listOrders(ctx context.Context, query string, arg any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := r.loadItems(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}
	return result, nil
}

func (r *orderRepository) ListForBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id=$1 ORDER BY created_at DESC`
	return r.listOrders(ctx, query, buyerID)
}

func (r *orderRepository) ListForSeller(ctx context.Context, shop string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE $1 = ANY(seller_shops) ORDER BY created_at DESC`
	return r.listOrders(ctx, query, shop)
}

// MarkPaid flips the paid flag together with its timestamp. Calling it on an
// already paid order is a no-op success.
func (r *orderRepository) MarkPaid(ctx context.Context, id int64) (*model.Order, bool, error) {
	const update = `UPDATE orders SET is_paid=TRUE, paid_at=NOW() WHERE id=$1 AND is_paid=FALSE`
	tag, err := r.storage.pool.Exec(ctx, update, id)
	if err != nil {
		return nil, false, err
	}

	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return order, tag.RowsAffected() == 1, nil
}

// MarkDelivered requires the order to be paid. Calling it on an already
// delivered order is a no-op success.
func (r *orderRepository) MarkDelivered(ctx context.Context, id int64) (*model.Order, bool, error) {
	const update = `UPDATE orders SET is_delivered=TRUE, delivered_at=NOW()
                    WHERE id=$1 AND is_paid=TRUE AND is_delivered=FALSE`
	tag, err := r.storage.pool.Exec(ctx, update, id)
	if err != nil {
		return nil, false, err
	}

	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if tag.RowsAffected() == 0 {
		if !order.IsPaid {
			return nil, false, domainErrors.ErrInvalidStateTransition
		}
		return order, false, nil
	}
	return order, true, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
