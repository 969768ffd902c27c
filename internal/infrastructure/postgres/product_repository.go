package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/paintshop/billing-api/internal/domain"
	"github.com/paintshop/billing-api/internal/domain/entity"
	"github.com/paintshop/billing-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, name, opening_stock, purchases, sales, rate, gst_perc, created_at, updated_at`

// ProductRepo implements ProductRepository over PostgreSQL (usable with pool or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the adapter. Pass a pool or a tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persists a new product and fills in the generated id.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (code, name, opening_stock, purchases, sales, rate, gst_perc)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(context.Background(), query,
		product.Code, product.Name, product.OpeningStock, product.Purchases,
		product.Sales, product.Rate, product.GSTPerc,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID returns a product by id, or nil when absent.
func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	return r.scanOne(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByCode returns a product by its unique code, or nil when absent.
func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	return r.scanOne(`SELECT `+productColumns+` FROM products WHERE code = $1`, code)
}

// GetByCodeForUpdate reads the product row under an exclusive lock
// (SELECT ... FOR UPDATE). Only meaningful when the repo is bound to a
// transaction: the lock is held until that transaction ends.
func (r *ProductRepo) GetByCodeForUpdate(code string) (*entity.Product, error) {
	return r.scanOne(`SELECT `+productColumns+` FROM products WHERE code = $1 FOR UPDATE`, code)
}

// AddSales increments the cumulative sales counter. Callers must already hold
// the row lock via GetByCodeForUpdate in the same transaction.
func (r *ProductRepo) AddSales(code string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET sales = sales + $2, updated_at = now() WHERE code = $1`,
		code, quantity,
	)
	if err != nil {
		return fmt.Errorf("add sales: %w", err)
	}
	return nil
}

// Update edits catalog fields. Code and sales are not touched here.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, opening_stock = $3, purchases = $4, rate = $5, gst_perc = $6, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.OpeningStock, product.Purchases,
		product.Rate, product.GSTPerc,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// List returns the whole catalog ordered by code.
func (r *ProductRepo) List() ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+productColumns+` FROM products ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete removes a product by id.
func (r *ProductRepo) Delete(id int64) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(query string, arg any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.Code, &p.Name, &p.OpeningStock, &p.Purchases, &p.Sales,
		&p.Rate, &p.GSTPerc, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func scanProduct(rows pgx.Rows) (*entity.Product, error) {
	var p entity.Product
	if err := rows.Scan(
		&p.ID, &p.Code, &p.Name, &p.OpeningStock, &p.Purchases, &p.Sales,
		&p.Rate, &p.GSTPerc, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}
