package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/paintshop/billing-api/internal/domain/entity"
	"github.com/paintshop/billing-api/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo implements BillRepository over PostgreSQL (usable with pool or tx).
type BillRepo struct {
	q Querier
}

// NewBillRepository builds the adapter. Pass a pool or a tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

// Create persists the bill header and fills in the generated id and timestamp.
func (r *BillRepo) Create(bill *entity.Bill) error {
	query := `
		INSERT INTO bills (customer_name, subtotal, gst_amount, discount, net_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.q.QueryRow(context.Background(), query,
		bill.CustomerName, bill.Subtotal, bill.GSTAmount, bill.Discount, bill.NetAmount,
	).Scan(&bill.ID, &bill.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

// CreateItem persists one line and fills in its generated id.
func (r *BillRepo) CreateItem(item *entity.BillItem) error {
	query := `
		INSERT INTO bill_items (bill_id, product_code, product_name, rate, quantity, discount_perc, gst_perc, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		item.BillID, item.ProductCode, item.ProductName, item.Rate,
		item.Quantity, item.DiscountPerc, item.GSTPerc, item.LineTotal,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert bill item: %w", err)
	}
	return nil
}

// GetByID returns one bill with its lines, or nil when absent.
func (r *BillRepo) GetByID(id int64) (*entity.Bill, error) {
	query := `
		SELECT id, customer_name, subtotal, gst_amount, discount, net_amount, created_at
		FROM bills WHERE id = $1`
	var b entity.Bill
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.CustomerName, &b.Subtotal, &b.GSTAmount, &b.Discount, &b.NetAmount, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	items, err := r.itemsForBills([]int64{b.ID})
	if err != nil {
		return nil, err
	}
	b.Items = items[b.ID]
	return &b, nil
}

// List returns bills newest first with their lines loaded.
func (r *BillRepo) List() ([]*entity.Bill, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, customer_name, subtotal, gst_amount, discount, net_amount, created_at
		FROM bills ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []*entity.Bill
	var ids []int64
	for rows.Next() {
		var b entity.Bill
		if err := rows.Scan(&b.ID, &b.CustomerName, &b.Subtotal, &b.GSTAmount,
			&b.Discount, &b.NetAmount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, &b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return bills, nil
	}

	items, err := r.itemsForBills(ids)
	if err != nil {
		return nil, err
	}
	for _, b := range bills {
		b.Items = items[b.ID]
	}
	return bills, nil
}

// itemsForBills loads the lines of the given bills in one query.
func (r *BillRepo) itemsForBills(billIDs []int64) (map[int64][]*entity.BillItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, bill_id, product_code, product_name, rate, quantity, discount_perc, gst_perc, line_total
		FROM bill_items WHERE bill_id = ANY($1) ORDER BY id`, billIDs)
	if err != nil {
		return nil, fmt.Errorf("list bill items: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]*entity.BillItem, len(billIDs))
	for rows.Next() {
		var it entity.BillItem
		if err := rows.Scan(&it.ID, &it.BillID, &it.ProductCode, &it.ProductName,
			&it.Rate, &it.Quantity, &it.DiscountPerc, &it.GSTPerc, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan bill item: %w", err)
		}
		out[it.BillID] = append(out[it.BillID], &it)
	}
	return out, rows.Err()
}
