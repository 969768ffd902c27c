package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables at startup if they are missing.
// NUMERIC everywhere money or quantity lives; closing stock is derived, never a
// column.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS products (
		id            BIGSERIAL PRIMARY KEY,
		code          TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		opening_stock NUMERIC(12,2) NOT NULL DEFAULT 0,
		purchases     NUMERIC(12,2) NOT NULL DEFAULT 0,
		sales         NUMERIC(12,2) NOT NULL DEFAULT 0,
		rate          NUMERIC(12,2) NOT NULL DEFAULT 0,
		gst_perc      NUMERIC(5,2)  NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS bills (
		id            BIGSERIAL PRIMARY KEY,
		customer_name TEXT NOT NULL,
		subtotal      NUMERIC(12,2) NOT NULL,
		gst_amount    NUMERIC(12,2) NOT NULL,
		discount      NUMERIC(12,2) NOT NULL DEFAULT 0,
		net_amount    NUMERIC(12,2) NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS bill_items (
		id            BIGSERIAL PRIMARY KEY,
		bill_id       BIGINT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
		product_code  TEXT NOT NULL,
		product_name  TEXT NOT NULL,
		rate          NUMERIC(12,2) NOT NULL,
		quantity      NUMERIC(12,2) NOT NULL,
		discount_perc NUMERIC(5,2)  NOT NULL DEFAULT 0,
		gst_perc      NUMERIC(5,2)  NOT NULL,
		line_total    NUMERIC(12,2) NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bill_items_bill_id ON bill_items (bill_id);
	`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
