package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one catalog item with its running stock counters.
// Available stock is never stored; it is always derived via ClosingStock so the
// counters stay the single source of truth.
type Product struct {
	ID           int64
	Code         string // unique product code
	Name         string
	OpeningStock decimal.Decimal
	Purchases    decimal.Decimal // cumulative quantity purchased
	Sales        decimal.Decimal // cumulative quantity billed
	Rate         decimal.Decimal // unit sale price
	GSTPerc      decimal.Decimal // GST percentage applied by default on bill lines
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ClosingStock returns the quantity currently available for sale.
func (p *Product) ClosingStock() decimal.Decimal {
	return p.OpeningStock.Add(p.Purchases).Sub(p.Sales)
}
