package entity

import "github.com/shopspring/decimal"

// BillItem is one line of a bill. Product fields are snapshotted at billing time
// so later catalog edits cannot rewrite a historical bill; ProductCode is kept
// only for traceability, not as a live reference.
type BillItem struct {
	ID           int64
	BillID       int64
	ProductCode  string
	ProductName  string
	Rate         decimal.Decimal
	Quantity     decimal.Decimal
	DiscountPerc decimal.Decimal
	GSTPerc      decimal.Decimal
	LineTotal    decimal.Decimal
}
