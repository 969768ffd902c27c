package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is a committed sale. Immutable once persisted; totals satisfy
// NetAmount = Subtotal - Discount + GSTAmount at two decimals.
type Bill struct {
	ID           int64
	CustomerName string
	Subtotal     decimal.Decimal // sum of taxable line amounts (post line discount, pre GST)
	GSTAmount    decimal.Decimal
	Discount     decimal.Decimal // absolute overall discount amount, not the percentage
	NetAmount    decimal.Decimal
	CreatedAt    time.Time
	Items        []*BillItem
}
