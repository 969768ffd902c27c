// Package pricing computes line and bill monetary totals. Pure functions over
// fixed-point decimals; no I/O and no persistence concerns.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DefaultGSTPerc is applied to a line when the request does not quote a GST rate.
var DefaultGSTPerc = decimal.NewFromInt(18)

// Line is the priced input of one bill line.
type Line struct {
	Rate         decimal.Decimal
	Quantity     decimal.Decimal
	DiscountPerc decimal.Decimal
	GSTPerc      decimal.Decimal
}

// LineAmounts holds the derived amounts of one line at full precision.
// LineTotal is the only value persisted and is rounded to two decimals.
type LineAmounts struct {
	Base           decimal.Decimal // rate * quantity
	DiscountAmount decimal.Decimal
	Taxable        decimal.Decimal // base - discount
	GST            decimal.Decimal
	LineTotal      decimal.Decimal // taxable + gst, rounded to 2 decimals
}

// BillTotals are the persisted bill-level amounts, all rounded to two decimals.
// NetAmount is computed from the already-rounded components so that
// NetAmount = Subtotal - Discount + GSTAmount holds exactly.
type BillTotals struct {
	Subtotal  decimal.Decimal
	GSTAmount decimal.Decimal
	Discount  decimal.Decimal // absolute overall discount amount
	NetAmount decimal.Decimal
}

// ComputeLine derives the amounts of a single line.
func ComputeLine(l Line) LineAmounts {
	base := l.Rate.Mul(l.Quantity)
	discount := base.Mul(l.DiscountPerc).Div(hundred)
	taxable := base.Sub(discount)
	gst := taxable.Mul(l.GSTPerc).Div(hundred)
	return LineAmounts{
		Base:           base,
		DiscountAmount: discount,
		Taxable:        taxable,
		GST:            gst,
		LineTotal:      taxable.Add(gst).Round(2),
	}
}

// ComputeBill aggregates all lines and applies the overall discount percentage
// to the subtotal only (GST is charged on the full post-line-discount taxable
// amounts, matching how the bill is presented).
func ComputeBill(lines []Line, overallDiscountPerc decimal.Decimal) (BillTotals, []LineAmounts) {
	amounts := make([]LineAmounts, len(lines))
	var subtotal, gst decimal.Decimal
	for i, l := range lines {
		amounts[i] = ComputeLine(l)
		subtotal = subtotal.Add(amounts[i].Taxable)
		gst = gst.Add(amounts[i].GST)
	}
	discount := subtotal.Mul(overallDiscountPerc).Div(hundred)

	totals := BillTotals{
		Subtotal:  subtotal.Round(2),
		GSTAmount: gst.Round(2),
		Discount:  discount.Round(2),
	}
	totals.NetAmount = totals.Subtotal.Sub(totals.Discount).Add(totals.GSTAmount)
	return totals, amounts
}
