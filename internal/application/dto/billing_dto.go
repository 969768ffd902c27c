package dto

import "github.com/shopspring/decimal"

// CreateBillRequest body for POST /api/bills.
// Discount is the overall discount percentage applied once to the subtotal.
type CreateBillRequest struct {
	CustomerName string            `json:"customerName"`
	Items        []BillItemRequest `json:"items"`
	Discount     decimal.Decimal   `json:"discount"`
}

// BillItemRequest one requested line. Rate left at zero means "use the catalog
// rate"; DiscountPerc and GSTPerc are optional (defaults 0 and 18).
type BillItemRequest struct {
	ProductCode  string           `json:"productCode"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Rate         decimal.Decimal  `json:"rate"`
	DiscountPerc *decimal.Decimal `json:"discountPerc,omitempty"`
	GSTPerc      *decimal.Decimal `json:"gstPerc,omitempty"`
}

// BillResponse a committed bill. InvoiceURL points at the rendered PDF; if the
// rendering failed after commit InvoiceError carries the reason instead and the
// bill itself still stands.
type BillResponse struct {
	ID           int64              `json:"id"`
	CustomerName string             `json:"customerName"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	GSTAmount    decimal.Decimal    `json:"gstAmount"`
	Discount     decimal.Decimal    `json:"discount"`
	NetAmount    decimal.Decimal    `json:"netAmount"`
	CreatedAt    string             `json:"createdAt"`
	Items        []BillItemResponse `json:"items"`
	InvoiceURL   string             `json:"invoiceUrl,omitempty"`
	InvoiceError string             `json:"invoiceError,omitempty"`
}

// BillItemResponse one committed line with its snapshotted pricing fields.
type BillItemResponse struct {
	ID           int64           `json:"id"`
	ProductCode  string          `json:"productCode"`
	ProductName  string          `json:"productName"`
	Rate         decimal.Decimal `json:"rate"`
	Quantity     decimal.Decimal `json:"quantity"`
	DiscountPerc decimal.Decimal `json:"discountPerc"`
	GSTPerc      decimal.Decimal `json:"gstPerc"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}
