package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body for POST /api/products.
type CreateProductRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	OpeningStock decimal.Decimal `json:"openingStock"`
	Purchases    decimal.Decimal `json:"purchases"`
	Rate         decimal.Decimal `json:"rate"`
	GSTPerc      decimal.Decimal `json:"gstPerc"`
}

// UpdateProductRequest body for PUT /api/products/:id.
// Sales is deliberately absent: it only moves through committed bills.
type UpdateProductRequest struct {
	Name         string          `json:"name"`
	OpeningStock decimal.Decimal `json:"openingStock"`
	Purchases    decimal.Decimal `json:"purchases"`
	Rate         decimal.Decimal `json:"rate"`
	GSTPerc      decimal.Decimal `json:"gstPerc"`
}

// ProductResponse product in responses, including the derived closing stock.
type ProductResponse struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	OpeningStock decimal.Decimal `json:"openingStock"`
	Purchases    decimal.Decimal `json:"purchases"`
	Sales        decimal.Decimal `json:"sales"`
	Rate         decimal.Decimal `json:"rate"`
	GSTPerc      decimal.Decimal `json:"gstPerc"`
	ClosingStock decimal.Decimal `json:"closingStock"`
}
