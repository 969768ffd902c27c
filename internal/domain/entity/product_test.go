package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/paintshop/billing-api/internal/domain/entity"
)

func TestProduct_ClosingStock(t *testing.T) {
	p := &entity.Product{
		OpeningStock: decimal.NewFromInt(10),
		Purchases:    decimal.NewFromInt(5),
		Sales:        decimal.NewFromInt(3),
	}
	assert.True(t, decimal.NewFromInt(12).Equal(p.ClosingStock()),
		"closing stock must be opening + purchases - sales")
}

func TestProduct_ClosingStock_SoldOut(t *testing.T) {
	p := &entity.Product{
		OpeningStock: decimal.NewFromInt(4),
		Purchases:    decimal.NewFromInt(2),
		Sales:        decimal.NewFromInt(6),
	}
	assert.True(t, p.ClosingStock().IsZero(), "fully sold product has zero closing stock")
}
