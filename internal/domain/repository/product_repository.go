package repository

import (
	"github.com/shopspring/decimal"

	"github.com/paintshop/billing-api/internal/domain/entity"
)

// ProductRepository is the persistence port for catalog products.
// GetByCodeForUpdate must take an exclusive row lock that lives for the rest of
// the surrounding transaction; callers rely on it to serialize stock mutation.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id int64) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	GetByCodeForUpdate(code string) (*entity.Product, error)
	AddSales(code string, quantity decimal.Decimal) error
	Update(product *entity.Product) error
	List() ([]*entity.Product, error)
	Delete(id int64) error
}
