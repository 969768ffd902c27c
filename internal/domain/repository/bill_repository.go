package repository

import "github.com/paintshop/billing-api/internal/domain/entity"

// BillRepository is the persistence port for bills and their lines.
type BillRepository interface {
	// Create persists the bill header and fills in the generated ID and CreatedAt.
	Create(bill *entity.Bill) error
	// CreateItem persists one line and fills in its generated ID.
	CreateItem(item *entity.BillItem) error
	GetByID(id int64) (*entity.Bill, error)
	// List returns bills newest first, each with its items loaded.
	List() ([]*entity.Bill, error)
}
