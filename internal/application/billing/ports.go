package billing

import (
	"context"

	"github.com/paintshop/billing-api/internal/domain/entity"
	"github.com/paintshop/billing-api/internal/domain/repository"
)

// BillingTxRunner runs fn inside one storage transaction. The repositories
// passed to fn are bound to that transaction, so a row locked through them
// stays locked until fn returns and the transaction commits or rolls back.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		billRepo repository.BillRepository,
	) error) error
}

// InvoiceGenerator renders a committed bill into a document byte stream.
type InvoiceGenerator interface {
	GenerateInvoicePDF(ctx context.Context, bill *entity.Bill) ([]byte, error)
}

// InvoiceStore persists rendered invoice documents addressable by bill id and
// returns the public path they can be fetched from.
type InvoiceStore interface {
	Save(billID int64, data []byte) (string, error)
}
