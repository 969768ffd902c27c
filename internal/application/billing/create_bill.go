package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/paintshop/billing-api/internal/application/dto"
	"github.com/paintshop/billing-api/internal/domain"
	"github.com/paintshop/billing-api/internal/domain/entity"
	"github.com/paintshop/billing-api/internal/domain/pricing"
	"github.com/paintshop/billing-api/internal/domain/repository"
)

// CreateBillUseCase commits a bill against shared product stock in one
// transaction: every referenced product row is locked and validated before any
// sales counter moves, then the bill, its lines and the updated counters are
// persisted together. Invoice rendering runs after commit and cannot undo it.
type CreateBillUseCase struct {
	txRunner  BillingTxRunner
	billRepo  repository.BillRepository
	generator InvoiceGenerator
	store     InvoiceStore
}

// NewCreateBillUseCase builds the use case. billRepo is used for reads outside
// the transaction (listing, lookup); writes go through txRunner-bound repos.
func NewCreateBillUseCase(
	txRunner BillingTxRunner,
	billRepo repository.BillRepository,
	generator InvoiceGenerator,
	store InvoiceStore,
) *CreateBillUseCase {
	return &CreateBillUseCase{
		txRunner:  txRunner,
		billRepo:  billRepo,
		generator: generator,
		store:     store,
	}
}

// billLine is one request line after defaults and validation.
type billLine struct {
	code         string
	quantity     decimal.Decimal
	rate         decimal.Decimal // zero until resolved against the catalog
	discountPerc decimal.Decimal
	gstPerc      decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// CreateBill validates the request, runs the transactional commit and then
// generates the invoice document. A rendering failure is reported through
// BillResponse.InvoiceError; the committed bill is returned regardless.
func (uc *CreateBillUseCase) CreateBill(ctx context.Context, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" || len(in.Items) == 0 {
		return nil, domain.ErrEmptyBill
	}
	if in.Discount.IsNegative() || in.Discount.GreaterThan(oneHundred) {
		return nil, fmt.Errorf("%w: overall discount must be between 0 and 100", domain.ErrInvalidInput)
	}

	lines := make([]billLine, len(in.Items))
	for i, item := range in.Items {
		code := strings.TrimSpace(item.ProductCode)
		if code == "" {
			return nil, fmt.Errorf("%w: line %d: product code is required", domain.ErrInvalidInput, i+1)
		}
		if !item.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: line %d: quantity must be greater than zero", domain.ErrInvalidInput, i+1)
		}
		if item.Rate.IsNegative() {
			return nil, fmt.Errorf("%w: line %d: rate cannot be negative", domain.ErrInvalidInput, i+1)
		}
		discountPerc := decimal.Zero
		if item.DiscountPerc != nil {
			discountPerc = *item.DiscountPerc
		}
		if discountPerc.IsNegative() || discountPerc.GreaterThan(oneHundred) {
			return nil, fmt.Errorf("%w: line %d: discount percentage must be between 0 and 100", domain.ErrInvalidInput, i+1)
		}
		gstPerc := pricing.DefaultGSTPerc
		if item.GSTPerc != nil {
			gstPerc = *item.GSTPerc
		}
		if gstPerc.IsNegative() {
			return nil, fmt.Errorf("%w: line %d: gst percentage cannot be negative", domain.ErrInvalidInput, i+1)
		}
		lines[i] = billLine{
			code:         code,
			quantity:     item.Quantity,
			rate:         item.Rate,
			discountPerc: discountPerc,
			gstPerc:      gstPerc,
		}
	}

	var bill *entity.Bill
	err := uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		billRepo repository.BillRepository,
	) error {
		// Phase 1: lock and validate every distinct product before touching any
		// counter. Codes are locked in sorted order so two bills sharing products
		// cannot deadlock against each other.
		requested := make(map[string]decimal.Decimal, len(lines))
		for _, l := range lines {
			requested[l.code] = requested[l.code].Add(l.quantity)
		}
		codes := make([]string, 0, len(requested))
		for code := range requested {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		products := make(map[string]*entity.Product, len(codes))
		for _, code := range codes {
			product, err := productRepo.GetByCodeForUpdate(code)
			if err != nil {
				return err
			}
			if product == nil {
				return &domain.ProductNotFoundError{Code: code}
			}
			available := product.ClosingStock()
			if requested[code].GreaterThan(available) {
				return &domain.InsufficientStockError{Name: product.Name, Available: available}
			}
			products[code] = product
		}

		// Phase 2: mutate under the row locks taken above. The locks are held,
		// not re-acquired, so validation cannot be invalidated in between.
		for _, code := range codes {
			if err := productRepo.AddSales(code, requested[code]); err != nil {
				return err
			}
		}

		// Quote missing rates from the catalog snapshot and price the bill.
		priced := make([]pricing.Line, len(lines))
		for i := range lines {
			if lines[i].rate.IsZero() {
				lines[i].rate = products[lines[i].code].Rate
			}
			priced[i] = pricing.Line{
				Rate:         lines[i].rate,
				Quantity:     lines[i].quantity,
				DiscountPerc: lines[i].discountPerc,
				GSTPerc:      lines[i].gstPerc,
			}
		}
		totals, amounts := pricing.ComputeBill(priced, in.Discount)

		bill = &entity.Bill{
			CustomerName: customer,
			Subtotal:     totals.Subtotal,
			GSTAmount:    totals.GSTAmount,
			Discount:     totals.Discount,
			NetAmount:    totals.NetAmount,
		}
		if err := billRepo.Create(bill); err != nil {
			return err
		}
		for i, l := range lines {
			item := &entity.BillItem{
				BillID:       bill.ID,
				ProductCode:  l.code,
				ProductName:  products[l.code].Name,
				Rate:         l.rate,
				Quantity:     l.quantity,
				DiscountPerc: l.discountPerc,
				GSTPerc:      l.gstPerc,
				LineTotal:    amounts[i].LineTotal,
			}
			if err := billRepo.CreateItem(item); err != nil {
				return err
			}
			bill.Items = append(bill.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toBillResponse(bill)

	// Post-commit, outside the transaction boundary: the bill already exists in
	// the ledger whether or not a document comes out of this.
	data, genErr := uc.generator.GenerateInvoicePDF(ctx, bill)
	if genErr == nil {
		var url string
		if url, genErr = uc.store.Save(bill.ID, data); genErr == nil {
			resp.InvoiceURL = url
		}
	}
	if genErr != nil {
		resp.InvoiceError = "invoice document generation failed"
	}
	return resp, nil
}
