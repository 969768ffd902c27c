package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintshop/billing-api/internal/application/billing"
	"github.com/paintshop/billing-api/internal/application/dto"
	"github.com/paintshop/billing-api/internal/domain"
	"github.com/paintshop/billing-api/internal/domain/entity"
	"github.com/paintshop/billing-api/internal/domain/repository"
)

// memStore is an in-memory stand-in for the PostgreSQL layer. RunBilling holds
// a mutex for the whole callback and works on staged copies, so concurrent
// bills serialize exactly like transactions contending on row locks, and a
// failed callback leaves the committed state untouched.
type memStore struct {
	mu         sync.Mutex
	products   map[string]*entity.Product
	bills      []*entity.Bill
	nextBillID int64
	nextItemID int64

	failBillCreate error // injected into the tx-bound bill repo
}

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{products: make(map[string]*entity.Product, len(products))}
	for _, p := range products {
		cp := *p
		s.products[p.Code] = &cp
	}
	return s
}

func (s *memStore) RunBilling(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	billRepo repository.BillRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]*entity.Product, len(s.products))
	for code, p := range s.products {
		cp := *p
		staged[code] = &cp
	}
	txBills := &txBillRepo{
		nextBillID: s.nextBillID,
		nextItemID: s.nextItemID,
		failCreate: s.failBillCreate,
	}
	if err := fn(&txProductRepo{products: staged}, txBills); err != nil {
		return err
	}
	s.products = staged
	s.bills = append(s.bills, txBills.bills...)
	s.nextBillID = txBills.nextBillID
	s.nextItemID = txBills.nextItemID
	return nil
}

// Read side used by the use case outside transactions.

func (s *memStore) Create(bill *entity.Bill) error    { return errors.New("not used outside tx") }
func (s *memStore) CreateItem(*entity.BillItem) error { return errors.New("not used outside tx") }

func (s *memStore) GetByID(id int64) (*entity.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bills {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (s *memStore) List() ([]*entity.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Bill, 0, len(s.bills))
	for i := len(s.bills) - 1; i >= 0; i-- {
		out = append(out, s.bills[i])
	}
	return out, nil
}

func (s *memStore) salesOf(code string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[code].Sales
}

func (s *memStore) billCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bills)
}

type txProductRepo struct {
	products map[string]*entity.Product
}

func (r *txProductRepo) Create(p *entity.Product) error { return errors.New("not supported") }
func (r *txProductRepo) Update(p *entity.Product) error { return errors.New("not supported") }
func (r *txProductRepo) Delete(id int64) error          { return errors.New("not supported") }
func (r *txProductRepo) GetByID(id int64) (*entity.Product, error) {
	return nil, errors.New("not supported")
}
func (r *txProductRepo) List() ([]*entity.Product, error) { return nil, errors.New("not supported") }

func (r *txProductRepo) GetByCode(code string) (*entity.Product, error) {
	return r.products[code], nil
}

func (r *txProductRepo) GetByCodeForUpdate(code string) (*entity.Product, error) {
	return r.products[code], nil
}

func (r *txProductRepo) AddSales(code string, quantity decimal.Decimal) error {
	p, ok := r.products[code]
	if !ok {
		return fmt.Errorf("no row for code %s", code)
	}
	p.Sales = p.Sales.Add(quantity)
	return nil
}

type txBillRepo struct {
	bills      []*entity.Bill
	nextBillID int64
	nextItemID int64
	failCreate error
}

func (r *txBillRepo) Create(bill *entity.Bill) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.nextBillID++
	bill.ID = r.nextBillID
	bill.CreatedAt = time.Now()
	r.bills = append(r.bills, bill)
	return nil
}

func (r *txBillRepo) CreateItem(item *entity.BillItem) error {
	r.nextItemID++
	item.ID = r.nextItemID
	return nil
}

func (r *txBillRepo) GetByID(int64) (*entity.Bill, error) { return nil, nil }
func (r *txBillRepo) List() ([]*entity.Bill, error)       { return nil, nil }

type stubGenerator struct{ err error }

func (g stubGenerator) GenerateInvoicePDF(ctx context.Context, bill *entity.Bill) ([]byte, error) {
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.4 stub"), nil
}

type stubInvoiceStore struct {
	mu    sync.Mutex
	saved map[int64][]byte
	err   error
}

func (s *stubInvoiceStore) Save(billID int64, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if s.saved == nil {
		s.saved = make(map[int64][]byte)
	}
	s.saved[billID] = data
	return fmt.Sprintf("/invoices/invoice_%d.pdf", billID), nil
}

func paint(code, name, stock, rate, gst string) *entity.Product {
	return &entity.Product{
		Code:         code,
		Name:         name,
		OpeningStock: mustDec(stock),
		Rate:         mustDec(rate),
		GSTPerc:      mustDec(gst),
	}
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := mustDec(s)
	return &d
}

func newBillingFixture(products ...*entity.Product) (*billing.CreateBillUseCase, *memStore, *stubInvoiceStore) {
	store := newMemStore(products...)
	invoices := &stubInvoiceStore{}
	uc := billing.NewCreateBillUseCase(store, store, stubGenerator{}, invoices)
	return uc, store, invoices
}

func TestCreateBill_Success(t *testing.T) {
	uc, store, invoices := newBillingFixture(
		paint("PNT-01", "Premium Emulsion 1L", "10", "100", "18"),
	)

	resp, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		CustomerName: "Asha Traders",
		Items: []dto.BillItemRequest{
			{ProductCode: "PNT-01", Quantity: mustDec("2"), Rate: mustDec("100")},
		},
	})
	require.NoError(t, err)

	assert.True(t, mustDec("200").Equal(resp.Subtotal), "subtotal: %s", resp.Subtotal)
	assert.True(t, mustDec("36").Equal(resp.GSTAmount), "gst: %s", resp.GSTAmount)
	assert.True(t, resp.Discount.IsZero(), "discount: %s", resp.Discount)
	assert.True(t, mustDec("236").Equal(resp.NetAmount), "net: %s", resp.NetAmount)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Premium Emulsion 1L", resp.Items[0].ProductName)
	assert.True(t, mustDec("236").Equal(resp.Items[0].LineTotal))

	assert.Equal(t, fmt.Sprintf("/invoices/invoice_%d.pdf", resp.ID), resp.InvoiceURL)
	assert.Empty(t, resp.InvoiceError)
	assert.Contains(t, invoices.saved, resp.ID)

	assert.True(t, mustDec("2").Equal(store.salesOf("PNT-01")), "sales counter must move")
	assert.Equal(t, 1, store.billCount())
}

func TestCreateBill_ZeroRateUsesCatalogRate(t *testing.T) {
	uc, _, _ := newBillingFixture(
		paint("PNT-02", "Exterior Primer 4L", "5", "250", "18"),
	)

	resp, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		CustomerName: "Walk-in",
		Items: []dto.BillItemRequest{
			{ProductCode: "PNT-02", Quantity: mustDec("1")},
		},
	})
	require.NoError(t, err)

	assert.True(t, mustDec("250").Equal(resp.Items[0].Rate), "rate: %s", resp.Items[0].Rate)
	assert.True(t, mustDec("295").Equal(resp.NetAmount), "net: %s", resp.NetAmount)
}

func TestCreateBill_UnknownProductRollsBackEverything(t *testing.T) {
	uc, store, _ := newBillingFixture(
		paint("PNT-01", "Premium Emulsion 1L", "10", "100", "18"),
	)

	_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		CustomerName: "Asha Traders",
		Items: []dto.BillItemRequest{
			{ProductCode: "PNT-01", Quantity: mustDec("2")},
			{ProductCode: "NOPE-99", Quantity: mustDec("1")},
		},
	})
	require.Error(t, err)

	var notFound *domain.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "NOPE-99", notFound.Code)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.True(t, store.salesOf("PNT-01").IsZero(), "no counter may move on a rejected bill")
	assert.Equal(t, 0, store.billCount())
}

func TestCreateBill_InsufficientStock(t *testing.T) {
	uc, store, _ := newBillingFixture(
		paint("PNT-01", "Premium Emulsion 1L", "10", "100", "18"),
	)

	_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		CustomerName: "Asha Traders",
		Items: []dto.BillItemRequest{
			{ProductCode: "PNT-01", Quantity: mustDec("11")},
		},
	})
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Premium Emulsion 1L", insufficient.Name)
	assert.True(t, mustDec("10").Equal(insufficient.Available))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "insufficient stock for Premium Emulsion 1L. Available: 10.00", err.Error())

	assert.True(t, store.salesOf("PNT-01").IsZero())
	assert.Equal(t, 0, store.billCount())
}

// Two lines for the same product must be checked against their combined
// quantity, not line by line.
func TestCreateBill_DuplicateLinesAggregate(t *testing.T) {
	uc, store, _ := newBillingFixture(
		paint("PNT-01", "Premium Emulsion 1L", "10", "100", "18"),
	)

	_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		CustomerName: "Asha Traders",
		Items: []dto.BillItemRequest{
			{ProductCode: "PNT-01", Quantity: mustDec("6")},
			{ProductCode: "PNT-01", Quantity: mustDec("6")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, store.salesOf("PNT-01").IsZero())
}

func TestCreateBill_ValidationRejects(t *testing.T) {
	uc, _, _ := newBillingFixture(
		paint("PNT-01", "Premium Emulsion 1L", "10", "100", "18"),
	)
	ctx := context.Background()
	oneItem := []dto.BillItemRequest{{ProductCode: "PNT-01", Quantity: mustDec("1")}}

	_, err := uc.CreateBill(ctx, dto.CreateBillRequest{CustomerName: "  ", Items: oneItem})
	assert.ErrorIs(t, err, domain.ErrEmptyBill, "blank customer")

	_, err = uc.CreateBill(ctx, dto.CreateBillRequest{CustomerName: "Asha"})
	assert.ErrorIs(t, err, domain.ErrEmptyBill, "no items")

	_, err = uc.CreateBill(ctx, dto.CreateBillRequest{
		CustomerName: "Asha", Items: oneItem, Discount: mustDec("101"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "overall discount above 100")

	_, err = uc.CreateBill(ctx, dto.CreateBillRequest{
		CustomerName: "Asha",
		Items:        []dto.BillItemRequest{{ProductCode: "PNT-01", Quantity: mustDec("0")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "zero quantity")

	_, err = uc.CreateBill(ctx, dto.CreateBillRequest{
		CustomerName: "Asha",
		Items: []dto.BillItemRequest{
			{ProductCode: "PNT-01", Quantity: mustDec("1"), DiscountPerc: decPtr("120")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "line discount above 100")
}

// A rendering failure after commit must not surface as an error; the bill is
// already in the ledger and the response says so.
func TestCreateBill_InvoiceGenerationFailureKeepsBill(t *testing.T) {
	store := newMemStore(paint("PNT-01", "Premium Emulsion 1L", "10", "100", "18"))
	invoices := &stubInvoiceStore{}
	uc := billing.NewCreateBillUseCase(store, store,
		stubGenerator{err: errors.New("render failed")}, invoices)

	resp, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		CustomerName: "Asha Traders",
		Items: []dto.BillItemRequest{
			{ProductCode: "PNT-01", Quantity: mustDec("2")},
		},
	})
	require.NoError(t, err)

	assert.Empty(t, resp.InvoiceURL)
	assert.Equal(t, "invoice document generation failed", resp.InvoiceError)
	assert.Equal(t, 1, store.billCount())
	assert.True(t, mustDec("2").Equal(store.salesOf("PNT-01")), "commit stands despite render failure")
}

func TestCreateBill_InvoiceSaveFailureKeepsBill(t *testing.T) {
	store := newMemStore(paint("PNT-01", "Premium Emulsion 1L", "10", "100", "18"))
	invoices := &stubInvoiceStore{err: errors.New("disk full")}
	uc := billing.NewCreateBillUseCase(store, store, stubGenerator{}, invoices)

	resp, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		CustomerName: "Asha Traders",
		Items: []dto.BillItemRequest{
			{ProductCode: "PNT-01", Quantity: mustDec("1")},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.InvoiceURL)
	assert.NotEmpty(t, resp.InvoiceError)
	assert.Equal(t, 1, store.billCount())
}

// A storage failure inside the transaction must roll back the sales counters
// taken earlier in the same transaction.
func TestCreateBill_PersistenceFailureRollsBackSales(t *testing.T) {
	store := newMemStore(paint("PNT-01", "Premium Emulsion 1L", "10", "100", "18"))
	store.failBillCreate = errors.New("insert failed")
	uc := billing.NewCreateBillUseCase(store, store, stubGenerator{}, &stubInvoiceStore{})

	_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		CustomerName: "Asha Traders",
		Items: []dto.BillItemRequest{
			{ProductCode: "PNT-01", Quantity: mustDec("2")},
		},
	})
	require.Error(t, err)
	assert.True(t, store.salesOf("PNT-01").IsZero())
	assert.Equal(t, 0, store.billCount())
}

// Two bills racing for the same stock: with 10 in stock and two requests of 6,
// exactly one may win and the counter ends at 6.
func TestCreateBill_ConcurrentOversellPreventedByLocking(t *testing.T) {
	uc, store, _ := newBillingFixture(
		paint("PNT-01", "Premium Emulsion 1L", "10", "100", "18"),
	)

	req := dto.CreateBillRequest{
		CustomerName: "Racer",
		Items: []dto.BillItemRequest{
			{ProductCode: "PNT-01", Quantity: mustDec("6")},
		},
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.CreateBill(context.Background(), req)
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactly one bill wins the stock")
	assert.Equal(t, 1, insufficient, "the loser is rejected, not queued")
	assert.True(t, mustDec("6").Equal(store.salesOf("PNT-01")), "sales: %s", store.salesOf("PNT-01"))
	assert.Equal(t, 1, store.billCount())
}

func TestListBills_NewestFirst(t *testing.T) {
	uc, _, _ := newBillingFixture(
		paint("PNT-01", "Premium Emulsion 1L", "100", "100", "18"),
	)
	ctx := context.Background()

	for _, customer := range []string{"First", "Second"} {
		_, err := uc.CreateBill(ctx, dto.CreateBillRequest{
			CustomerName: customer,
			Items: []dto.BillItemRequest{
				{ProductCode: "PNT-01", Quantity: mustDec("1")},
			},
		})
		require.NoError(t, err)
	}

	bills, err := uc.ListBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, "Second", bills[0].CustomerName)
	assert.Equal(t, "First", bills[1].CustomerName)
}

func TestGetBill(t *testing.T) {
	uc, _, _ := newBillingFixture(
		paint("PNT-01", "Premium Emulsion 1L", "100", "100", "18"),
	)
	ctx := context.Background()

	created, err := uc.CreateBill(ctx, dto.CreateBillRequest{
		CustomerName: "Asha Traders",
		Items: []dto.BillItemRequest{
			{ProductCode: "PNT-01", Quantity: mustDec("3")},
		},
	})
	require.NoError(t, err)

	got, err := uc.GetBill(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, got.Items, 1)

	_, err = uc.GetBill(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
