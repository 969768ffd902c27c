package usecase

import (
	"strings"

	"github.com/paintshop/billing-api/internal/application/dto"
	"github.com/paintshop/billing-api/internal/domain"
	"github.com/paintshop/billing-api/internal/domain/entity"
	"github.com/paintshop/billing-api/internal/domain/repository"
)

// ProductUseCase catalog CRUD. Sales is never edited here; it only moves when
// a bill commits.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase builds the use case.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create registers a new product. Codes are unique.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.OpeningStock.IsNegative() || in.Purchases.IsNegative() ||
		in.Rate.IsNegative() || in.GSTPerc.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	product := &entity.Product{
		Code:         code,
		Name:         name,
		OpeningStock: in.OpeningStock,
		Purchases:    in.Purchases,
		Rate:         in.Rate,
		GSTPerc:      in.GSTPerc,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID returns a product or nil when it does not exist.
func (uc *ProductUseCase) GetByID(id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update edits catalog fields. The code and the sales counter are immutable.
func (uc *ProductUseCase) Update(id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.OpeningStock.IsNegative() || in.Purchases.IsNegative() ||
		in.Rate.IsNegative() || in.GSTPerc.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		product.Name = name
	}
	product.OpeningStock = in.OpeningStock
	product.Purchases = in.Purchases
	product.Rate = in.Rate
	product.GSTPerc = in.GSTPerc
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List returns the whole catalog.
func (uc *ProductUseCase) List() ([]*dto.ProductResponse, error) {
	products, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Delete removes a product from the catalog. Historical bill lines keep their
// snapshotted copy of the product fields, so they are unaffected.
func (uc *ProductUseCase) Delete(id int64) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		OpeningStock: p.OpeningStock,
		Purchases:    p.Purchases,
		Sales:        p.Sales,
		Rate:         p.Rate,
		GSTPerc:      p.GSTPerc,
		ClosingStock: p.ClosingStock(),
	}
}
