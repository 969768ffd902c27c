package billing

import (
	"context"
	"time"

	"github.com/paintshop/billing-api/internal/application/dto"
	"github.com/paintshop/billing-api/internal/domain"
	"github.com/paintshop/billing-api/internal/domain/entity"
)

// ListBills returns all bills newest first with their lines.
func (uc *CreateBillUseCase) ListBills(ctx context.Context) ([]*dto.BillResponse, error) {
	bills, err := uc.billRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, toBillResponse(b))
	}
	return out, nil
}

// GetBill returns one bill with its lines.
func (uc *CreateBillUseCase) GetBill(ctx context.Context, id int64) (*dto.BillResponse, error) {
	bill, err := uc.billRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.ErrNotFound
	}
	return toBillResponse(bill), nil
}

func toBillResponse(bill *entity.Bill) *dto.BillResponse {
	resp := &dto.BillResponse{
		ID:           bill.ID,
		CustomerName: bill.CustomerName,
		Subtotal:     bill.Subtotal,
		GSTAmount:    bill.GSTAmount,
		Discount:     bill.Discount,
		NetAmount:    bill.NetAmount,
		CreatedAt:    bill.CreatedAt.Format(time.RFC3339),
		Items:        make([]dto.BillItemResponse, 0, len(bill.Items)),
	}
	for _, item := range bill.Items {
		resp.Items = append(resp.Items, dto.BillItemResponse{
			ID:           item.ID,
			ProductCode:  item.ProductCode,
			ProductName:  item.ProductName,
			Rate:         item.Rate,
			Quantity:     item.Quantity,
			DiscountPerc: item.DiscountPerc,
			GSTPerc:      item.GSTPerc,
			LineTotal:    item.LineTotal,
		})
	}
	return resp
}
