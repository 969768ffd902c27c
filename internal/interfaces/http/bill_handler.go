package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/paintshop/billing-api/internal/application/billing"
	"github.com/paintshop/billing-api/internal/application/dto"
	"github.com/paintshop/billing-api/internal/domain"
	"github.com/paintshop/billing-api/pkg/logger"
)

// BillHandler handles the billing HTTP endpoints.
type BillHandler struct {
	uc  *billing.CreateBillUseCase
	log *logger.Logger
}

// NewBillHandler builds the handler.
func NewBillHandler(uc *billing.CreateBillUseCase, log *logger.Logger) *BillHandler {
	return &BillHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Create a bill and deduct stock
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillRequest  true  "Bill data"
// @Success      201   {object}  dto.BillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/bills [post]
func (h *BillHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	bill, err := h.uc.CreateBill(c.Context(), in)
	if err != nil {
		var notFound *domain.ProductNotFoundError
		var noStock *domain.InsufficientStockError
		switch {
		case errors.Is(err, domain.ErrEmptyBill):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: domain.ErrEmptyBill.Error()})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.As(err, &notFound):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: notFound.Error()})
		case errors.As(err, &noStock):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: noStock.Error()})
		}
		// Storage detail stays in the logs, never in the response.
		h.log.Error().Err(err).Msg("create bill failed")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error creating bill"})
	}
	if bill.InvoiceError != "" {
		h.log.Warn().Int64("bill_id", bill.ID).Msg("bill committed but invoice rendering failed")
	}
	return c.Status(fiber.StatusCreated).JSON(bill)
}

// List godoc
// @Summary      List bills with their line items
// @Tags         bills
// @Produce      json
// @Success      200  {array}  dto.BillResponse
// @Router       /api/bills [get]
func (h *BillHandler) List(c *fiber.Ctx) error {
	bills, err := h.uc.ListBills(c.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list bills failed")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error fetching bills"})
	}
	return c.JSON(bills)
}

// GetByID godoc
// @Summary      Get one bill by id
// @Tags         bills
// @Produce      json
// @Param        id   path  int  true  "Bill id"
// @Success      200  {object}  dto.BillResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bills/{id} [get]
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id must be numeric"})
	}
	bill, err := h.uc.GetBill(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "bill not found"})
		}
		h.log.Error().Err(err).Msg("get bill failed")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error fetching bill"})
	}
	return c.JSON(bill)
}
