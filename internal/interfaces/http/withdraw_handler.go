package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/retiros-api/internal/application/dto"
	"github.com/jhoicas/retiros-api/internal/application/inventory"
)

// WithdrawHandler registro y consulta de retiros.
type WithdrawHandler struct {
	withdraw *inventory.WithdrawUseCase
	receipt  *inventory.ReceiptUseCase
	log      zerolog.Logger
}

// NewWithdrawHandler construye el handler.
func NewWithdrawHandler(withdraw *inventory.WithdrawUseCase, receipt *inventory.ReceiptUseCase, log zerolog.Logger) *WithdrawHandler {
	return &WithdrawHandler{withdraw: withdraw, receipt: receipt, log: log}
}

// Create godoc
// @Summary      Registrar retiro
// @Description  Transacción única: revalida fondos y stock, descuenta lotes propios y debita el efectivo requerido.
// @Tags         withdraws
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WithdrawRequest  true  "Retiro"
// @Success      201  {object}  dto.WithdrawResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/withdraws [post]
func (h *WithdrawHandler) Create(c *fiber.Ctx) error {
	var in dto.WithdrawRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.withdraw.Withdraw(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Detalle de un retiro
// @Tags         withdraws
// @Produce      json
// @Param        id  path  string  true  "ID del retiro"
// @Success      200  {object}  dto.WithdrawalDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/withdraws/{id} [get]
func (h *WithdrawHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.receipt.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Comprobante PDF de un retiro
// @Tags         withdraws
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del retiro"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/withdraws/{id}/pdf [get]
func (h *WithdrawHandler) PDF(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.receipt.PDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="retiro-`+id+`.pdf"`)
	return c.Send(out)
}
