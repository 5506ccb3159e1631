package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/retiros-api/internal/application/usecase"
)

// AccountHandler distribuidores y saldos.
type AccountHandler struct {
	uc  *usecase.AccountUseCase
	log zerolog.Logger
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *usecase.AccountUseCase, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{uc: uc, log: log}
}

// ListDistributors godoc
// @Summary      Distribuidores
// @Tags         distributors
// @Produce      json
// @Success      200  {array}   dto.DistributorDTO
// @Router       /api/distributors [get]
func (h *AccountHandler) ListDistributors(c *fiber.Ctx) error {
	out, err := h.uc.ListDistributors(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Balance godoc
// @Summary      Saldo en efectivo del distribuidor
// @Tags         accounts
// @Produce      json
// @Param        distributorCode  path  string  true  "Código de distribuidor"
// @Success      200  {object}  dto.AccountBalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts/{distributorCode} [get]
func (h *AccountHandler) Balance(c *fiber.Ctx) error {
	out, err := h.uc.Balance(c.UserContext(), c.Params("distributorCode"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
