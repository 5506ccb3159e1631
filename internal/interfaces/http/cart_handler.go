package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/retiros-api/internal/application/dto"
	"github.com/jhoicas/retiros-api/internal/application/usecase"
)

// CartHandler carrito persistido por distribuidor (?distributorCode=).
type CartHandler struct {
	uc  *usecase.CartUseCase
	log zerolog.Logger
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *usecase.CartUseCase, log zerolog.Logger) *CartHandler {
	return &CartHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Obtener carrito
// @Tags         cart
// @Produce      json
// @Param        distributorCode  query  string  true  "Distribuidor dueño del carrito"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cart/get [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Query("distributorCode"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Guardar carrito completo
// @Description  Reemplaza items y distribuidor seleccionado; devuelve totales y efectivo requerido recalculados.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        distributorCode  query  string                 true  "Distribuidor dueño del carrito"
// @Param        body             body   dto.UpsertCartRequest  true  "items, selectedDistributor"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cart/add [post]
func (h *CartHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertCartRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Upsert(c.UserContext(), c.Query("distributorCode"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         cart
// @Produce      json
// @Param        distributorCode  query  string  true  "Distribuidor dueño del carrito"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cart/clear [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.UserContext(), c.Query("distributorCode")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "carrito vaciado"})
}
