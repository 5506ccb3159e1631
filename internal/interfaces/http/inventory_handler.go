package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/retiros-api/internal/application/usecase"
)

// InventoryHandler productos retirables, lotes y precios de catálogo.
type InventoryHandler struct {
	stock     *usecase.StockUseCase
	catalogue *usecase.CatalogueUseCase
	log       zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *usecase.StockUseCase, catalogue *usecase.CatalogueUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{stock: stock, catalogue: catalogue, log: log}
}

// ListWithdrawableProducts godoc
// @Summary      Productos retirables
// @Description  inStock=false indica que solo se puede pedir directo al proveedor.
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   dto.WithdrawableProductDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/withdrawableProducts [get]
func (h *InventoryHandler) ListWithdrawableProducts(c *fiber.Ctx) error {
	out, err := h.stock.ListWithdrawableProducts(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListBatches godoc
// @Summary      Lotes con stock de un producto
// @Tags         inventory
// @Produce      json
// @Param        productCode  path  string  true  "Código de producto"
// @Success      200  {array}   dto.BatchDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/grouped/{productCode} [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	out, err := h.stock.ListBatches(c.UserContext(), c.Params("productCode"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// PriceByProduct godoc
// @Summary      Precio de catálogo vigente a una fecha
// @Tags         catalogues
// @Produce      json
// @Param        date         path  string  true  "Fecha YYYY-MM-DD"
// @Param        productCode  path  string  true  "Código de producto"
// @Success      200  {object}  dto.CataloguePriceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalogues/price-by-product/{date}/{productCode} [get]
func (h *InventoryHandler) PriceByProduct(c *fiber.Ctx) error {
	out, err := h.catalogue.PriceAt(c.UserContext(), c.Params("productCode"), c.Params("date"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
