package http

import (
	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/application/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ProductSupplierHandler vínculos producto-proveedor.
type ProductSupplierHandler struct {
	uc *usecase.ProductSupplierUseCase
}

// NewProductSupplierHandler construye el handler.
func NewProductSupplierHandler(uc *usecase.ProductSupplierUseCase) *ProductSupplierHandler {
	return &ProductSupplierHandler{uc: uc}
}

// Register monta las rutas en r.
func (h *ProductSupplierHandler) Register(r fiber.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.ListByProduct)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

// Create godoc
// @Summary      Vincular proveedor a producto
// @Tags         product-suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductSupplierRequest  true  "Vínculo"
// @Success      201   {object}  dto.ProductSupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/product-suppliers [post]
func (h *ProductSupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductSupplierRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update cambia código, costos o proveedor principal.
func (h *ProductSupplierHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "proveedor del producto")
	}
	var in dto.UpdateProductSupplierRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "proveedor del producto")
	}
	return c.JSON(out)
}

func (h *ProductSupplierHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "proveedor del producto")
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByProduct godoc
// @Summary      Proveedores de un producto
// @Tags         product-suppliers
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "Producto"
// @Success      200  {array}   dto.ProductSupplierResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/product-suppliers [get]
func (h *ProductSupplierHandler) ListByProduct(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if _, err := uuid.Parse(productID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es obligatorio y debe ser UUID"})
	}
	out, err := h.uc.ListByProduct(c.UserContext(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
