package http

import (
	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/application/usecase"
	"github.com/gofiber/fiber/v2"
)

// UnitOfMeasureHandler CRUD de unidades de medida.
type UnitOfMeasureHandler struct {
	uc *usecase.UnitOfMeasureUseCase
}

// NewUnitOfMeasureHandler construye el handler.
func NewUnitOfMeasureHandler(uc *usecase.UnitOfMeasureUseCase) *UnitOfMeasureHandler {
	return &UnitOfMeasureHandler{uc: uc}
}

// Register monta las rutas CRUD en r.
func (h *UnitOfMeasureHandler) Register(r fiber.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/:id", h.GetByID)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

// Create godoc
// @Summary      Crear unidad de medida
// @Tags         units-of-measure
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UnitOfMeasureRequest  true  "Unidad"
// @Success      201   {object}  dto.UnitOfMeasureResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units-of-measure [post]
func (h *UnitOfMeasureHandler) Create(c *fiber.Ctx) error {
	var in dto.UnitOfMeasureRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene una unidad por ID.
func (h *UnitOfMeasureHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "unidad de medida")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "unidad de medida")
	}
	return c.JSON(out)
}

// Update reemplaza nombre y símbolo.
func (h *UnitOfMeasureHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "unidad de medida")
	}
	var in dto.UnitOfMeasureRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "unidad de medida")
	}
	return c.JSON(out)
}

// Delete responde 409 si algún producto usa la unidad.
func (h *UnitOfMeasureHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "unidad de medida")
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List lista unidades con paginación (limit, offset).
func (h *UnitOfMeasureHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
