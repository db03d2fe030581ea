package http

import (
	"context"

	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/gofiber/fiber/v2"
)

// movementPoster lo implementa *inventory.PostMovementUseCase.
type movementPoster interface {
	Post(ctx context.Context, kind entity.MovementKind, movementID string) (*dto.MovementResponse, error)
}

// movementEditor lo implementa *inventory.MovementUseCase.
type movementEditor interface {
	Create(ctx context.Context, kind entity.MovementKind, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error)
	Update(ctx context.Context, kind entity.MovementKind, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error)
	Delete(ctx context.Context, kind entity.MovementKind, id string) error
	GetByID(ctx context.Context, kind entity.MovementKind, id string) (*dto.MovementResponse, error)
	List(ctx context.Context, kind entity.MovementKind, status entity.MovementStatus, warehouseID string, page dto.PageRequest) (*dto.MovementListResponse, error)
}

// MovementHandler rutas de un tipo de movimiento (entradas o salidas).
type MovementHandler struct {
	kind   entity.MovementKind
	editor movementEditor
	poster movementPoster
}

// NewMovementHandler construye el handler para kind.
func NewMovementHandler(kind entity.MovementKind, editor movementEditor, poster movementPoster) *MovementHandler {
	return &MovementHandler{kind: kind, editor: editor, poster: poster}
}

// Register monta las rutas del tipo en r.
func (h *MovementHandler) Register(r fiber.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.GetByID)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
	r.Post("/:id/postear", h.Post)
}

// Post godoc
// @Summary      Postear movimiento
// @Description  BORRADOR -> POSTEADO aplicando el efecto sobre el stock en una sola transacción.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/movements-entrada/{id}/postear [post]
// @Router       /api/movements-salida/{id}/postear [post]
func (h *MovementHandler) Post(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "movimiento")
	}
	out, err := h.poster.Post(c.UserContext(), h.kind, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear movimiento en borrador
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements-entrada [post]
// @Router       /api/movements-salida [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.editor.Create(c.UserContext(), h.kind, GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Modificar borrador
// @Description  Si viene "lines" reemplaza todas las líneas.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del movimiento"
// @Param        body  body  dto.UpdateMovementRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements-entrada/{id} [put]
// @Router       /api/movements-salida/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "movimiento")
	}
	var in dto.UpdateMovementRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.editor.Update(c.UserContext(), h.kind, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina un borrador.
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "movimiento")
	}
	if err := h.editor.Delete(c.UserContext(), h.kind, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID devuelve el movimiento con sus líneas.
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "movimiento")
	}
	out, err := h.editor.GetByID(c.UserContext(), h.kind, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "DRAFT | POSTED"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        limit         query  int     false  "Límite (default 20, máx 100)"
// @Param        offset        query  int     false  "Offset"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements-entrada [get]
// @Router       /api/movements-salida [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	status := entity.MovementStatus(c.Query("status"))
	if status != "" && status != entity.StatusDraft && status != entity.StatusPosted {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status debe ser DRAFT o POSTED"})
	}
	out, err := h.editor.List(c.UserContext(), h.kind, status, c.Query("warehouse_id"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
