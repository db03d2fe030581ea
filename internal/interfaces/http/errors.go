package http

import (
	"context"
	"errors"

	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// retryAfterSeconds sugerido al cliente cuando expira la espera por un bloqueo.
const retryAfterSeconds = "1"

// respondError traduce errores de dominio a la respuesta HTTP. Los rechazos de posteo
// responden 400 con el mensaje legible en detail.
func respondError(c *fiber.Ctx, err error) error {
	var (
		status = fiber.StatusInternalServerError
		body   = dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	)
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		status, body = fiber.StatusBadRequest, rejection("INSUFFICIENT_STOCK", err)
	case errors.Is(err, domain.ErrFractionNotAllowed):
		status, body = fiber.StatusBadRequest, rejection("FRACTION_NOT_ALLOWED", err)
	case errors.Is(err, domain.ErrInvalidLine):
		status, body = fiber.StatusBadRequest, rejection("INVALID_LINE", err)
	case errors.Is(err, domain.ErrEmptyMovement):
		status, body = fiber.StatusBadRequest, rejection("EMPTY_MOVEMENT", err)
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrPostedImmutable):
		status, body = fiber.StatusBadRequest, rejection("INVALID_STATE", err)
	case errors.Is(err, domain.ErrInvalidInput):
		status, body = fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Detail: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		status, body = fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado", Detail: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		status, body = fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado", Detail: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		status, body = fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrConcurrencyTimeout):
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
		status, body = fiber.StatusServiceUnavailable, dto.ErrorResponse{
			Code: "CONCURRENCY_TIMEOUT", Message: "recurso ocupado, reintente", Detail: domain.ErrConcurrencyTimeout.Error(),
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, body = fiber.StatusRequestTimeout, dto.ErrorResponse{Code: "CANCELED", Message: "solicitud cancelada"}
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	}
	return c.Status(status).JSON(body)
}

func rejection(code string, err error) dto.ErrorResponse {
	return dto.ErrorResponse{Code: code, Message: "movimiento rechazado", Detail: err.Error()}
}
