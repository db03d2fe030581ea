package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Motor de posteo de movimientos.
	ErrInvalidState       = errors.New("solo se pueden postear movimientos en BORRADOR")
	ErrPostedImmutable    = errors.New("no puedes modificar un movimiento ya POSTEADO")
	ErrEmptyMovement      = errors.New("no puedes postear un movimiento sin líneas")
	ErrInvalidLine        = errors.New("todas las líneas deben tener cantidad > 0")
	ErrFractionNotAllowed = errors.New("el producto no permite fracciones")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	// ErrConcurrencyTimeout es reintentable: la espera por el bloqueo de fila expiró.
	ErrConcurrencyTimeout = errors.New("tiempo de espera de bloqueo agotado, reintente")
)

// InvalidLineError línea con cantidad no positiva o con más decimales de los admitidos.
type InvalidLineError struct {
	LineID   string
	Quantity decimal.Decimal
	Reason   string
}

func (e *InvalidLineError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("línea inválida (cantidad %s): %s", e.Quantity.String(), e.Reason)
	}
	return ErrInvalidLine.Error()
}

func (e *InvalidLineError) Unwrap() error { return ErrInvalidLine }

// FractionNotAllowedError cantidad fraccionaria sobre un producto que solo admite enteros.
type FractionNotAllowedError struct {
	SKU      string
	Quantity decimal.Decimal
}

func (e *FractionNotAllowedError) Error() string {
	return fmt.Sprintf("El producto %s no permite fracciones.", e.SKU)
}

func (e *FractionNotAllowedError) Unwrap() error { return ErrFractionNotAllowed }

// InsufficientStockError salida que excede lo disponible en bodega.
type InsufficientStockError struct {
	SKU       string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente para %s. Disponible: %s, solicitado: %s",
		e.SKU, e.Available.StringFixed(3), e.Requested.StringFixed(3))
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// IsPostingRejection indica si err es un rechazo de negocio del posteo (respuesta 400).
func IsPostingRejection(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrEmptyMovement) ||
		errors.Is(err, ErrInvalidLine) ||
		errors.Is(err, ErrFractionNotAllowed) ||
		errors.Is(err, ErrInsufficientStock)
}
