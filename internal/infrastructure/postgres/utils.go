package postgres

import (
	"errors"
	"fmt"

	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE usados por el motor.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
	codeNumericOverflow     = "22003"
	codeLockNotAvailable    = "55P03"
	codeDeadlockDetected    = "40P01"
	codeSerializationFail   = "40001"
)

const constraintStockNonNegative = "stock_non_negative"

func pgCode(err error) (string, *pgconn.PgError) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr
	}
	return "", nil
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeUniqueViolation
}

// mapError traduce errores de PostgreSQL a errores de dominio; el resto pasa tal cual.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	code, pgErr := pgCode(err)
	switch code {
	case codeLockNotAvailable, codeDeadlockDetected, codeSerializationFail:
		return fmt.Errorf("%s: %w", pgErr.Message, domain.ErrConcurrencyTimeout)
	case codeCheckViolation:
		if pgErr.ConstraintName == constraintStockNonNegative {
			return fmt.Errorf("stock negativo: %w", domain.ErrInsufficientStock)
		}
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, domain.ErrInvalidInput)
	case codeForeignKeyViolation:
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, domain.ErrNotFound)
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, domain.ErrDuplicate)
	case codeInvalidText:
		return fmt.Errorf("%s: %w", pgErr.Message, domain.ErrInvalidInput)
	case codeNumericOverflow:
		return fmt.Errorf("%s: %w", pgErr.Message, domain.ErrInvalidInput)
	}
	return err
}

// mapDeleteError como mapError, pero una FK violada al borrar significa que la fila sigue referenciada.
func mapDeleteError(err error) error {
	if code, pgErr := pgCode(err); code == codeForeignKeyViolation {
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, domain.ErrConflict)
	}
	return mapError(err)
}
