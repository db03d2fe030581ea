package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	wrap := func(pgErr *pgconn.PgError) error { return fmt.Errorf("adjust stock: %w", pgErr) }

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"lock timeout", wrap(&pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"}), domain.ErrConcurrencyTimeout},
		{"deadlock", wrap(&pgconn.PgError{Code: "40P01"}), domain.ErrConcurrencyTimeout},
		{"stock negativo", wrap(&pgconn.PgError{Code: "23514", ConstraintName: "stock_non_negative"}), domain.ErrInsufficientStock},
		{"otro check", wrap(&pgconn.PgError{Code: "23514", ConstraintName: "movements_supplier_only_in"}), domain.ErrInvalidInput},
		{"fk", wrap(&pgconn.PgError{Code: "23503"}), domain.ErrNotFound},
		{"unique", wrap(&pgconn.PgError{Code: "23505"}), domain.ErrDuplicate},
		{"uuid mal formado", wrap(&pgconn.PgError{Code: "22P02"}), domain.ErrInvalidInput},
		{"desborde numérico", wrap(&pgconn.PgError{Code: "22003", Message: "numeric field overflow"}), domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tc.err), tc.want)
		})
	}

	plain := errors.New("conexión cerrada")
	assert.Same(t, plain, mapError(plain))
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(domain.ErrEmptyMovement), domain.ErrEmptyMovement)
}

func TestMapDeleteError(t *testing.T) {
	referenced := fmt.Errorf("delete brand: %w", &pgconn.PgError{Code: "23503", ConstraintName: "products_brand_id_fkey"})
	assert.ErrorIs(t, mapDeleteError(referenced), domain.ErrConflict)
	assert.ErrorIs(t, mapDeleteError(&pgconn.PgError{Code: "55P03"}), domain.ErrConcurrencyTimeout)
	assert.NoError(t, mapDeleteError(nil))
}

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", pgx5URL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", pgx5URL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://x", pgx5URL("pgx5://x"))
}
