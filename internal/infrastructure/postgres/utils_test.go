package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/domain"
)

func TestWrapErr_ConflictosDeConcurrencia(t *testing.T) {
	for _, code := range []string{codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable} {
		t.Run(code, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: code, Message: "contención"}
			err := wrapErr("stock.GetForUpdate", fmt.Errorf("query: %w", pgErr))

			var cerr *domain.ConcurrencyConflictError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "stock.GetForUpdate", cerr.Op)
			assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

			var inner *pgconn.PgError
			require.ErrorAs(t, err, &inner)
			assert.Equal(t, code, inner.Code)
		})
	}
}

func TestWrapErr_OtrosErrores(t *testing.T) {
	assert.NoError(t, wrapErr("op", nil))

	base := errors.New("conexión cerrada")
	err := wrapErr("movements.Create", base)
	require.ErrorIs(t, err, base)
	assert.NotErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Contains(t, err.Error(), "movements.Create")

	unique := &pgconn.PgError{Code: codeUniqueViolation}
	assert.True(t, isUniqueViolation(wrapErr("op", unique)))
	assert.False(t, isConcurrencyError(unique))
}

func TestAppendRange(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	q, args := appendRange("SELECT 1 WHERE product_id = $1", []any{"P"}, "occurred_at", &from, &to)
	assert.Equal(t, "SELECT 1 WHERE product_id = $1 AND occurred_at >= $2 AND occurred_at <= $3", q)
	assert.Equal(t, []any{"P", from, to}, args)

	q, args = appendRange("SELECT 1 WHERE true", nil, "created_at", nil, &to)
	assert.Equal(t, "SELECT 1 WHERE true AND created_at <= $1", q)
	assert.Len(t, args, 1)
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	s := nullString("x")
	require.NotNil(t, s)
	assert.Equal(t, "x", derefString(s))
	assert.Equal(t, "", derefString(nil))
}
