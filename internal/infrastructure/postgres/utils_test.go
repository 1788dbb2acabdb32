package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPageArgs_LimiteCeroEsSinLimite(t *testing.T) {
	limit, offset := pageArgs(0, 10)
	assert.Nil(t, limit)
	assert.Equal(t, 10, offset)

	limit, offset = pageArgs(-5, -3)
	assert.Nil(t, limit)
	assert.Equal(t, 0, offset, "offset negativo se normaliza a 0")

	limit, offset = pageArgs(20, 40)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)
}

func TestYearPattern_PatronLike(t *testing.T) {
	assert.Equal(t, "PO-2026-%", yearPattern("PO", 2026))
	assert.Equal(t, "TR-1999-%", yearPattern("TR", 1999))
}

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(wrapped))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(errors.New("ERROR: duplicate key (SQLSTATE 23505)")))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}
