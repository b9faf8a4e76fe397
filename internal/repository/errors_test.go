package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	other := errors.New("connection reset")

	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("scan: %w", sql.ErrNoRows)), ErrNotFound)
	assert.ErrorIs(t, translate(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}), ErrUsernameTaken)
	assert.ErrorIs(t, translate(&mysql.MySQLError{Number: 1452}), ErrForeignKey)
	assert.Same(t, other, translate(other))

	deadlock := &mysql.MySQLError{Number: 1213}
	assert.Equal(t, error(deadlock), translate(deadlock))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%ana%", likePattern("  Ana "))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}
