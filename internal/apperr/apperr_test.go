package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, KindInternal, "load sale")

	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, "load sale: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Wrap(nil, KindInternal, "noop"))
}

func TestIs_MatchesKind(t *testing.T) {
	err := fmt.Errorf("login: %w", New(KindUnauthorized, "invalid credentials"))

	assert.ErrorIs(t, err, New(KindUnauthorized, "something else"))
	assert.NotErrorIs(t, err, New(KindNotFound, "invalid credentials"))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad", map[string]string{"amount": "must be positive"})))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", NotFound("sale not found"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}
