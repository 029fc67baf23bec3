package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorKeepsDomainErrors(t *testing.T) {
	err := fmt.Errorf("login: %w", NewUnauthorized("invalid credentials"))

	de := ToDomainError(err)
	assert.Equal(t, "UNAUTHORIZED", de.Code)
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	de := ToDomainError(fmt.Errorf("get account: %w", pgx.ErrNoRows))
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestToDomainErrorMapsFiberErrors(t *testing.T) {
	de := ToDomainError(fiber.ErrNotFound)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestToDomainErrorHidesUnknownErrors(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	de := ToDomainError(cause)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
}
