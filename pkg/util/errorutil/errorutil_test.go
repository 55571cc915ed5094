package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "domain error passes through", err: NewConflict("dup", nil), wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "wrapped no rows", err: fmt.Errorf("get ticket: %w", pgx.ErrNoRows), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "fiber error", err: fiber.NewError(http.StatusForbidden, "insufficient role"), wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "malformed uuid", err: &pgconn.PgError{Code: "22P02"}, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "unknown error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
	assert.Nil(t, ToDomainError(nil))
}

func TestNewMissingFields(t *testing.T) {
	err := NewMissingFields([]string{"to_time", "duration"})

	de := ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "missing required fields: duration, to_time", de.Message)
	assert.Equal(t, []string{"duration", "to_time"}, de.Details["fields"])
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.True(t, IsNotFound(NewNotFound("ticket", nil)))
	assert.False(t, IsNotFound(NewValidationError("bad", nil)))
	assert.False(t, IsNotFound(errors.New("other")))
}
