package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	wrapped := fmt.Errorf("handler: %w", NewOrderNotFound("ORD1234"))
	de := ToDomainError(wrapped)
	assert.Equal(t, CodeOrderNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "ORD1234", de.Details["order_id"])

	plain := ToDomainError(errors.New("boom"))
	assert.Equal(t, CodeInternal, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.HTTPStatus)
}

func TestClassificationFailedUnwraps(t *testing.T) {
	cause := errors.New("upstream")
	err := NewClassificationFailed(cause)
	assert.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, CodeClassificationFailed))
	assert.False(t, HasCode(err, CodeInternal))
	assert.False(t, HasCode(cause, CodeClassificationFailed))
}

func TestFromStatus(t *testing.T) {
	cases := []struct {
		status int
		code   string
	}{
		{http.StatusNotFound, CodeNotFound},
		{http.StatusUnauthorized, CodeUnauthorized},
		{http.StatusMethodNotAllowed, CodeValidationFailed},
		{http.StatusServiceUnavailable, CodeInternal},
	}
	for _, tc := range cases {
		de := FromStatus(tc.status, "msg")
		assert.Equal(t, tc.code, de.Code, "status %d", tc.status)
	}
	assert.Equal(t, http.StatusInternalServerError, FromStatus(http.StatusBadGateway, "x").HTTPStatus)
}
