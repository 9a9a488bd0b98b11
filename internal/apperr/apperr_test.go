package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:         http.StatusBadRequest,
		KindConflict:           http.StatusBadRequest,
		KindInvalidCredentials: http.StatusUnauthorized,
		KindUnauthenticated:    http.StatusUnauthorized,
		KindForbidden:          http.StatusForbidden,
		KindNotFound:           http.StatusNotFound,
		KindMethodNotAllowed:   http.StatusMethodNotAllowed,
		KindRateLimited:        http.StatusTooManyRequests,
		KindUnavailable:        http.StatusServiceUnavailable,
		KindInternal:           http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, k.Status(), k.String())
	}
}

func TestSentinelsMatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("login: %w", ErrInvalidCredentials)
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	assert.False(t, errors.Is(err, ErrInvalidToken))
	assert.Equal(t, KindInvalidCredentials, KindOf(err))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Unavailable(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindUnavailable, err.Kind)
}
