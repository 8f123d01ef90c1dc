package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	for _, tc := range []struct {
		err    *Error
		code   Code
		status int
	}{
		{BadRequest("bad"), CodeBadRequest, http.StatusBadRequest},
		{Unauthorized("who"), CodeUnauthorized, http.StatusBadRequest},
		{NotEligible("no"), CodeNotEligible, http.StatusBadRequest},
		{Upstream("up", nil), CodeUpstream, http.StatusInternalServerError},
		{Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
	} {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.Status)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("github request failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "UPSTREAM_ERROR")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFrom(t *testing.T) {
	original := BadRequest("bad")
	assert.Same(t, original, From(original))

	wrapped := From(errors.New("surprise"))
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.Equal(t, "internal server error", wrapped.Message)
}
