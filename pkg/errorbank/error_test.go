package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindBadRequest, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindUnprocessableEntity, http.StatusUnprocessableEntity},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			require.Equal(t, tt.status, New(tt.kind, "boom").StatusCode())
		})
	}
}

func TestUnwrapCause(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := Internal("store unavailable", WithCause(cause))

	require.ErrorIs(t, appErr, cause)
	require.Equal(t, "store unavailable: connection refused", appErr.Error())
	require.Equal(t, "store unavailable", appErr.Message())
}

func TestFrom(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		require.Nil(t, From(nil))
	})

	t.Run("plain error wrapped as internal", func(t *testing.T) {
		appErr := From(errors.New("oops"))
		require.Equal(t, KindInternal, appErr.Kind())
	})

	t.Run("app error passes through wrapping", func(t *testing.T) {
		orig := NotFound("missing")
		appErr := From(fmt.Errorf("handler: %w", orig))
		require.Equal(t, KindNotFound, appErr.Kind())
		require.Equal(t, "missing", appErr.Message())
	})
}

func TestDetails(t *testing.T) {
	appErr := BadRequest("invalid", WithDetail("field", "shortId"))
	require.Equal(t, map[string]any{"field": "shortId"}, appErr.Details())
}
