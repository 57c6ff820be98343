package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sanduba/pedidos/pkg/errorbank"
)

func newContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBuildSuccessEmitsBarePayload(t *testing.T) {
	c, rec := newContext(t)

	err := New(c).WithStatus(http.StatusCreated).WithData(map[string]string{"id": "0001"}).Build()
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"id":"0001"}`, rec.Body.String())
}

func TestBuildDefaultsToOK(t *testing.T) {
	c, rec := newContext(t)

	err := New(c).WithData([]string{}).Build()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestBuildErrorShape(t *testing.T) {
	c, rec := newContext(t)

	err := New(c).WithError(errorbank.NotFound("Pedido não encontrado")).Build()
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"Pedido não encontrado"}`, rec.Body.String())
}

func TestBuildErrorStatusFromKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"bad request", errorbank.BadRequest("Limite diário de pedidos atingido"), http.StatusBadRequest},
		{"internal", errorbank.Internal("Erro ao salvar o pedido"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(t)
			require.NoError(t, New(c).WithError(tt.err).Build())
			require.Equal(t, tt.status, rec.Code)
		})
	}
}
