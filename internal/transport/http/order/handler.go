package order

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanduba/pedidos/internal/dto"
	"github.com/sanduba/pedidos/internal/entity"
	"github.com/sanduba/pedidos/internal/presentation/http/response"
	repo "github.com/sanduba/pedidos/internal/repository/order"
	"github.com/sanduba/pedidos/internal/service/sequence"
	"github.com/sanduba/pedidos/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/sanduba/pedidos/transport/http/order")

// Fixed client-facing messages; the frontend matches on them verbatim.
const (
	msgDailyLimit   = "Limite diário de pedidos atingido"
	msgNotFound     = "Pedido não encontrado"
	msgInvalidBody  = "Corpo da requisição inválido"
	msgCreateFailed = "Erro ao salvar o pedido"
	msgListFailed   = "Erro ao buscar os pedidos"
	msgUpdateFailed = "Erro ao atualizar o pedido"
	msgDeleteFailed = "Erro ao deletar o pedido"
)

// Service is the order service surface the handler depends on.
type Service interface {
	Create(ctx context.Context, payload dto.OrderPayload) (*entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	Replace(ctx context.Context, id string, payload dto.OrderPayload) (*entity.Order, error)
	Delete(ctx context.Context, id string) (string, error)
}

// Handler exposes delivery order endpoints over HTTP.
type Handler struct {
	svc Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes under the /v1 base path.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/v1")
	g.POST("/delivery", h.create)
	g.GET("/deliveries", h.list)
	g.PUT("/delivery/:id", h.update)
	g.DELETE("/delivery/:id", h.remove)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.OrderPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest(msgInvalidBody, errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "deliveries.create")
	defer span.End()

	order, err := h.svc.Create(ctx, payload)
	if err != nil {
		if errors.Is(err, sequence.ErrDailyLimitExceeded) {
			return b.WithError(errorbank.BadRequest(msgDailyLimit, errorbank.WithCause(err))).Build()
		}
		if appErr := errorbank.From(err); appErr.Kind() == errorbank.KindBadRequest {
			return b.WithError(appErr).Build()
		}
		return b.WithError(errorbank.Internal(msgCreateFailed, errorbank.WithCause(err))).Build()
	}

	span.SetAttributes(attribute.String("order.short_id", order.ShortID))
	return b.WithStatus(http.StatusCreated).WithData(dto.IDResponse{ID: order.ShortID}).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "deliveries.list")
	defer span.End()

	orders, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(errorbank.Internal(msgListFailed, errorbank.WithCause(err))).Build()
	}

	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toDTO(&orders[i]))
	}
	return b.WithData(out).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	var payload dto.OrderPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest(msgInvalidBody, errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "deliveries.update", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order, err := h.svc.Replace(ctx, id, payload)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return b.WithError(errorbank.NotFound(msgNotFound, errorbank.WithCause(err))).Build()
		}
		return b.WithError(errorbank.Internal(msgUpdateFailed, errorbank.WithCause(err))).Build()
	}

	return b.WithData(dto.IDResponse{ID: order.ID}).Build()
}

func (h *Handler) remove(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	ctx, span := httpTracer.Start(c.Request().Context(), "deliveries.delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	deleted, err := h.svc.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return b.WithError(errorbank.NotFound(msgNotFound, errorbank.WithCause(err))).Build()
		}
		return b.WithError(errorbank.Internal(msgDeleteFailed, errorbank.WithCause(err))).Build()
	}

	return b.WithData(dto.IDResponse{ID: deleted}).Build()
}

func toDTO(order *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:        order.ID,
		ShortID:   order.ShortID,
		Delivery:  order.Delivery,
		Address:   order.Address,
		Payment:   order.Payment,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}
