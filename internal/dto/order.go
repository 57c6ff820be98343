package dto

import (
	"time"

	"github.com/sanduba/pedidos/internal/entity"
)

// OrderPayload is the request body shared by the create and update routes.
type OrderPayload struct {
	Delivery entity.Delivery `json:"delivery"`
	Address  entity.Address  `json:"address"`
	Payment  entity.Payment  `json:"payment"`
}

// OrderResponse represents a stored order as exposed via the HTTP API.
type OrderResponse struct {
	ID        string          `json:"id"`
	ShortID   string          `json:"shortId"`
	Delivery  entity.Delivery `json:"delivery"`
	Address   entity.Address  `json:"address"`
	Payment   entity.Payment  `json:"payment"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt,omitempty"`
}

// IDResponse is the minimal acknowledgement body: the freshly minted short
// id on creation, the store id on update/delete.
type IDResponse struct {
	ID string `json:"id"`
}
