package entity

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Delivery describes what the customer ordered. Every field is mandatory;
// Local distinguishes on-site consumption from delivery.
type Delivery struct {
	Bread    string `json:"bread"`
	Drink    string `json:"drink"`
	Local    bool   `json:"local"`
	Meats    string `json:"meats"`
	Salad    string `json:"salad"`
	SideDish string `json:"sideDish"`
}

// Address is the delivery destination. Complement is the only optional field.
type Address struct {
	Address      string `json:"address"`
	City         string `json:"city"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	PostalCode   string `json:"postalCode"`
	State        string `json:"state"`
}

// Payment carries the proof-of-payment attachment. The attachment itself is
// opaque to the service: it is stored and returned verbatim, never parsed.
type Payment struct {
	Attachment json.RawMessage `json:"attachment,omitempty"`
	FileName   string          `json:"fileName"`
}

// Order is a delivery order stored as a row with JSONB sub-documents. The
// primary key is minted app-side; ShortID is the per-day human-readable
// number and is immutable after creation.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID        string    `bun:"id,pk"`
	ShortID   string    `bun:"short_id"`
	Delivery  Delivery  `bun:"delivery,type:jsonb"`
	Address   Address   `bun:"address,type:jsonb"`
	Payment   Payment   `bun:"payment,type:jsonb"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `bun:"updated_at,nullzero"`
}

// MissingFieldError reports the first mandatory field absent from a payload.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

// Validate checks required-field presence across the three sub-documents.
// Boolean fields are exempt: a JSON false is indistinguishable from absence
// and both are acceptable.
func (o *Order) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"delivery.bread", o.Delivery.Bread},
		{"delivery.drink", o.Delivery.Drink},
		{"delivery.meats", o.Delivery.Meats},
		{"delivery.salad", o.Delivery.Salad},
		{"delivery.sideDish", o.Delivery.SideDish},
		{"address.address", o.Address.Address},
		{"address.city", o.Address.City},
		{"address.neighborhood", o.Address.Neighborhood},
		{"address.postalCode", o.Address.PostalCode},
		{"address.state", o.Address.State},
		{"payment.fileName", o.Payment.FileName},
	}

	for _, r := range required {
		if r.value == "" {
			return &MissingFieldError{Field: r.field}
		}
	}
	return nil
}
