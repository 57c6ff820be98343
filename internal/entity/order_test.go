package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func validOrder() *Order {
	return &Order{
		Delivery: Delivery{
			Bread:    "francês",
			Drink:    "guaraná",
			Local:    false,
			Meats:    "calabresa",
			Salad:    "completa",
			SideDish: "batata",
		},
		Address: Address{
			Address:      "Rua das Flores, 100",
			City:         "São Paulo",
			Neighborhood: "Centro",
			PostalCode:   "01000-000",
			State:        "SP",
		},
		Payment: Payment{
			FileName: "comprovante.png",
		},
	}
}

func TestValidateAcceptsCompleteOrder(t *testing.T) {
	require.NoError(t, validOrder().Validate())
}

func TestValidateOptionalFields(t *testing.T) {
	o := validOrder()
	o.Address.Complement = ""
	o.Payment.Attachment = nil
	require.NoError(t, o.Validate())
}

func TestValidateReportsFirstMissingField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Order)
		field  string
	}{
		{"bread", func(o *Order) { o.Delivery.Bread = "" }, "delivery.bread"},
		{"sideDish", func(o *Order) { o.Delivery.SideDish = "" }, "delivery.sideDish"},
		{"city", func(o *Order) { o.Address.City = "" }, "address.city"},
		{"postalCode", func(o *Order) { o.Address.PostalCode = "" }, "address.postalCode"},
		{"fileName", func(o *Order) { o.Payment.FileName = "" }, "payment.fileName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOrder()
			tt.mutate(o)

			err := o.Validate()
			require.Error(t, err)

			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			require.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestPaymentAttachmentRoundTrips(t *testing.T) {
	// The attachment has no fixed shape; whatever JSON arrives must survive
	// storage untouched.
	raw := json.RawMessage(`{"data":"iVBORw0KGgo=","mime":"image/png"}`)
	p := Payment{Attachment: raw, FileName: "pix.png"}

	encoded, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded Payment
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.JSONEq(t, string(raw), string(decoded.Attachment))
}
