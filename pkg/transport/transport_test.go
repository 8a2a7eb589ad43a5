package transport

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
)

func strPtr(s string) *string { return &s }

func TestOrderCreate_Validate(t *testing.T) {
	t.Parallel()

	ok := OrderItemCreate{MenuItemID: "m1", Quantity: 1, Price: decimal.RequireFromString("9.99")}

	tests := []struct {
		name    string
		req     OrderCreate
		wantErr bool
	}{
		{name: "valid", req: OrderCreate{Items: []OrderItemCreate{ok}}},
		{name: "valid with payment", req: OrderCreate{Items: []OrderItemCreate{ok}, PaymentMethodID: strPtr("pm")}},
		{name: "no items", req: OrderCreate{}, wantErr: true},
		{name: "missing id", req: OrderCreate{Items: []OrderItemCreate{{Quantity: 1}}}, wantErr: true},
		{name: "zero quantity", req: OrderCreate{Items: []OrderItemCreate{{MenuItemID: "m1"}}}, wantErr: true},
		{name: "negative price", req: OrderCreate{Items: []OrderItemCreate{{MenuItemID: "m1", Quantity: 1, Price: decimal.NewFromInt(-1)}}}, wantErr: true},
		{name: "empty payment id", req: OrderCreate{Items: []OrderItemCreate{ok}, PaymentMethodID: strPtr("")}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPaymentMethodCreate_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, PaymentMethodCreate{Type: PaymentUPI}.Validate())
	assert.NoError(t, PaymentMethodCreate{Type: PaymentCreditCard, CardLast4: strPtr("4242")}.Validate())
	assert.ErrorIs(t, PaymentMethodCreate{Type: "CASH"}.Validate(), apperr.ErrValidation)
	assert.ErrorIs(t, PaymentMethodCreate{Type: PaymentDebitCard, CardLast4: strPtr("42a2")}.Validate(), apperr.ErrValidation)
	assert.ErrorIs(t, PaymentMethodCreate{Type: PaymentDebitCard, CardLast4: strPtr("424")}.Validate(), apperr.ErrValidation)
}

func TestRegisterRequest_ValidateNormalizes(t *testing.T) {
	t.Parallel()

	req := RegisterRequest{Username: "  loki ", Password: "mischief", Country: "india"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "loki", req.Username)
	assert.Equal(t, "loki", req.FullName)

	short := RegisterRequest{Username: "loki", Password: "123", Country: "INDIA"}
	assert.ErrorIs(t, short.Validate(), apperr.ErrValidation)
}

func TestLoginResponse_Validate(t *testing.T) {
	t.Parallel()

	user := User{ID: "u1", Username: "thor", Role: access.RoleMember, Country: access.CountryIndia}
	assert.NoError(t, LoginResponse{AccessToken: "tok", User: user}.Validate())
	assert.ErrorIs(t, LoginResponse{User: user}.Validate(), apperr.ErrValidation)

	user.Role = "GOD"
	assert.ErrorIs(t, LoginResponse{AccessToken: "tok", User: user}.Validate(), apperr.ErrValidation)
}

func TestOrder_FormatTotal(t *testing.T) {
	t.Parallel()

	o := Order{Country: access.CountryIndia, TotalAmount: decimal.RequireFromString("700")}
	assert.Equal(t, "₹700.00", o.FormatTotal())

	o.Country = access.CountryAmerica
	o.TotalAmount = decimal.RequireFromString("25.5")
	assert.Equal(t, "$25.50", o.FormatTotal())
}

func TestNewPageMeta(t *testing.T) {
	t.Parallel()

	m := NewPageMeta(2, 10, 10, 25)
	assert.Equal(t, int64(3), m.TotalPages)
	assert.True(t, m.HasPrev)
	assert.True(t, m.HasNext)

	m = NewPageMeta(3, 20, 10, 25)
	assert.False(t, m.HasNext)
}
