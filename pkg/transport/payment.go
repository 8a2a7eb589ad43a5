package transport

import (
	"fmt"
	"time"

	"github.com/Skotchmaster/food_ordering/internal/apperr"
)

type PaymentMethodType string

const (
	PaymentCreditCard PaymentMethodType = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethodType = "DEBIT_CARD"
	PaymentUPI        PaymentMethodType = "UPI"
	PaymentPayPal     PaymentMethodType = "PAYPAL"
)

func (t PaymentMethodType) Valid() bool {
	switch t {
	case PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentPayPal:
		return true
	}
	return false
}

type PaymentMethodCreate struct {
	Type           PaymentMethodType `json:"type"`
	CardLast4      *string           `json:"card_last4"`
	CardholderName *string           `json:"cardholder_name"`
	IsDefault      bool              `json:"is_default"`
}

func (p PaymentMethodCreate) Validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("unknown payment method type %q: %w", p.Type, apperr.ErrValidation)
	}
	if p.CardLast4 != nil {
		last4 := *p.CardLast4
		if len(last4) != 4 {
			return fmt.Errorf("card_last4 must have 4 digits: %w", apperr.ErrValidation)
		}
		for _, r := range last4 {
			if r < '0' || r > '9' {
				return fmt.Errorf("card_last4 must have 4 digits: %w", apperr.ErrValidation)
			}
		}
	}
	return nil
}

type PaymentMethod struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	Type           PaymentMethodType `json:"type"`
	CardLast4      *string           `json:"card_last4"`
	CardholderName *string           `json:"cardholder_name"`
	IsDefault      bool              `json:"is_default"`
	CreatedAt      time.Time         `json:"created_at"`
}

func (p PaymentMethod) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("payment method: id required: %w", apperr.ErrValidation)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("payment method %s: unknown type %q: %w", p.ID, p.Type, apperr.ErrValidation)
	}
	return nil
}

type Message struct {
	Message string `json:"message"`
}

type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
