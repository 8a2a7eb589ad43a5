package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
	"github.com/Skotchmaster/food_ordering/internal/models"
	"github.com/Skotchmaster/food_ordering/internal/repo"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type PaymentService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

// List returns the caller's own payment methods, default first. Every role
// may read them.
func (s *PaymentService) List(ctx context.Context, v Viewer) ([]models.PaymentMethod, error) {
	if v.UserID == "" {
		return nil, fmt.Errorf("not authenticated: %w", apperr.ErrAuth)
	}
	return s.Repo.ListPaymentMethods(ctx, v.UserID)
}

func (s *PaymentService) Create(ctx context.Context, v Viewer, req transport.PaymentMethodCreate) (*models.PaymentMethod, error) {
	l := logging.FromContext(ctx).With("svc", "payment.create", "user_id", v.UserID)

	if err := v.require(access.ActionManagePaymentMethods); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pm := models.PaymentMethod{
		UserID:         v.UserID,
		Type:           req.Type,
		CardLast4:      req.CardLast4,
		CardholderName: req.CardholderName,
		IsDefault:      req.IsDefault,
	}
	if err := s.Repo.CreatePaymentMethod(ctx, &pm); err != nil {
		l.Error("create_payment_method_failed", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, l, TopicPaymentEvents, Event{Type: "payment_method_created", ID: pm.ID, UserID: v.UserID})
	return &pm, nil
}

func (s *PaymentService) Update(ctx context.Context, v Viewer, id string, req transport.PaymentMethodCreate) (*models.PaymentMethod, error) {
	l := logging.FromContext(ctx).With("svc", "payment.update", "user_id", v.UserID, "payment_method_id", id)

	if err := v.require(access.ActionManagePaymentMethods); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pm, err := s.Repo.UpdatePaymentMethod(ctx, id, func(pm *models.PaymentMethod) {
		pm.Type = req.Type
		pm.CardLast4 = req.CardLast4
		pm.CardholderName = req.CardholderName
		pm.IsDefault = req.IsDefault
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("payment method not found: %w", apperr.ErrNotFound)
		}
		l.Error("update_payment_method_failed", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, l, TopicPaymentEvents, Event{Type: "payment_method_updated", ID: pm.ID, UserID: pm.UserID})
	return pm, nil
}

func (s *PaymentService) Delete(ctx context.Context, v Viewer, id string) error {
	l := logging.FromContext(ctx).With("svc", "payment.delete", "user_id", v.UserID, "payment_method_id", id)

	if err := v.require(access.ActionManagePaymentMethods); err != nil {
		return err
	}
	if err := s.Repo.DeletePaymentMethod(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("payment method not found: %w", apperr.ErrNotFound)
		}
		l.Error("delete_payment_method_failed", "error", err)
		return err
	}

	publish(ctx, s.Events, l, TopicPaymentEvents, Event{Type: "payment_method_deleted", ID: id, UserID: v.UserID})
	return nil
}
