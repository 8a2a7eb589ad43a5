package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
)

const (
	TopicUserEvents    = "user_events"
	TopicOrderEvents   = "order_events"
	TopicPaymentEvents = "payment_events"
)

// Publisher is satisfied by mykafka.Producer.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Event struct {
	Type   string    `json:"type"`
	ID     string    `json:"id"`
	UserID string    `json:"user_id,omitempty"`
	At     time.Time `json:"at"`
	Data   any       `json:"data,omitempty"`
}

// publish never fails the caller, a lost event is only logged.
func publish(ctx context.Context, p Publisher, l *slog.Logger, topic string, ev Event) {
	if p == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := p.PublishEvent(ctx, topic, ev.ID, ev); err != nil {
		l.Warn("publish_event_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}

// Viewer is the authenticated caller as seen by the services.
type Viewer struct {
	UserID   string
	Username string
	Role     access.Role
	Country  access.Country
}

func (v Viewer) require(a access.Action) error {
	if v.UserID == "" {
		return fmt.Errorf("not authenticated: %w", apperr.ErrAuth)
	}
	if !access.Permits(v.Role, a) {
		return fmt.Errorf("%s: %w", access.DeniedMessage(a), apperr.ErrForbidden)
	}
	return nil
}

// countryFilter is the country a listing must be restricted to, empty for
// callers that see everything.
func (v Viewer) countryFilter() access.Country {
	if v.Role == access.RoleAdmin {
		return ""
	}
	return v.Country
}
