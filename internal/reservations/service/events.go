package service

import (
	"context"
	"time"

	"yoyaku/pkg/kafka"
	"yoyaku/pkg/model"
	"yoyaku/pkg/timeparse"
)

const (
	EventReservationCreated = "reservation.created"
	EventReservationUpdated = "reservation.updated"
	EventReservationDeleted = "reservation.deleted"

	eventSource        = "booking-api"
	eventSchemaVersion = "1"
)

// EventPublisher emits reservation lifecycle events. A nil publisher
// disables events entirely; publishing is best effort and never fails
// the request that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// ReservationEvent is the payload written to the reservations topic.
type ReservationEvent struct {
	EventType     string `json:"event_type"`
	ReservationID string `json:"reservation_id"`
	PlanID        string `json:"plan_id"`
	UserID        string `json:"user_id"`
	StartDatetime string `json:"start_datetime"`
	EndDatetime   string `json:"end_datetime"`
	OccurredAt    string `json:"occurred_at"`
}

func (s *reservationService) publishEvent(ctx context.Context, eventType string, reservation *model.Reservation) {
	if s.events == nil {
		return
	}

	payload := ReservationEvent{
		EventType:     eventType,
		ReservationID: reservation.ID.Hex(),
		PlanID:        reservation.PlanID.Hex(),
		UserID:        reservation.UserID.Hex(),
		StartDatetime: timeparse.Format(reservation.StartDatetime),
		EndDatetime:   timeparse.Format(reservation.EndDatetime),
		OccurredAt:    timeparse.Format(time.Now()),
	}

	// Keyed by plan so consumers see one plan's events in order.
	msg := kafka.NewMessage().
		WithKey(reservation.PlanID.Hex()).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(eventSource).
		WithSchemaVersion(eventSchemaVersion).
		Build()

	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event",
			"event_type", eventType,
			"reservation_id", reservation.ID.Hex(),
			"error", err,
		)
	}
}
