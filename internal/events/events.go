// Package events publishes booking lifecycle events to whatever collaborator
// consumes them. Delivery (notifications, emails) is out of scope here; the
// publisher is only the seam.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aithenode/booking-service/internal/models"
)

// Event types emitted by the booking lifecycle engine.
const (
	SessionRequested = "session.requested"
	SessionConfirmed = "session.confirmed"
	SessionCompleted = "session.completed"
	SessionCancelled = "session.cancelled"
	SessionPaid      = "session.paid"
	SessionRefunded  = "session.refunded"
)

// Topic is the single stream all session events go to.
const Topic = "booking.sessions"

// SessionEvent is the wire payload for a session lifecycle change.
type SessionEvent struct {
	Type          string               `json:"type"`
	SessionID     int64                `json:"session_id"`
	EducatorID    int64                `json:"educator_id"`
	StudentID     int64                `json:"student_id"`
	Status        models.SessionStatus `json:"status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// NewSessionEvent captures the session's state after the transition applied.
func NewSessionEvent(eventType string, session *models.Session) SessionEvent {
	return SessionEvent{
		Type:          eventType,
		SessionID:     session.ID,
		EducatorID:    session.EducatorID,
		StudentID:     session.StudentID,
		Status:        session.Status,
		PaymentStatus: session.PaymentStatus,
		OccurredAt:    time.Now(),
	}
}

func (e SessionEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher is the outbound event seam.
type Publisher interface {
	Publish(ctx context.Context, event SessionEvent) error
	Close() error
}
