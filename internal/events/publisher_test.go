package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aithenode/booking-service/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatermillPublisherRoundTrip(t *testing.T) {
	logger := testLogger()
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
	publisher := NewWatermillPublisher(pubsub, logger)
	defer publisher.Close()

	messages, err := pubsub.Subscribe(context.Background(), Topic)
	require.NoError(t, err)

	session := &models.Session{
		ID:            7,
		EducatorID:    3,
		StudentID:     11,
		Status:        models.SessionConfirmed,
		PaymentStatus: models.PaymentPending,
	}
	require.NoError(t, publisher.Publish(context.Background(), NewSessionEvent(SessionConfirmed, session)))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, SessionConfirmed, msg.Metadata.Get("event_type"))

		var event SessionEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		assert.Equal(t, int64(7), event.SessionID)
		assert.Equal(t, int64(3), event.EducatorID)
		assert.Equal(t, int64(11), event.StudentID)
		assert.Equal(t, models.SessionConfirmed, event.Status)
		assert.False(t, event.OccurredAt.IsZero())
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}
}

func TestGoChannelPublisherWithoutSubscribers(t *testing.T) {
	publisher := NewGoChannelPublisher(testLogger())
	defer publisher.Close()

	session := &models.Session{ID: 1, Status: models.SessionRequested, PaymentStatus: models.PaymentPending}
	assert.NoError(t, publisher.Publish(context.Background(), NewSessionEvent(SessionRequested, session)))
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher()
	session := &models.Session{ID: 2, Status: models.SessionCancelled, PaymentStatus: models.PaymentPending}

	require.NoError(t, mock.Publish(context.Background(), NewSessionEvent(SessionCancelled, session)))
	require.Len(t, mock.Events(), 1)
	assert.Equal(t, SessionCancelled, mock.Events()[0].Type)

	assert.False(t, mock.Closed())
	require.NoError(t, mock.Close())
	assert.True(t, mock.Closed())
}
