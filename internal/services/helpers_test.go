package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aithenode/booking-service/internal/events"
	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/repositories/memory"
	"github.com/aithenode/booking-service/internal/validator"
)

type testEnv struct {
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	manager   ServiceManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := memory.NewMemoryRepository()
	publisher := events.NewMockEventPublisher()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := NewServiceManager(repo, publisher, logger, validator.NewBusinessValidator())
	return &testEnv{
		repo:      repo,
		publisher: publisher,
		manager:   manager,
	}
}

func (e *testEnv) registerUser(t *testing.T, username string, role models.UserRole) *UserResponse {
	t.Helper()
	user, err := e.manager.User().Register(context.Background(), &CreateUserRequest{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createEducator(t *testing.T, username string, hourlyRate float64) *EducatorResponse {
	t.Helper()
	user := e.registerUser(t, username, models.RoleEducator)
	educator, err := e.manager.User().CreateEducatorProfile(context.Background(), &CreateEducatorProfileRequest{
		UserID:     user.ID,
		Title:      "Test Educator",
		HourlyRate: hourlyRate,
	}, Actor{UserID: user.ID, Role: models.RoleEducator})
	require.NoError(t, err)
	return educator
}

func (e *testEnv) bookSession(t *testing.T, educatorID int64, student *UserResponse) *SessionResponse {
	t.Helper()
	start := time.Now().Add(72 * time.Hour).Truncate(time.Minute)
	session, err := e.manager.Booking().Book(context.Background(), &CreateSessionRequest{
		EducatorID: educatorID,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
	}, Actor{UserID: student.ID, Role: models.RoleStudent})
	require.NoError(t, err)
	return session
}

func sessionFilters(status *models.SessionStatus) repositories.SessionFilters {
	return repositories.SessionFilters{Status: status, Limit: 50}
}

func studentActor(u *UserResponse) Actor {
	return Actor{UserID: u.ID, Role: models.RoleStudent}
}

func educatorActor(e *EducatorResponse) Actor {
	return Actor{UserID: e.UserID, Role: models.RoleEducator}
}
