package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aithenode/booking-service/internal/events"
	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/validator"
)

func TestBookSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	educator := env.createEducator(t, "maths_tutor", 40)
	student := env.registerUser(t, "keen_student", models.RoleStudent)

	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	session, err := env.manager.Booking().Book(ctx, &CreateSessionRequest{
		EducatorID: educator.ID,
		StartTime:  start,
		EndTime:    start.Add(90 * time.Minute),
	}, studentActor(student))
	require.NoError(t, err)

	assert.Equal(t, models.SessionRequested, session.Status)
	assert.Equal(t, models.PaymentPending, session.PaymentStatus)
	assert.Equal(t, educator.ID, session.EducatorID)
	assert.Equal(t, student.ID, session.StudentID)
	assert.InDelta(t, 60.0, session.TotalPrice, 0.001) // 40/h for 1.5h
	assert.Equal(t, start.Format("Jan 2, 2006, 3:04 PM"), session.StartTimeDisplay)
	assert.Equal(t, start.Add(90*time.Minute).Format("3:04 PM"), session.EndTimeDisplay)
	require.NotNil(t, session.Educator)
	require.NotNil(t, session.Student)
	assert.Equal(t, "Test User", session.Student.FullName)

	published := env.publisher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.SessionRequested, published[0].Type)
	assert.Equal(t, session.ID, published[0].SessionID)
}

func TestBookSessionRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	educator := env.createEducator(t, "physics_tutor", 55)
	student := env.registerUser(t, "student_one", models.RoleStudent)

	start := time.Now().Add(48 * time.Hour)
	validReq := func() *CreateSessionRequest {
		return &CreateSessionRequest{
			EducatorID: educator.ID,
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
		}
	}

	t.Run("unknown actor", func(t *testing.T) {
		_, err := env.manager.Booking().Book(ctx, validReq(), Actor{UserID: 9999, Role: models.RoleStudent})
		assert.True(t, IsPermissionError(err))
	})

	t.Run("educator cannot book", func(t *testing.T) {
		_, err := env.manager.Booking().Book(ctx, validReq(), educatorActor(educator))
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "student_id", verrs[0].Field)
	})

	t.Run("missing educator", func(t *testing.T) {
		req := validReq()
		req.EducatorID = 9999
		_, err := env.manager.Booking().Book(ctx, req, studentActor(student))
		assert.ErrorIs(t, err, ErrEducatorNotFound)
	})

	t.Run("end before start", func(t *testing.T) {
		req := validReq()
		req.EndTime = req.StartTime.Add(-time.Hour)
		_, err := env.manager.Booking().Book(ctx, req, studentActor(student))
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "end_time", verrs[0].Field)
	})

	t.Run("start in the past", func(t *testing.T) {
		req := validReq()
		req.StartTime = time.Now().Add(-time.Hour)
		req.EndTime = time.Now().Add(time.Hour)
		_, err := env.manager.Booking().Book(ctx, req, studentActor(student))
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "start_time", verrs[0].Field)
	})
}

func TestSessionLifecycleHappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	educator := env.createEducator(t, "chem_tutor", 30)
	student := env.registerUser(t, "student_two", models.RoleStudent)
	session := env.bookSession(t, educator.ID, student)
	booking := env.manager.Booking()

	confirmed, err := booking.Confirm(ctx, session.ID, educatorActor(educator))
	require.NoError(t, err)
	assert.Equal(t, models.SessionConfirmed, confirmed.Status)

	completed, err := booking.Complete(ctx, session.ID, educatorActor(educator))
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, completed.Status)
	assert.Equal(t, models.PaymentPending, completed.PaymentStatus)

	paid, err := booking.Pay(ctx, session.ID, studentActor(student))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, models.SessionCompleted, paid.Status)

	refunded, err := booking.Refund(ctx, session.ID, educatorActor(educator))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, refunded.PaymentStatus)

	types := make([]string, 0, 5)
	for _, e := range env.publisher.Events() {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{
		events.SessionRequested,
		events.SessionConfirmed,
		events.SessionCompleted,
		events.SessionPaid,
		events.SessionRefunded,
	}, types)
}

func TestSessionTransitionRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	educator := env.createEducator(t, "bio_tutor", 35)
	student := env.registerUser(t, "student_three", models.RoleStudent)
	stranger := env.registerUser(t, "bystander", models.RoleStudent)
	booking := env.manager.Booking()

	t.Run("stranger rejected before state is inspected", func(t *testing.T) {
		session := env.bookSession(t, educator.ID, student)
		_, err := booking.Cancel(ctx, session.ID, studentActor(stranger))
		assert.True(t, IsPermissionError(err))
	})

	t.Run("student cannot confirm", func(t *testing.T) {
		session := env.bookSession(t, educator.ID, student)
		_, err := booking.Confirm(ctx, session.ID, studentActor(student))
		assert.True(t, IsPermissionError(err))
	})

	t.Run("confirm is not idempotent", func(t *testing.T) {
		session := env.bookSession(t, educator.ID, student)
		_, err := booking.Confirm(ctx, session.ID, educatorActor(educator))
		require.NoError(t, err)
		_, err = booking.Confirm(ctx, session.ID, educatorActor(educator))
		assert.True(t, IsTransitionError(err))
	})

	t.Run("complete requires confirmed", func(t *testing.T) {
		session := env.bookSession(t, educator.ID, student)
		_, err := booking.Complete(ctx, session.ID, educatorActor(educator))
		assert.True(t, IsTransitionError(err))
	})

	t.Run("no cancel after completion", func(t *testing.T) {
		session := env.bookSession(t, educator.ID, student)
		_, err := booking.Confirm(ctx, session.ID, educatorActor(educator))
		require.NoError(t, err)
		_, err = booking.Complete(ctx, session.ID, educatorActor(educator))
		require.NoError(t, err)
		_, err = booking.Cancel(ctx, session.ID, studentActor(student))
		assert.True(t, IsTransitionError(err))
	})

	t.Run("no edge beats wrong role", func(t *testing.T) {
		// Student may never confirm, but on a cancelled session the
		// missing edge is reported first.
		session := env.bookSession(t, educator.ID, student)
		_, err := booking.Cancel(ctx, session.ID, studentActor(student))
		require.NoError(t, err)
		_, err = booking.Confirm(ctx, session.ID, studentActor(student))
		assert.True(t, IsTransitionError(err))
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := booking.Confirm(ctx, 99999, educatorActor(educator))
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestPaymentTransitionRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	educator := env.createEducator(t, "music_tutor", 45)
	student := env.registerUser(t, "student_four", models.RoleStudent)
	booking := env.manager.Booking()

	t.Run("pay before completion", func(t *testing.T) {
		session := env.bookSession(t, educator.ID, student)
		_, err := booking.Confirm(ctx, session.ID, educatorActor(educator))
		require.NoError(t, err)
		_, err = booking.Pay(ctx, session.ID, studentActor(student))
		assert.True(t, IsTransitionError(err))
	})

	t.Run("educator cannot pay", func(t *testing.T) {
		session := env.bookSession(t, educator.ID, student)
		_, err := booking.Confirm(ctx, session.ID, educatorActor(educator))
		require.NoError(t, err)
		_, err = booking.Complete(ctx, session.ID, educatorActor(educator))
		require.NoError(t, err)
		_, err = booking.Pay(ctx, session.ID, educatorActor(educator))
		assert.True(t, IsPermissionError(err))
	})

	t.Run("refund requires paid", func(t *testing.T) {
		session := env.bookSession(t, educator.ID, student)
		_, err := booking.Confirm(ctx, session.ID, educatorActor(educator))
		require.NoError(t, err)
		_, err = booking.Complete(ctx, session.ID, educatorActor(educator))
		require.NoError(t, err)
		_, err = booking.Refund(ctx, session.ID, educatorActor(educator))
		assert.True(t, IsTransitionError(err))
	})

	t.Run("pay is not idempotent", func(t *testing.T) {
		session := env.bookSession(t, educator.ID, student)
		_, err := booking.Confirm(ctx, session.ID, educatorActor(educator))
		require.NoError(t, err)
		_, err = booking.Complete(ctx, session.ID, educatorActor(educator))
		require.NoError(t, err)
		_, err = booking.Pay(ctx, session.ID, studentActor(student))
		require.NoError(t, err)
		_, err = booking.Pay(ctx, session.ID, studentActor(student))
		assert.True(t, IsTransitionError(err))
	})
}

func TestConcurrentCancelSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	educator := env.createEducator(t, "concurrent_tutor", 50)
	student := env.registerUser(t, "student_five", models.RoleStudent)
	session := env.bookSession(t, educator.ID, student)
	booking := env.manager.Booking()

	const attempts = 12
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := studentActor(student)
			if i%2 == 1 {
				actor = educatorActor(educator)
			}
			_, errs[i] = booking.Cancel(ctx, session.ID, actor)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.True(t, IsTransitionError(err), "loser should see a transition error, got %v", err)
		}
	}
	assert.Equal(t, 1, wins)

	got, err := booking.GetSession(ctx, session.ID, studentActor(student))
	require.NoError(t, err)
	assert.Equal(t, models.SessionCancelled, got.Status)
}

func TestGetSessionVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	educator := env.createEducator(t, "visible_tutor", 25)
	student := env.registerUser(t, "student_six", models.RoleStudent)
	stranger := env.registerUser(t, "other_student", models.RoleStudent)
	session := env.bookSession(t, educator.ID, student)
	booking := env.manager.Booking()

	_, err := booking.GetSession(ctx, session.ID, studentActor(student))
	assert.NoError(t, err)

	_, err = booking.GetSession(ctx, session.ID, educatorActor(educator))
	assert.NoError(t, err)

	_, err = booking.GetSession(ctx, session.ID, studentActor(stranger))
	assert.True(t, IsPermissionError(err))
}

func TestListSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	educator := env.createEducator(t, "list_tutor", 20)
	student := env.registerUser(t, "student_seven", models.RoleStudent)
	booking := env.manager.Booking()

	first := env.bookSession(t, educator.ID, student)
	second := env.bookSession(t, educator.ID, student)
	_, err := booking.Cancel(ctx, first.ID, studentActor(student))
	require.NoError(t, err)

	byEducator, err := booking.ListByEducator(ctx, educator.ID, sessionFilters(nil), educatorActor(educator))
	require.NoError(t, err)
	assert.Equal(t, int64(2), byEducator.Total)

	requested := models.SessionRequested
	open, err := booking.ListByStudent(ctx, student.ID, sessionFilters(&requested), studentActor(student))
	require.NoError(t, err)
	require.Equal(t, int64(1), open.Total)
	assert.Equal(t, second.ID, open.Sessions[0].ID)

	_, err = booking.ListByEducator(ctx, 9999, sessionFilters(nil), educatorActor(educator))
	assert.ErrorIs(t, err, ErrEducatorNotFound)

	_, err = booking.ListByStudent(ctx, 9999, sessionFilters(nil), Actor{UserID: 9999, Role: models.RoleStudent})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListSessionsOwnershipScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	educator := env.createEducator(t, "scoped_tutor", 20)
	student := env.registerUser(t, "scoped_student", models.RoleStudent)
	other := env.registerUser(t, "nosy_student", models.RoleStudent)
	booking := env.manager.Booking()

	env.bookSession(t, educator.ID, student)

	// Only the student themselves may list their sessions
	_, err := booking.ListByStudent(ctx, student.ID, sessionFilters(nil), studentActor(other))
	assert.True(t, IsPermissionError(err))

	// Only the profile owner may list an educator's sessions
	_, err = booking.ListByEducator(ctx, educator.ID, sessionFilters(nil), studentActor(student))
	assert.True(t, IsPermissionError(err))

	_, err = booking.ListByEducator(ctx, educator.ID, sessionFilters(nil), Actor{})
	assert.True(t, IsPermissionError(err))
}
