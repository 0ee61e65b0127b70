package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/validator"
)

// completeSession drives a fresh booking to the completed state.
func completeSession(t *testing.T, env *testEnv, educator *EducatorResponse, student *UserResponse) *SessionResponse {
	t.Helper()
	ctx := context.Background()
	session := env.bookSession(t, educator.ID, student)
	_, err := env.manager.Booking().Confirm(ctx, session.ID, educatorActor(educator))
	require.NoError(t, err)
	completed, err := env.manager.Booking().Complete(ctx, session.ID, educatorActor(educator))
	require.NoError(t, err)
	return completed
}

func TestCreateReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reviews := env.manager.Review()
	educator := env.createEducator(t, "reviewed_tutor", 40)
	student := env.registerUser(t, "reviewer", models.RoleStudent)

	comment := "Clear explanations, patient with questions."
	review, err := reviews.Create(ctx, &CreateReviewRequest{
		EducatorID: educator.ID,
		Rating:     5,
		Comment:    &comment,
	}, studentActor(student))
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, 5, review.Rating)
	require.NotNil(t, review.Student)
	assert.Equal(t, student.ID, review.Student.ID)

	t.Run("educator cannot review", func(t *testing.T) {
		_, err := reviews.Create(ctx, &CreateReviewRequest{
			EducatorID: educator.ID,
			Rating:     5,
		}, educatorActor(educator))
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "student_id", verrs[0].Field)
	})

	t.Run("unknown actor", func(t *testing.T) {
		_, err := reviews.Create(ctx, &CreateReviewRequest{
			EducatorID: educator.ID,
			Rating:     4,
		}, Actor{UserID: 9999, Role: models.RoleStudent})
		assert.True(t, IsPermissionError(err))
	})

	t.Run("missing educator", func(t *testing.T) {
		_, err := reviews.Create(ctx, &CreateReviewRequest{
			EducatorID: 9999,
			Rating:     4,
		}, studentActor(student))
		assert.ErrorIs(t, err, ErrEducatorNotFound)
	})

	t.Run("rating out of range", func(t *testing.T) {
		_, err := reviews.Create(ctx, &CreateReviewRequest{
			EducatorID: educator.ID,
			Rating:     6,
		}, studentActor(student))
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "rating", verrs[0].Field)
	})
}

func TestCreateReviewWithSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reviews := env.manager.Review()
	educator := env.createEducator(t, "session_tutor", 40)
	other := env.createEducator(t, "other_tutor", 40)
	student := env.registerUser(t, "session_reviewer", models.RoleStudent)

	completed := completeSession(t, env, educator, student)

	sessionErrField := func(err error) string {
		t.Helper()
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		return verrs[0].Field
	}

	t.Run("session must exist", func(t *testing.T) {
		missing := int64(9999)
		_, err := reviews.Create(ctx, &CreateReviewRequest{
			EducatorID: educator.ID,
			SessionID:  &missing,
			Rating:     5,
		}, studentActor(student))
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("session must match the pair", func(t *testing.T) {
		_, err := reviews.Create(ctx, &CreateReviewRequest{
			EducatorID: other.ID,
			SessionID:  &completed.ID,
			Rating:     5,
		}, studentActor(student))
		assert.Equal(t, "session_id", sessionErrField(err))
	})

	t.Run("session must be completed", func(t *testing.T) {
		pending := env.bookSession(t, educator.ID, student)
		_, err := reviews.Create(ctx, &CreateReviewRequest{
			EducatorID: educator.ID,
			SessionID:  &pending.ID,
			Rating:     5,
		}, studentActor(student))
		assert.Equal(t, "session_id", sessionErrField(err))
	})

	t.Run("one review per session", func(t *testing.T) {
		_, err := reviews.Create(ctx, &CreateReviewRequest{
			EducatorID: educator.ID,
			SessionID:  &completed.ID,
			Rating:     5,
		}, studentActor(student))
		require.NoError(t, err)

		_, err = reviews.Create(ctx, &CreateReviewRequest{
			EducatorID: educator.ID,
			SessionID:  &completed.ID,
			Rating:     3,
		}, studentActor(student))
		assert.Equal(t, "session_id", sessionErrField(err))
	})
}

func TestEducatorRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reviews := env.manager.Review()
	educator := env.createEducator(t, "rated_tutor", 40)

	t.Run("no reviews yet", func(t *testing.T) {
		rating, err := reviews.EducatorRating(ctx, educator.ID)
		require.NoError(t, err)
		assert.Zero(t, rating.AverageRating)
		assert.Zero(t, rating.ReviewCount)
	})

	// 5, 4, 4 averages to 4.333...; the display value rounds to one decimal
	for i, score := range []int{5, 4, 4} {
		student := env.registerUser(t, []string{"rater_one", "rater_two", "rater_three"}[i], models.RoleStudent)
		_, err := reviews.Create(ctx, &CreateReviewRequest{
			EducatorID: educator.ID,
			Rating:     score,
		}, studentActor(student))
		require.NoError(t, err)
	}

	rating, err := reviews.EducatorRating(ctx, educator.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, rating.AverageRating)
	assert.Equal(t, int64(3), rating.ReviewCount)

	// The enriched educator view carries the same aggregate
	enriched, err := env.manager.User().GetEducator(ctx, educator.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, enriched.AverageRating)
	assert.Equal(t, int64(3), enriched.ReviewCount)

	_, err = reviews.EducatorRating(ctx, 9999)
	assert.ErrorIs(t, err, ErrEducatorNotFound)
}

func TestListReviewsByEducator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reviews := env.manager.Review()
	educator := env.createEducator(t, "listed_tutor", 40)
	student := env.registerUser(t, "list_reviewer", models.RoleStudent)

	comment := "Good pace."
	_, err := reviews.Create(ctx, &CreateReviewRequest{
		EducatorID: educator.ID,
		Rating:     4,
		Comment:    &comment,
	}, studentActor(student))
	require.NoError(t, err)

	listed, total, err := reviews.ListByEducator(ctx, educator.ID, repositories.ReviewFilters{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Student)
	assert.Equal(t, "list_reviewer", listed[0].Student.Username)

	_, _, err = reviews.ListByEducator(ctx, 9999, repositories.ReviewFilters{})
	assert.ErrorIs(t, err, ErrEducatorNotFound)
}
