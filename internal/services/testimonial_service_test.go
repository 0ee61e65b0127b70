package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aithenode/booking-service/internal/models"
)

func TestTestimonialLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testimonials := env.manager.Testimonial()
	author := env.registerUser(t, "happy_student", models.RoleStudent)

	created, err := testimonials.Create(ctx, &CreateTestimonialRequest{
		Content:  "Found a great tutor within a day.",
		UserRole: "student",
	}, studentActor(author))
	require.NoError(t, err)
	assert.True(t, created.IsVisible)
	require.NotNil(t, created.User)
	assert.Equal(t, author.ID, created.User.ID)

	visible, err := testimonials.ListVisible(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, created.ID, visible[0].ID)

	t.Run("only the author can hide it", func(t *testing.T) {
		other := env.registerUser(t, "someone_else", models.RoleStudent)
		err := testimonials.Hide(ctx, created.ID, studentActor(other))
		assert.True(t, IsPermissionError(err))
	})

	require.NoError(t, testimonials.Hide(ctx, created.ID, studentActor(author)))

	visible, err = testimonials.ListVisible(ctx)
	require.NoError(t, err)
	assert.Empty(t, visible)

	err = testimonials.Hide(ctx, 9999, studentActor(author))
	assert.ErrorIs(t, err, ErrTestimonialNotFound)
}

func TestTestimonialRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testimonials := env.manager.Testimonial()

	t.Run("unknown actor", func(t *testing.T) {
		_, err := testimonials.Create(ctx, &CreateTestimonialRequest{
			Content:  "Nice platform.",
			UserRole: "student",
		}, Actor{UserID: 9999, Role: models.RoleStudent})
		assert.True(t, IsPermissionError(err))
	})

	t.Run("invalid role value", func(t *testing.T) {
		author := env.registerUser(t, "wrong_role_author", models.RoleStudent)
		_, err := testimonials.Create(ctx, &CreateTestimonialRequest{
			Content:  "Nice platform.",
			UserRole: "admin",
		}, studentActor(author))
		assert.Error(t, err)
	})
}
