// Package repotest holds the conformance suite every storage backend must
// pass. The memory and PostgreSQL backends run the exact same assertions so
// their observable behavior cannot drift apart.
package repotest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

// Run executes the full conformance suite. open must return a fresh, empty
// repository for each call.
func Run(t *testing.T, open func(t *testing.T) repositories.Repository) {
	t.Run("Users", func(t *testing.T) { testUsers(t, open(t)) })
	t.Run("Educators", func(t *testing.T) { testEducators(t, open(t)) })
	t.Run("EducatorSubjects", func(t *testing.T) { testEducatorSubjects(t, open(t)) })
	t.Run("Catalog", func(t *testing.T) { testCatalog(t, open(t)) })
	t.Run("Sessions", func(t *testing.T) { testSessions(t, open(t)) })
	t.Run("ConcurrentTransitions", func(t *testing.T) { testConcurrentTransitions(t, open(t)) })
	t.Run("Reviews", func(t *testing.T) { testReviews(t, open(t)) })
	t.Run("Testimonials", func(t *testing.T) { testTestimonials(t, open(t)) })
}

func newUser(username string, role models.UserRole) *models.User {
	return &models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
}

func mustCreateUser(t *testing.T, repo repositories.Repository, username string, role models.UserRole) *models.User {
	t.Helper()
	user := newUser(username, role)
	require.NoError(t, repo.User().Create(context.Background(), user))
	return user
}

func mustCreateEducator(t *testing.T, repo repositories.Repository, username string) *models.EducatorProfile {
	t.Helper()
	user := mustCreateUser(t, repo, username, models.RoleEducator)
	profile := &models.EducatorProfile{
		UserID:     user.ID,
		Title:      "Mathematics Educator",
		HourlyRate: 45,
	}
	require.NoError(t, repo.Educator().Create(context.Background(), profile))
	return profile
}

func testUsers(t *testing.T, repo repositories.Repository) {
	ctx := context.Background()

	first := mustCreateUser(t, repo, "alice", models.RoleStudent)
	second := mustCreateUser(t, repo, "bob", models.RoleEducator)

	// IDs are assigned by the backend and strictly increase
	assert.Greater(t, first.ID, int64(0))
	assert.Greater(t, second.ID, first.ID)

	got, err := repo.User().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, models.RoleStudent, got.Role)

	_, err = repo.User().GetByID(ctx, 9999)
	assert.True(t, repositories.IsNotFoundError(err))

	byName, err := repo.User().GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, second.ID, byName.ID)

	// Duplicate username is rejected
	err = repo.User().Create(ctx, newUser("alice", models.RoleStudent))
	assert.True(t, repositories.IsDuplicateError(err))

	// Batch lookup skips missing ids without error
	batch, err := repo.User().GetByIDs(ctx, []int64{first.ID, 9999, second.ID})
	require.NoError(t, err)
	require.Len(t, batch, 2)

	batch, err = repo.User().GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, batch)

	role := models.RoleEducator
	users, total, err := repo.User().List(ctx, repositories.UserFilters{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)

	exists, err := repo.User().ExistsByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.User().ExistsByID(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func testEducators(t *testing.T, repo repositories.Repository) {
	ctx := context.Background()

	profile := mustCreateEducator(t, repo, "carol")

	got, err := repo.Educator().GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mathematics Educator", got.Title)

	byUser, err := repo.Educator().GetByUserID(ctx, profile.UserID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, byUser.ID)

	// One profile per user
	err = repo.Educator().Create(ctx, &models.EducatorProfile{UserID: profile.UserID, Title: "Again", HourlyRate: 10})
	assert.True(t, repositories.IsDuplicateError(err))

	profiles, total, err := repo.Educator().List(ctx, repositories.EducatorFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, profiles, 1)
}

func testEducatorSubjects(t *testing.T, repo repositories.Repository) {
	ctx := context.Background()

	educator := mustCreateEducator(t, repo, "dave")

	category := &models.Category{Name: "Science"}
	require.NoError(t, repo.Category().Create(ctx, category))
	subject := &models.Subject{CategoryID: category.ID, Name: "Physics"}
	require.NoError(t, repo.Subject().Create(ctx, subject))

	link := &models.EducatorSubject{EducatorID: educator.ID, SubjectID: subject.ID}
	require.NoError(t, repo.EducatorSubject().Create(ctx, link))

	// Second insert of the same pair must fail with a duplicate error
	err := repo.EducatorSubject().Create(ctx, &models.EducatorSubject{EducatorID: educator.ID, SubjectID: subject.ID})
	assert.True(t, repositories.IsDuplicateError(err))

	pair, err := repo.EducatorSubject().GetByPair(ctx, educator.ID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, link.ID, pair.ID)

	byEducator, err := repo.EducatorSubject().ListByEducator(ctx, educator.ID)
	require.NoError(t, err)
	assert.Len(t, byEducator, 1)

	bySubject, err := repo.EducatorSubject().ListBySubject(ctx, subject.ID)
	require.NoError(t, err)
	assert.Len(t, bySubject, 1)

	// Filter educators by subject and by category
	subjectID := subject.ID
	profiles, _, err := repo.Educator().List(ctx, repositories.EducatorFilters{SubjectID: &subjectID})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, educator.ID, profiles[0].ID)

	categoryID := category.ID
	profiles, _, err = repo.Educator().List(ctx, repositories.EducatorFilters{CategoryID: &categoryID})
	require.NoError(t, err)
	assert.Len(t, profiles, 1)

	require.NoError(t, repo.EducatorSubject().Delete(ctx, educator.ID, subject.ID))
	err = repo.EducatorSubject().Delete(ctx, educator.ID, subject.ID)
	assert.True(t, repositories.IsNotFoundError(err))

	byEducator, err = repo.EducatorSubject().ListByEducator(ctx, educator.ID)
	require.NoError(t, err)
	assert.Empty(t, byEducator)
}

func testCatalog(t *testing.T, repo repositories.Repository) {
	ctx := context.Background()

	category := &models.Category{Name: "Languages"}
	require.NoError(t, repo.Category().Create(ctx, category))
	assert.Greater(t, category.ID, int64(0))

	err := repo.Category().Create(ctx, &models.Category{Name: "Languages"})
	assert.True(t, repositories.IsDuplicateError(err))

	spanish := &models.Subject{CategoryID: category.ID, Name: "Spanish"}
	french := &models.Subject{CategoryID: category.ID, Name: "French"}
	require.NoError(t, repo.Subject().Create(ctx, spanish))
	require.NoError(t, repo.Subject().Create(ctx, french))

	subjects, err := repo.Subject().ListByCategory(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, spanish.ID, subjects[0].ID)

	batch, err := repo.Subject().GetByIDs(ctx, []int64{french.ID, 9999})
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "French", batch[0].Name)

	require.NoError(t, repo.Category().UpdateEducatorCount(ctx, category.ID, 2))
	require.NoError(t, repo.Category().UpdateEducatorCount(ctx, category.ID, -1))
	got, err := repo.Category().GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.EducatorCount)

	// Count never goes below zero
	require.NoError(t, repo.Category().UpdateEducatorCount(ctx, category.ID, -5))
	got, err = repo.Category().GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.EducatorCount)
}

func mustCreateSession(t *testing.T, repo repositories.Repository, educatorID, studentID int64) *models.Session {
	t.Helper()
	start := time.Date(2026, 10, 5, 14, 0, 0, 0, time.UTC)
	session := &models.Session{
		EducatorID:    educatorID,
		StudentID:     studentID,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        models.SessionRequested,
		TotalPrice:    45,
		PaymentStatus: models.PaymentPending,
	}
	require.NoError(t, repo.Session().Create(context.Background(), session))
	return session
}

func testSessions(t *testing.T, repo repositories.Repository) {
	ctx := context.Background()

	educator := mustCreateEducator(t, repo, "erin")
	student := mustCreateUser(t, repo, "frank", models.RoleStudent)

	session := mustCreateSession(t, repo, educator.ID, student.ID)
	assert.Greater(t, session.ID, int64(0))

	got, err := repo.Session().GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionRequested, got.Status)
	assert.Equal(t, models.PaymentPending, got.PaymentStatus)

	// CAS succeeds when the expected status matches
	ok, err := repo.Session().UpdateStatus(ctx, session.ID, models.SessionRequested, models.SessionConfirmed)
	require.NoError(t, err)
	assert.True(t, ok)

	// CAS fails when the stored status has moved on
	ok, err = repo.Session().UpdateStatus(ctx, session.ID, models.SessionRequested, models.SessionCancelled)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err = repo.Session().GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionConfirmed, got.Status)

	ok, err = repo.Session().UpdatePayment(ctx, session.ID, models.PaymentPending, models.PaymentPaid)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Session().UpdatePayment(ctx, session.ID, models.PaymentPending, models.PaymentPaid)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Session().UpdateStatus(ctx, 9999, models.SessionRequested, models.SessionConfirmed)
	assert.True(t, repositories.IsNotFoundError(err))

	studentID := student.ID
	sessions, total, err := repo.Session().List(ctx, repositories.SessionFilters{StudentID: &studentID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, sessions, 1)

	status := models.SessionCancelled
	sessions, total, err = repo.Session().List(ctx, repositories.SessionFilters{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, sessions)
}

// testConcurrentTransitions races many CAS attempts on one session; exactly
// one must win.
func testConcurrentTransitions(t *testing.T, repo repositories.Repository) {
	ctx := context.Background()

	educator := mustCreateEducator(t, repo, "grace")
	student := mustCreateUser(t, repo, "henry", models.RoleStudent)
	session := mustCreateSession(t, repo, educator.ID, student.ID)

	const attempts = 16
	var wg sync.WaitGroup
	wins := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Session().UpdateStatus(ctx, session.ID, models.SessionRequested, models.SessionCancelled)
			if err == nil && ok {
				wins <- true
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Equal(t, 1, len(wins))

	got, err := repo.Session().GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCancelled, got.Status)
}

func testReviews(t *testing.T, repo repositories.Repository) {
	ctx := context.Background()

	educator := mustCreateEducator(t, repo, "irene")
	student := mustCreateUser(t, repo, "jack", models.RoleStudent)

	// No reviews yet: zero average, zero count
	summary, err := repo.Review().Rating(ctx, educator.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), summary.Average)
	assert.Equal(t, int64(0), summary.Count)

	for _, rating := range []int{5, 4, 4} {
		review := &models.Review{
			EducatorID: educator.ID,
			StudentID:  student.ID,
			Rating:     rating,
		}
		require.NoError(t, repo.Review().Create(ctx, review))
		assert.False(t, review.CreatedAt.IsZero())
	}

	summary, err = repo.Review().Rating(ctx, educator.ID)
	require.NoError(t, err)
	assert.InDelta(t, 13.0/3.0, summary.Average, 0.0001)
	assert.Equal(t, int64(3), summary.Count)

	educatorID := educator.ID
	reviews, total, err := repo.Review().List(ctx, repositories.ReviewFilters{EducatorID: &educatorID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, reviews, 3)

	session := mustCreateSession(t, repo, educator.ID, student.ID)
	sessionID := session.ID
	require.NoError(t, repo.Review().Create(ctx, &models.Review{
		EducatorID: educator.ID,
		StudentID:  student.ID,
		SessionID:  &sessionID,
		Rating:     5,
	}))

	exists, err := repo.Review().ExistsBySession(ctx, student.ID, session.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Review().ExistsBySession(ctx, student.ID, 9999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func testTestimonials(t *testing.T, repo repositories.Repository) {
	ctx := context.Background()

	user := mustCreateUser(t, repo, "kate", models.RoleStudent)

	first := &models.Testimonial{UserID: user.ID, Content: "Great platform", UserRole: "student", IsVisible: true}
	second := &models.Testimonial{UserID: user.ID, Content: "Changed my mind", UserRole: "student", IsVisible: true}
	require.NoError(t, repo.Testimonial().Create(ctx, first))
	require.NoError(t, repo.Testimonial().Create(ctx, second))

	visible, err := repo.Testimonial().ListVisible(ctx)
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	// Hiding keeps the row, it just leaves the visible listing
	require.NoError(t, repo.Testimonial().SetVisibility(ctx, second.ID, false))

	visible, err = repo.Testimonial().ListVisible(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, first.ID, visible[0].ID)

	hidden, err := repo.Testimonial().GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, hidden.IsVisible)

	err = repo.Testimonial().SetVisibility(ctx, 9999, false)
	assert.True(t, repositories.IsNotFoundError(err))
}
