package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

// Display formats for session times. The start carries the full date, the end
// only the time of day.
const (
	displayDateTimeFormat = "Jan 2, 2006, 3:04 PM"
	displayTimeFormat     = "3:04 PM"
)

// resolver joins stored rows into enriched responses. Join failures split two
// ways: optional decorations (subjects, review authors) are skipped and
// logged, while a session participant that cannot be resolved is a
// data-integrity failure.
type resolver struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func newResolver(repo repositories.Repository, logger *slog.Logger) *resolver {
	return &resolver{repo: repo, logger: logger}
}

func buildUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		User:     user,
		FullName: user.FirstName + " " + user.LastName,
	}
}

// roundRating rounds the raw average to one decimal for display.
func roundRating(average float64) float64 {
	return math.Round(average*10) / 10
}

// educatorWithUser resolves a profile together with its user row. A profile
// whose user is gone is corrupt storage, not a normal not-found.
func (r *resolver) educatorWithUser(ctx context.Context, educatorID int64) (*EducatorResponse, error) {
	profile, err := r.repo.Educator().GetByID(ctx, educatorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEducatorNotFound
		}
		return nil, fmt.Errorf("failed to get educator profile: %w", err)
	}

	return r.enrichEducator(ctx, profile)
}

// enrichEducator attaches the user, subjects, and the freshly computed rating
// to a profile row.
func (r *resolver) enrichEducator(ctx context.Context, profile *models.EducatorProfile) (*EducatorResponse, error) {
	user, err := r.repo.User().GetByID(ctx, profile.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewIntegrityError("educator_profile", profile.ID, "user", profile.UserID)
		}
		return nil, fmt.Errorf("failed to get educator user: %w", err)
	}

	subjects, err := r.educatorSubjects(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	summary, err := r.repo.Review().Rating(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute educator rating: %w", err)
	}

	return &EducatorResponse{
		EducatorProfile: profile,
		User:            buildUserResponse(user),
		Subjects:        subjects,
		AverageRating:   roundRating(summary.Average),
		ReviewCount:     summary.Count,
	}, nil
}

// educatorSubjects resolves the subject links of an educator through their
// subjects and categories. Subjects are fetched in one batch; entries whose
// subject or category no longer resolves are skipped and logged.
func (r *resolver) educatorSubjects(ctx context.Context, educatorID int64) ([]*EducatorSubjectInfo, error) {
	links, err := r.repo.EducatorSubject().ListByEducator(ctx, educatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list educator subjects: %w", err)
	}
	if len(links) == 0 {
		return []*EducatorSubjectInfo{}, nil
	}

	subjectIDs := make([]int64, len(links))
	for i, link := range links {
		subjectIDs[i] = link.SubjectID
	}
	subjects, err := r.repo.Subject().GetByIDs(ctx, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get subjects: %w", err)
	}
	subjectByID := make(map[int64]*models.Subject, len(subjects))
	for _, subject := range subjects {
		subjectByID[subject.ID] = subject
	}

	infos := make([]*EducatorSubjectInfo, 0, len(links))
	for _, link := range links {
		subject, ok := subjectByID[link.SubjectID]
		if !ok {
			r.logger.Warn("Skipping educator subject link with missing subject",
				"educator_id", educatorID, "subject_id", link.SubjectID)
			continue
		}

		info := &EducatorSubjectInfo{Subject: subject}
		category, err := r.repo.Category().GetByID(ctx, subject.CategoryID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				r.logger.Warn("Skipping educator subject with missing category",
					"educator_id", educatorID, "subject_id", subject.ID, "category_id", subject.CategoryID)
				continue
			}
			return nil, fmt.Errorf("failed to get category: %w", err)
		}
		info.CategoryName = category.Name

		infos = append(infos, info)
	}

	return infos, nil
}

// reviewsWithStudent attaches the authoring student to each review. The
// students are fetched in one batch; reviews whose student has vanished are
// skipped and logged.
func (r *resolver) reviewsWithStudent(ctx context.Context, reviews []*models.Review) ([]*ReviewResponse, error) {
	if len(reviews) == 0 {
		return []*ReviewResponse{}, nil
	}

	studentIDs := make([]int64, 0, len(reviews))
	seen := make(map[int64]bool, len(reviews))
	for _, review := range reviews {
		if !seen[review.StudentID] {
			seen[review.StudentID] = true
			studentIDs = append(studentIDs, review.StudentID)
		}
	}

	students, err := r.repo.User().GetByIDs(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get review students: %w", err)
	}
	studentByID := make(map[int64]*models.User, len(students))
	for _, student := range students {
		studentByID[student.ID] = student
	}

	responses := make([]*ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		student, ok := studentByID[review.StudentID]
		if !ok {
			r.logger.Warn("Skipping review with missing student",
				"review_id", review.ID, "student_id", review.StudentID)
			continue
		}
		responses = append(responses, &ReviewResponse{
			Review:  review,
			Student: buildUserResponse(student),
		})
	}
	return responses, nil
}

// enrichSession attaches both participants and display times. Unlike the
// decorative joins above, a missing participant here is a hard integrity
// failure.
func (r *resolver) enrichSession(ctx context.Context, session *models.Session) (*SessionResponse, error) {
	educator, err := r.repo.Educator().GetByID(ctx, session.EducatorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewIntegrityError("session", session.ID, "educator_profile", session.EducatorID)
		}
		return nil, fmt.Errorf("failed to get session educator: %w", err)
	}

	educatorResponse, err := r.enrichEducator(ctx, educator)
	if err != nil {
		return nil, err
	}

	student, err := r.repo.User().GetByID(ctx, session.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewIntegrityError("session", session.ID, "student", session.StudentID)
		}
		return nil, fmt.Errorf("failed to get session student: %w", err)
	}

	return &SessionResponse{
		Session:          session,
		Educator:         educatorResponse,
		Student:          buildUserResponse(student),
		StartTimeDisplay: session.StartTime.Format(displayDateTimeFormat),
		EndTimeDisplay:   session.EndTime.Format(displayTimeFormat),
	}, nil
}

func (r *resolver) enrichSessions(ctx context.Context, sessions []*models.Session) ([]*SessionResponse, error) {
	responses := make([]*SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		response, err := r.enrichSession(ctx, session)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}
