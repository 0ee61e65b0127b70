package repositories

import (
	"context"

	"github.com/aithenode/booking-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"` // matches name or username
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type EducatorFilters struct {
	SubjectID  *int64 `json:"subject_id"`
	CategoryID *int64 `json:"category_id"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

type SessionFilters struct {
	EducatorID *int64                `json:"educator_id"`
	StudentID  *int64                `json:"student_id"`
	Status     *models.SessionStatus `json:"status"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
	SortBy     string                `json:"sort_by"`    // "start_time", "created_at"
	SortOrder  string                `json:"sort_order"` // "asc", "desc"
}

type ReviewFilters struct {
	EducatorID *int64 `json:"educator_id"`
	StudentID  *int64 `json:"student_id"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

// RatingSummary is the raw aggregate over an educator's reviews. Average is
// unrounded; callers decide presentation.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// ===== REPOSITORY INTERFACES =====

// UserRepository stores user accounts for both roles. Rows are immutable
// once created.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// EducatorRepository stores educator profiles (one per educator user). Rows
// are immutable once created.
type EducatorRepository interface {
	Create(ctx context.Context, profile *models.EducatorProfile) error
	GetByID(ctx context.Context, id int64) (*models.EducatorProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.EducatorProfile, error)
	List(ctx context.Context, filters EducatorFilters) ([]*models.EducatorProfile, int64, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// EducatorSubjectRepository stores the educator-subject link table.
// Create must fail with a duplicate-key error when the pair already exists.
type EducatorSubjectRepository interface {
	Create(ctx context.Context, link *models.EducatorSubject) error
	GetByPair(ctx context.Context, educatorID, subjectID int64) (*models.EducatorSubject, error)
	ListByEducator(ctx context.Context, educatorID int64) ([]*models.EducatorSubject, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]*models.EducatorSubject, error)
	Delete(ctx context.Context, educatorID, subjectID int64) error
}

// CategoryRepository stores subject categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	UpdateEducatorCount(ctx context.Context, id int64, delta int) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// SubjectRepository stores subjects within categories.
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Subject, error)
	List(ctx context.Context) ([]*models.Subject, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*models.Subject, error)
}

// SessionRepository stores booking sessions. Status and payment transitions
// are compare-and-swap: the write applies only if the stored value still
// matches the expected one, and the bool reports whether it did.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id int64) (*models.Session, error)
	List(ctx context.Context, filters SessionFilters) ([]*models.Session, int64, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.SessionStatus) (bool, error)
	UpdatePayment(ctx context.Context, id int64, from, to models.PaymentStatus) (bool, error)
}

// ReviewRepository stores student reviews of educators. Reviews are append
// only and read through listings, never individually.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	List(ctx context.Context, filters ReviewFilters) ([]*models.Review, int64, error)
	ExistsBySession(ctx context.Context, studentID, sessionID int64) (bool, error)
	Rating(ctx context.Context, educatorID int64) (*RatingSummary, error)
}

// TestimonialRepository stores site-wide testimonials.
type TestimonialRepository interface {
	Create(ctx context.Context, testimonial *models.Testimonial) error
	GetByID(ctx context.Context, id int64) (*models.Testimonial, error)
	ListVisible(ctx context.Context) ([]*models.Testimonial, error)
	SetVisibility(ctx context.Context, id int64, visible bool) error
}
