package services

import (
	"context"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/validator"
)

// ===== ACTOR =====

// Actor is the already-authenticated identity performing an operation.
// Authentication itself happens outside this service; handlers populate the
// actor from trusted request metadata.
type Actor struct {
	UserID int64
	Role   models.UserRole
}

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateUserRequest = validator.UserCreateRequest
type CreateEducatorProfileRequest = validator.EducatorProfileCreateRequest
type CreateCategoryRequest = validator.CategoryCreateRequest
type CreateSubjectRequest = validator.SubjectCreateRequest
type CreateSessionRequest = validator.SessionCreateRequest
type CreateReviewRequest = validator.ReviewCreateRequest
type CreateTestimonialRequest = validator.TestimonialCreateRequest

type UserResponse struct {
	*models.User
	FullName string `json:"full_name"`
}

type EducatorSubjectInfo struct {
	*models.Subject
	CategoryName string `json:"category_name"`
}

type EducatorResponse struct {
	*models.EducatorProfile
	User          *UserResponse          `json:"user"`
	Subjects      []*EducatorSubjectInfo `json:"subjects,omitempty"`
	AverageRating float64                `json:"average_rating"`
	ReviewCount   int64                  `json:"review_count"`
}

type EducatorListResponse struct {
	Educators []*EducatorResponse `json:"educators"`
	Total     int64               `json:"total"`
}

type CategoryResponse struct {
	*models.Category
	Subjects []*models.Subject `json:"subjects,omitempty"`
}

type SessionResponse struct {
	*models.Session
	Educator         *EducatorResponse `json:"educator,omitempty"`
	Student          *UserResponse     `json:"student,omitempty"`
	StartTimeDisplay string            `json:"start_time_display"`
	EndTimeDisplay   string            `json:"end_time_display"`
}

type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int64              `json:"total"`
}

type ReviewResponse struct {
	*models.Review
	Student *UserResponse `json:"student,omitempty"`
}

type RatingResponse struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type TestimonialResponse struct {
	*models.Testimonial
	User *UserResponse `json:"user,omitempty"`
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	Register(ctx context.Context, req *CreateUserRequest) (*UserResponse, error)
	GetByID(ctx context.Context, id int64) (*UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*UserResponse, error)
	List(ctx context.Context, filters repositories.UserFilters) ([]*UserResponse, int64, error)

	// Educator profiles
	CreateEducatorProfile(ctx context.Context, req *CreateEducatorProfileRequest, actor Actor) (*EducatorResponse, error)
	GetEducator(ctx context.Context, educatorID int64) (*EducatorResponse, error)
	ListEducators(ctx context.Context, filters repositories.EducatorFilters) (*EducatorListResponse, error)
}

type CatalogService interface {
	CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*CategoryResponse, error)
	GetCategory(ctx context.Context, id int64) (*CategoryResponse, error)
	ListCategories(ctx context.Context) ([]*CategoryResponse, error)

	CreateSubject(ctx context.Context, req *CreateSubjectRequest) (*models.Subject, error)
	GetSubject(ctx context.Context, id int64) (*models.Subject, error)
	ListSubjects(ctx context.Context) ([]*models.Subject, error)
	ListSubjectsByCategory(ctx context.Context, categoryID int64) ([]*models.Subject, error)

	// Subject assignment; assign is idempotent on the pair, unassign deletes
	AssignSubject(ctx context.Context, educatorID, subjectID int64, actor Actor) (*models.EducatorSubject, error)
	UnassignSubject(ctx context.Context, educatorID, subjectID int64, actor Actor) error
	ListEducatorSubjects(ctx context.Context, educatorID int64) ([]*EducatorSubjectInfo, error)
}

type BookingService interface {
	// Book creates a session in (requested, pending) on behalf of the student
	Book(ctx context.Context, req *CreateSessionRequest, actor Actor) (*SessionResponse, error)
	GetSession(ctx context.Context, id int64, actor Actor) (*SessionResponse, error)
	// Listings are scoped to the caller's own side of the sessions
	ListByEducator(ctx context.Context, educatorID int64, filters repositories.SessionFilters, actor Actor) (*SessionListResponse, error)
	ListByStudent(ctx context.Context, studentID int64, filters repositories.SessionFilters, actor Actor) (*SessionListResponse, error)

	// Lifecycle transitions; strict, non-idempotent
	Confirm(ctx context.Context, sessionID int64, actor Actor) (*SessionResponse, error)
	Complete(ctx context.Context, sessionID int64, actor Actor) (*SessionResponse, error)
	Cancel(ctx context.Context, sessionID int64, actor Actor) (*SessionResponse, error)
	Pay(ctx context.Context, sessionID int64, actor Actor) (*SessionResponse, error)
	Refund(ctx context.Context, sessionID int64, actor Actor) (*SessionResponse, error)
}

type ReviewService interface {
	Create(ctx context.Context, req *CreateReviewRequest, actor Actor) (*ReviewResponse, error)
	ListByEducator(ctx context.Context, educatorID int64, filters repositories.ReviewFilters) ([]*ReviewResponse, int64, error)
	EducatorRating(ctx context.Context, educatorID int64) (*RatingResponse, error)
}

type TestimonialService interface {
	Create(ctx context.Context, req *CreateTestimonialRequest, actor Actor) (*TestimonialResponse, error)
	ListVisible(ctx context.Context) ([]*TestimonialResponse, error)
	Hide(ctx context.Context, id int64, actor Actor) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	User() UserService
	Catalog() CatalogService
	Booking() BookingService
	Review() ReviewService
	Testimonial() TestimonialService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
