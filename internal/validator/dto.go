package validator

import (
	"time"

	"github.com/aithenode/booking-service/internal/models"
)

// UserCreateRequest represents the request structure for registering users
type UserCreateRequest struct {
	Username     string          `json:"username" validate:"required,min=3,max=50"`
	Email        string          `json:"email" validate:"required,email"`
	FirstName    string          `json:"first_name" validate:"required,max=100"`
	LastName     string          `json:"last_name" validate:"required,max=100"`
	Bio          *string         `json:"bio" validate:"omitempty,max=2000"`
	ProfileImage *string         `json:"profile_image" validate:"omitempty,max=500"`
	Role         models.UserRole `json:"role" validate:"required,user_role"`
}

// EducatorProfileCreateRequest represents the educator onboarding payload
type EducatorProfileCreateRequest struct {
	UserID       int64                `json:"user_id" validate:"required"`
	Title        string               `json:"title" validate:"required,max=200"`
	HourlyRate   float64              `json:"hourly_rate" validate:"required,gt=0"`
	Experience   *string              `json:"experience" validate:"omitempty,max=2000"`
	Education    *string              `json:"education" validate:"omitempty,max=2000"`
	Specialties  []string             `json:"specialties" validate:"omitempty,max=20,dive,max=100"`
	Availability *models.Availability `json:"availability"`
}

// CategoryCreateRequest represents the request structure for creating categories
type CategoryCreateRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,max=500"`
}

// SubjectCreateRequest represents the request structure for creating subjects
type SubjectCreateRequest struct {
	CategoryID  int64   `json:"category_id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// SessionCreateRequest represents a student's booking request. Price is not
// part of the payload; it is derived from the educator's hourly rate.
type SessionCreateRequest struct {
	EducatorID int64     `json:"educator_id" validate:"required"`
	StartTime  time.Time `json:"start_time" validate:"required,future_date"`
	EndTime    time.Time `json:"end_time" validate:"required"`
	Notes      *string   `json:"notes" validate:"omitempty,max=2000"`
}

// ReviewCreateRequest represents a student's review of an educator
type ReviewCreateRequest struct {
	EducatorID int64   `json:"educator_id" validate:"required"`
	SessionID  *int64  `json:"session_id"`
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string `json:"comment" validate:"omitempty,max=2000"`
}

// TestimonialCreateRequest represents a site testimonial submission
type TestimonialCreateRequest struct {
	Content  string `json:"content" validate:"required,max=2000"`
	UserRole string `json:"user_role" validate:"required,user_role"`
}
