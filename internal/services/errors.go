package services

import (
	"errors"
	"fmt"

	"github.com/aithenode/booking-service/internal/models"
)

// ===== SENTINEL ERRORS =====

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEducatorNotFound    = errors.New("educator profile not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubjectNotFound     = errors.New("subject not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrTestimonialNotFound = errors.New("testimonial not found")

	ErrUsernameTaken         = errors.New("username is already taken")
	ErrEmailTaken            = errors.New("email is already registered")
	ErrCategoryNameTaken     = errors.New("category name already exists")
	ErrEducatorProfileExists = errors.New("educator profile already exists for this user")
)

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	for _, sentinel := range []error{
		ErrUserNotFound, ErrEducatorNotFound, ErrCategoryNotFound,
		ErrSubjectNotFound, ErrSessionNotFound, ErrReviewNotFound,
		ErrTestimonialNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err is one of the duplicate-resource sentinels.
func IsConflict(err error) bool {
	for _, sentinel := range []error{
		ErrUsernameTaken, ErrEmailTaken, ErrCategoryNameTaken,
		ErrEducatorProfileExists,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// ===== STRUCTURED ERRORS =====

// PermissionError means the acting user may not perform the operation: either
// a stranger to the resource, or a known party whose role is not allowed.
type PermissionError struct {
	UserID     int64
	ResourceID int64
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID int64, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// TransitionError means no lifecycle edge leads out of the session's current
// (status, payment status) for the attempted action. Losing a transition race
// surfaces the same way: the loser observed a state with no such edge.
type TransitionError struct {
	SessionID int64
	Status    models.SessionStatus
	Payment   models.PaymentStatus
	Action    string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s session %d in state (%s, %s)", e.Action, e.SessionID, e.Status, e.Payment)
}

func NewTransitionError(sessionID int64, status models.SessionStatus, payment models.PaymentStatus, action string) *TransitionError {
	return &TransitionError{
		SessionID: sessionID,
		Status:    status,
		Payment:   payment,
		Action:    action,
	}
}

// IntegrityError means a stored row references another row that does not
// exist. Foreign keys are validated on admission, so this can only come from
// storage corruption; callers report it as an internal failure, never as a
// plain not-found.
type IntegrityError struct {
	Resource   string
	ResourceID int64
	Missing    string
	MissingID  int64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s %d references missing %s %d", e.Resource, e.ResourceID, e.Missing, e.MissingID)
}

func NewIntegrityError(resource string, resourceID int64, missing string, missingID int64) *IntegrityError {
	return &IntegrityError{
		Resource:   resource,
		ResourceID: resourceID,
		Missing:    missing,
		MissingID:  missingID,
	}
}

// IsPermissionError reports whether err is a PermissionError.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsTransitionError reports whether err is a TransitionError.
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

// IsIntegrityError reports whether err is an IntegrityError.
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
