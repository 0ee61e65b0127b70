package repositories

import "context"

// Repository aggregates all per-entity repositories behind a single storage
// backend. Both the in-memory and PostgreSQL backends implement it with
// identical observable behavior.
type Repository interface {
	// User domain
	User() UserRepository
	Educator() EducatorRepository
	EducatorSubject() EducatorSubjectRepository

	// Catalog domain
	Category() CategoryRepository
	Subject() SubjectRepository

	// Booking domain
	Session() SessionRepository
	Review() ReviewRepository
	Testimonial() TestimonialRepository

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}
