package memory

import (
	"context"
	"sync"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

// store is the shared state behind all in-memory sub-repositories. Every
// record kind has its own map and its own ID counter; IDs are monotonic per
// kind and never reused. A single RWMutex guards everything, which keeps
// check-then-write sequences (CAS transitions, duplicate checks) atomic.
type store struct {
	mu sync.RWMutex

	users            map[int64]models.User
	educators        map[int64]models.EducatorProfile
	educatorSubjects map[int64]models.EducatorSubject
	categories       map[int64]models.Category
	subjects         map[int64]models.Subject
	sessions         map[int64]models.Session
	reviews          map[int64]models.Review
	testimonials     map[int64]models.Testimonial

	seq map[string]int64
}

// nextID returns the next ID for a record kind. Caller must hold s.mu.
func (s *store) nextID(kind string) int64 {
	s.seq[kind]++
	return s.seq[kind]
}

// MemoryRepository implements repositories.Repository entirely in process
// memory. It is the transient backend: same contract as PostgreSQL, no
// durability across restarts.
type MemoryRepository struct {
	store *store

	user            repositories.UserRepository
	educator        repositories.EducatorRepository
	educatorSubject repositories.EducatorSubjectRepository
	category        repositories.CategoryRepository
	subject         repositories.SubjectRepository
	session         repositories.SessionRepository
	review          repositories.ReviewRepository
	testimonial     repositories.TestimonialRepository
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() repositories.Repository {
	s := &store{
		users:            make(map[int64]models.User),
		educators:        make(map[int64]models.EducatorProfile),
		educatorSubjects: make(map[int64]models.EducatorSubject),
		categories:       make(map[int64]models.Category),
		subjects:         make(map[int64]models.Subject),
		sessions:         make(map[int64]models.Session),
		reviews:          make(map[int64]models.Review),
		testimonials:     make(map[int64]models.Testimonial),
		seq:              make(map[string]int64),
	}

	return &MemoryRepository{
		store:           s,
		user:            &userMemory{store: s},
		educator:        &educatorMemory{store: s},
		educatorSubject: &educatorSubjectMemory{store: s},
		category:        &categoryMemory{store: s},
		subject:         &subjectMemory{store: s},
		session:         &sessionMemory{store: s},
		review:          &reviewMemory{store: s},
		testimonial:     &testimonialMemory{store: s},
	}
}

func (r *MemoryRepository) User() repositories.UserRepository { return r.user }

func (r *MemoryRepository) Educator() repositories.EducatorRepository { return r.educator }

func (r *MemoryRepository) EducatorSubject() repositories.EducatorSubjectRepository {
	return r.educatorSubject
}

func (r *MemoryRepository) Category() repositories.CategoryRepository { return r.category }

func (r *MemoryRepository) Subject() repositories.SubjectRepository { return r.subject }

func (r *MemoryRepository) Session() repositories.SessionRepository { return r.session }

func (r *MemoryRepository) Review() repositories.ReviewRepository { return r.review }

func (r *MemoryRepository) Testimonial() repositories.TestimonialRepository { return r.testimonial }

func (r *MemoryRepository) Ping(ctx context.Context) error { return nil }

func (r *MemoryRepository) Close() error { return nil }

// paginate applies limit/offset to an already-sorted slice.
func paginate[T any](items []*T, limit, offset int) []*T {
	if offset > 0 {
		if offset >= len(items) {
			return []*T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
