package memory

import (
	"context"
	"sort"
	"time"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

type reviewMemory struct {
	store *store
}

func (r *reviewMemory) Create(ctx context.Context, review *models.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	review.ID = r.store.nextID("reviews")
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	r.store.reviews[review.ID] = *review
	return nil
}

func (r *reviewMemory) List(ctx context.Context, filters repositories.ReviewFilters) ([]*models.Review, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reviews := make([]*models.Review, 0)
	for _, review := range r.store.reviews {
		if filters.EducatorID != nil && review.EducatorID != *filters.EducatorID {
			continue
		}
		if filters.StudentID != nil && review.StudentID != *filters.StudentID {
			continue
		}
		rv := review
		reviews = append(reviews, &rv)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })

	total := int64(len(reviews))
	return paginate(reviews, filters.Limit, filters.Offset), total, nil
}

func (r *reviewMemory) ExistsBySession(ctx context.Context, studentID, sessionID int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, review := range r.store.reviews {
		if review.StudentID == studentID && review.SessionID != nil && *review.SessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

// Rating recomputes the aggregate from stored reviews on every call; nothing
// is cached or denormalized.
func (r *reviewMemory) Rating(ctx context.Context, educatorID int64) (*repositories.RatingSummary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var sum, count int64
	for _, review := range r.store.reviews {
		if review.EducatorID == educatorID {
			sum += int64(review.Rating)
			count++
		}
	}

	summary := &repositories.RatingSummary{Count: count}
	if count > 0 {
		summary.Average = float64(sum) / float64(count)
	}
	return summary, nil
}

type testimonialMemory struct {
	store *store
}

func (r *testimonialMemory) Create(ctx context.Context, testimonial *models.Testimonial) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	testimonial.ID = r.store.nextID("testimonials")
	if testimonial.CreatedAt.IsZero() {
		testimonial.CreatedAt = time.Now()
	}
	r.store.testimonials[testimonial.ID] = *testimonial
	return nil
}

func (r *testimonialMemory) GetByID(ctx context.Context, id int64) (*models.Testimonial, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	testimonial, ok := r.store.testimonials[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &testimonial, nil
}

func (r *testimonialMemory) ListVisible(ctx context.Context) ([]*models.Testimonial, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	testimonials := make([]*models.Testimonial, 0)
	for _, testimonial := range r.store.testimonials {
		if testimonial.IsVisible {
			t := testimonial
			testimonials = append(testimonials, &t)
		}
	}
	sort.Slice(testimonials, func(i, j int) bool { return testimonials[i].ID < testimonials[j].ID })
	return testimonials, nil
}

func (r *testimonialMemory) SetVisibility(ctx context.Context, id int64, visible bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	testimonial, ok := r.store.testimonials[id]
	if !ok {
		return repositories.ErrNotFound
	}
	testimonial.IsVisible = visible
	r.store.testimonials[id] = testimonial
	return nil
}
