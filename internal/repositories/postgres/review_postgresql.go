package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

type ReviewPostgreSQL struct {
	db *gorm.DB
}

func NewReviewPostgreSQL(db *gorm.DB) repositories.ReviewRepository {
	return &ReviewPostgreSQL{db: db}
}

func (r *ReviewPostgreSQL) Create(ctx context.Context, review *models.Review) error {
	return translateError(r.db.WithContext(ctx).Create(review).Error)
}

func (r *ReviewPostgreSQL) List(ctx context.Context, filters repositories.ReviewFilters) ([]*models.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{})

	if filters.EducatorID != nil {
		query = query.Where("educator_id = ?", *filters.EducatorID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var reviews []*models.Review
	query = applyPaginationAndSort(query, "id", "asc", filters.Limit, filters.Offset)
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, translateError(err)
	}

	return reviews, total, nil
}

func (r *ReviewPostgreSQL) ExistsBySession(ctx context.Context, studentID, sessionID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Rating computes the aggregate in SQL on every call; the result is never
// cached or stored back.
func (r *ReviewPostgreSQL) Rating(ctx context.Context, educatorID int64) (*repositories.RatingSummary, error) {
	var summary repositories.RatingSummary
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("educator_id = ?", educatorID).
		Scan(&summary).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &summary, nil
}

type TestimonialPostgreSQL struct {
	db *gorm.DB
}

func NewTestimonialPostgreSQL(db *gorm.DB) repositories.TestimonialRepository {
	return &TestimonialPostgreSQL{db: db}
}

func (r *TestimonialPostgreSQL) Create(ctx context.Context, testimonial *models.Testimonial) error {
	return translateError(r.db.WithContext(ctx).Create(testimonial).Error)
}

func (r *TestimonialPostgreSQL) GetByID(ctx context.Context, id int64) (*models.Testimonial, error) {
	var testimonial models.Testimonial
	err := r.db.WithContext(ctx).First(&testimonial, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &testimonial, nil
}

func (r *TestimonialPostgreSQL) ListVisible(ctx context.Context) ([]*models.Testimonial, error) {
	var testimonials []*models.Testimonial
	err := r.db.WithContext(ctx).
		Where("is_visible = ?", true).
		Order("id ASC").
		Find(&testimonials).Error
	if err != nil {
		return nil, translateError(err)
	}
	return testimonials, nil
}

func (r *TestimonialPostgreSQL) SetVisibility(ctx context.Context, id int64, visible bool) error {
	result := r.db.WithContext(ctx).Model(&models.Testimonial{}).
		Where("id = ?", id).
		Update("is_visible", visible)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
