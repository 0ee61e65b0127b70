package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

type EducatorPostgreSQL struct {
	db *gorm.DB
}

func NewEducatorPostgreSQL(db *gorm.DB) repositories.EducatorRepository {
	return &EducatorPostgreSQL{db: db}
}

func (r *EducatorPostgreSQL) Create(ctx context.Context, profile *models.EducatorProfile) error {
	return translateError(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *EducatorPostgreSQL) GetByID(ctx context.Context, id int64) (*models.EducatorProfile, error) {
	var profile models.EducatorProfile
	err := r.db.WithContext(ctx).First(&profile, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

func (r *EducatorPostgreSQL) GetByUserID(ctx context.Context, userID int64) (*models.EducatorProfile, error) {
	var profile models.EducatorProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

func (r *EducatorPostgreSQL) List(ctx context.Context, filters repositories.EducatorFilters) ([]*models.EducatorProfile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EducatorProfile{})

	if filters.SubjectID != nil {
		query = query.Joins("JOIN educator_subjects ON educator_subjects.educator_id = educator_profiles.id").
			Where("educator_subjects.subject_id = ?", *filters.SubjectID)
	} else if filters.CategoryID != nil {
		query = query.Joins("JOIN educator_subjects ON educator_subjects.educator_id = educator_profiles.id").
			Joins("JOIN subjects ON subjects.id = educator_subjects.subject_id").
			Where("subjects.category_id = ?", *filters.CategoryID)
	}
	query = query.Distinct("educator_profiles.*")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var profiles []*models.EducatorProfile
	query = applyPaginationAndSort(query, "id", "asc", filters.Limit, filters.Offset)
	if err := query.Find(&profiles).Error; err != nil {
		return nil, 0, translateError(err)
	}

	return profiles, total, nil
}

func (r *EducatorPostgreSQL) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EducatorProfile{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

type EducatorSubjectPostgreSQL struct {
	db *gorm.DB
}

func NewEducatorSubjectPostgreSQL(db *gorm.DB) repositories.EducatorSubjectRepository {
	return &EducatorSubjectPostgreSQL{db: db}
}

// Create relies on the unique (educator_id, subject_id) index; a concurrent
// duplicate insert surfaces as ErrDuplicateKey.
func (r *EducatorSubjectPostgreSQL) Create(ctx context.Context, link *models.EducatorSubject) error {
	return translateError(r.db.WithContext(ctx).Create(link).Error)
}

func (r *EducatorSubjectPostgreSQL) GetByPair(ctx context.Context, educatorID, subjectID int64) (*models.EducatorSubject, error) {
	var link models.EducatorSubject
	err := r.db.WithContext(ctx).
		Where("educator_id = ? AND subject_id = ?", educatorID, subjectID).
		First(&link).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &link, nil
}

func (r *EducatorSubjectPostgreSQL) ListByEducator(ctx context.Context, educatorID int64) ([]*models.EducatorSubject, error) {
	var links []*models.EducatorSubject
	err := r.db.WithContext(ctx).
		Where("educator_id = ?", educatorID).
		Order("id ASC").
		Find(&links).Error
	if err != nil {
		return nil, translateError(err)
	}
	return links, nil
}

func (r *EducatorSubjectPostgreSQL) ListBySubject(ctx context.Context, subjectID int64) ([]*models.EducatorSubject, error) {
	var links []*models.EducatorSubject
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("id ASC").
		Find(&links).Error
	if err != nil {
		return nil, translateError(err)
	}
	return links, nil
}

func (r *EducatorSubjectPostgreSQL) Delete(ctx context.Context, educatorID, subjectID int64) error {
	result := r.db.WithContext(ctx).
		Where("educator_id = ? AND subject_id = ?", educatorID, subjectID).
		Delete(&models.EducatorSubject{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
