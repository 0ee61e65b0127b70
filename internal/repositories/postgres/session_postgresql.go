package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (r *SessionPostgreSQL) Create(ctx context.Context, session *models.Session) error {
	return translateError(r.db.WithContext(ctx).Create(session).Error)
}

func (r *SessionPostgreSQL) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).First(&session, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

func (r *SessionPostgreSQL) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Session{})

	if filters.EducatorID != nil {
		query = query.Where("educator_id = ?", *filters.EducatorID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var sessions []*models.Session
	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&sessions).Error; err != nil {
		return nil, 0, translateError(err)
	}

	return sessions, total, nil
}

// UpdateStatus is a conditional single-statement update: the WHERE clause
// pins the expected current status, so two racing transitions can never both
// win. RowsAffected == 0 means the swap lost.
func (r *SessionPostgreSQL) UpdateStatus(ctx context.Context, id int64, from, to models.SessionStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, repositories.ErrNotFound
		}
		return false, nil
	}
	return true, nil
}

func (r *SessionPostgreSQL) UpdatePayment(ctx context.Context, id int64, from, to models.PaymentStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND payment_status = ?", id, from).
		Update("payment_status", to)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, repositories.ErrNotFound
		}
		return false, nil
	}
	return true, nil
}

func (r *SessionPostgreSQL) exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}
