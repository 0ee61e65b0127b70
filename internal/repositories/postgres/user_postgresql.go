package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/aithenode/booking-service/internal/cache"
	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (r *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translateError(err)
	}
	cache.SafeInvalidatePattern(ctx, r.cacheManager.User, "list:*")
	return nil
}

// GetByID retrieves a user by ID with caching
func (r *UserPostgreSQL) GetByID(ctx context.Context, id int64) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var user models.User

	err := r.cacheManager.User.CacheOrExecute(ctx, cacheKey, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var dbUser models.User
		if err := r.db.WithContext(ctx).First(&dbUser, id).Error; err != nil {
			return nil, translateError(err)
		}
		return &dbUser, nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserPostgreSQL) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	var users []*models.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

func (r *UserPostgreSQL) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("username ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var users []*models.User
	query = applyPaginationAndSort(query, "id", "asc", filters.Limit, filters.Offset)
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, translateError(err)
	}

	return users, total, nil
}

func (r *UserPostgreSQL) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return cache.CachedExists(ctx, r.cacheManager, fmt.Sprintf("user:%d", id), func() (bool, error) {
		var count int64
		err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
		if err != nil {
			return false, translateError(err)
		}
		return count > 0, nil
	})
}
