package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/aithenode/booking-service/internal/cache"
	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
)

type CategoryPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCategoryPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CategoryRepository {
	return &CategoryPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (r *CategoryPostgreSQL) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return translateError(err)
	}
	cache.InvalidateCatalogCache(ctx, r.cacheManager)
	return nil
}

func (r *CategoryPostgreSQL) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

// List serves the full category listing through the catalog cache.
func (r *CategoryPostgreSQL) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category

	err := r.cacheManager.Catalog.CacheOrExecute(ctx, "categories:list", &categories, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var dbCategories []*models.Category
		if err := r.db.WithContext(ctx).Order("id ASC").Find(&dbCategories).Error; err != nil {
			return nil, translateError(err)
		}
		return dbCategories, nil
	})
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *CategoryPostgreSQL) UpdateEducatorCount(ctx context.Context, id int64, delta int) error {
	result := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", id).
		Update("educator_count", gorm.Expr("GREATEST(educator_count + ?, 0)", delta))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	cache.InvalidateCatalogCache(ctx, r.cacheManager)
	return nil
}

func (r *CategoryPostgreSQL) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return cache.CachedExists(ctx, r.cacheManager, fmt.Sprintf("category:%d", id), func() (bool, error) {
		var count int64
		err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
		if err != nil {
			return false, translateError(err)
		}
		return count > 0, nil
	})
}

type SubjectPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSubjectPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SubjectRepository {
	return &SubjectPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (r *SubjectPostgreSQL) Create(ctx context.Context, subject *models.Subject) error {
	if err := r.db.WithContext(ctx).Create(subject).Error; err != nil {
		return translateError(err)
	}
	cache.InvalidateCatalogCache(ctx, r.cacheManager)
	return nil
}

func (r *SubjectPostgreSQL) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.WithContext(ctx).First(&subject, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &subject, nil
}

func (r *SubjectPostgreSQL) GetByIDs(ctx context.Context, ids []int64) ([]*models.Subject, error) {
	if len(ids) == 0 {
		return []*models.Subject{}, nil
	}

	var subjects []*models.Subject
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&subjects).Error
	if err != nil {
		return nil, translateError(err)
	}
	return subjects, nil
}

func (r *SubjectPostgreSQL) List(ctx context.Context) ([]*models.Subject, error) {
	var subjects []*models.Subject

	err := r.cacheManager.Catalog.CacheOrExecute(ctx, "subjects:list", &subjects, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var dbSubjects []*models.Subject
		if err := r.db.WithContext(ctx).Order("id ASC").Find(&dbSubjects).Error; err != nil {
			return nil, translateError(err)
		}
		return dbSubjects, nil
	})
	if err != nil {
		return nil, err
	}

	return subjects, nil
}

func (r *SubjectPostgreSQL) ListByCategory(ctx context.Context, categoryID int64) ([]*models.Subject, error) {
	var subjects []*models.Subject

	cacheKey := fmt.Sprintf("subjects:category:%d", categoryID)
	err := r.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &subjects, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var dbSubjects []*models.Subject
		err := r.db.WithContext(ctx).
			Where("category_id = ?", categoryID).
			Order("id ASC").
			Find(&dbSubjects).Error
		if err != nil {
			return nil, translateError(err)
		}
		return dbSubjects, nil
	})
	if err != nil {
		return nil, err
	}

	return subjects, nil
}
