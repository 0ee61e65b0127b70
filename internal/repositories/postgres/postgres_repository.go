package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/aithenode/booking-service/internal/cache"
	"github.com/aithenode/booking-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface. It is the
// durable backend; the Redis client is optional and only accelerates reads
// of slow-moving data.
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	user            repositories.UserRepository
	educator        repositories.EducatorRepository
	educatorSubject repositories.EducatorSubjectRepository
	category        repositories.CategoryRepository
	subject         repositories.SubjectRepository
	session         repositories.SessionRepository
	review          repositories.ReviewRepository
	testimonial     repositories.TestimonialRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository with all sub-repositories.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	return &PostgreSQLRepository{
		db:              config.DB,
		redisClient:     config.RedisClient,
		cacheManager:    cacheManager,
		user:            NewUserPostgreSQL(config.DB, cacheManager),
		educator:        NewEducatorPostgreSQL(config.DB),
		educatorSubject: NewEducatorSubjectPostgreSQL(config.DB),
		category:        NewCategoryPostgreSQL(config.DB, cacheManager),
		subject:         NewSubjectPostgreSQL(config.DB, cacheManager),
		session:         NewSessionPostgreSQL(config.DB),
		review:          NewReviewPostgreSQL(config.DB),
		testimonial:     NewTestimonialPostgreSQL(config.DB),
	}
}

func (r *PostgreSQLRepository) User() repositories.UserRepository { return r.user }

func (r *PostgreSQLRepository) Educator() repositories.EducatorRepository { return r.educator }

func (r *PostgreSQLRepository) EducatorSubject() repositories.EducatorSubjectRepository {
	return r.educatorSubject
}

func (r *PostgreSQLRepository) Category() repositories.CategoryRepository { return r.category }

func (r *PostgreSQLRepository) Subject() repositories.SubjectRepository { return r.subject }

func (r *PostgreSQLRepository) Session() repositories.SessionRepository { return r.session }

func (r *PostgreSQLRepository) Review() repositories.ReviewRepository { return r.review }

func (r *PostgreSQLRepository) Testimonial() repositories.TestimonialRepository {
	return r.testimonial
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}
