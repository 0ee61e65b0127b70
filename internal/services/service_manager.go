package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aithenode/booking-service/internal/events"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/validator"
)

// serviceManager implements ServiceManager
type serviceManager struct {
	repo      repositories.Repository
	publisher events.Publisher
	logger    *slog.Logger
	validator *validator.BusinessValidator

	userService        UserService
	catalogService     CatalogService
	bookingService     BookingService
	reviewService      ReviewService
	testimonialService TestimonialService

	shutdown bool
	mu       sync.RWMutex
}

// NewServiceManager creates a service manager with all services wired.
func NewServiceManager(repo repositories.Repository, publisher events.Publisher, logger *slog.Logger, bv *validator.BusinessValidator) ServiceManager {
	sm := &serviceManager{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: bv,
	}

	sm.userService = NewUserService(repo, logger, bv)
	sm.catalogService = NewCatalogService(repo, logger, bv)
	sm.bookingService = NewBookingService(repo, publisher, logger, bv)
	sm.reviewService = NewReviewService(repo, logger, bv)
	sm.testimonialService = NewTestimonialService(repo, logger, bv)

	return sm
}

func (sm *serviceManager) User() UserService { return sm.userService }

func (sm *serviceManager) Catalog() CatalogService { return sm.catalogService }

func (sm *serviceManager) Booking() BookingService { return sm.bookingService }

func (sm *serviceManager) Review() ReviewService { return sm.reviewService }

func (sm *serviceManager) Testimonial() TestimonialService { return sm.testimonialService }

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")
	return nil
}
