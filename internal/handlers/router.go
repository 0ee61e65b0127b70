package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aithenode/booking-service/internal/services"
	"github.com/aithenode/booking-service/internal/utils"
)

type HandlerManager struct {
	userHandler    *UserHandler
	catalogHandler *CatalogHandler
	bookingHandler *BookingHandler
	reviewHandler  *ReviewHandler
	serviceManager services.ServiceManager
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		userHandler:    NewUserHandler(serviceManager.User(), logger),
		catalogHandler: NewCatalogHandler(serviceManager.Catalog(), logger),
		bookingHandler: NewBookingHandler(serviceManager.Booking(), logger),
		reviewHandler:  NewReviewHandler(serviceManager.Review(), serviceManager.Testimonial(), logger),
		serviceManager: serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(IdentityMiddleware())
	{
		// User routes
		users := v1.Group("/users")
		{
			users.POST("", hm.userHandler.Register)
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
		}

		// Educator routes
		educators := v1.Group("/educators")
		{
			educators.POST("", RequireActor(), hm.userHandler.CreateEducatorProfile)
			educators.GET("", hm.userHandler.ListEducators)
			educators.GET("/:id", hm.userHandler.GetEducator)

			educators.GET("/:id/subjects", hm.catalogHandler.ListEducatorSubjects)
			educators.POST("/:id/subjects/:subject_id", RequireActor(), hm.catalogHandler.AssignSubject)
			educators.DELETE("/:id/subjects/:subject_id", RequireActor(), hm.catalogHandler.UnassignSubject)

			educators.GET("/:id/sessions", RequireActor(), hm.bookingHandler.ListByEducator)
			educators.GET("/:id/reviews", hm.reviewHandler.ListEducatorReviews)
			educators.GET("/:id/rating", hm.reviewHandler.GetEducatorRating)
		}

		// Catalog routes
		categories := v1.Group("/categories")
		{
			categories.POST("", hm.catalogHandler.CreateCategory)
			categories.GET("", hm.catalogHandler.ListCategories)
			categories.GET("/:id", hm.catalogHandler.GetCategory)
		}

		subjects := v1.Group("/subjects")
		{
			subjects.POST("", hm.catalogHandler.CreateSubject)
			subjects.GET("", hm.catalogHandler.ListSubjects)
			subjects.GET("/:id", hm.catalogHandler.GetSubject)
		}

		// Session lifecycle routes
		sessions := v1.Group("/sessions")
		sessions.Use(RequireActor())
		{
			sessions.POST("", hm.bookingHandler.Book)
			sessions.GET("/:id", hm.bookingHandler.GetSession)
			sessions.POST("/:id/confirm", hm.bookingHandler.Confirm)
			sessions.POST("/:id/complete", hm.bookingHandler.Complete)
			sessions.POST("/:id/cancel", hm.bookingHandler.Cancel)
			sessions.POST("/:id/pay", hm.bookingHandler.Pay)
			sessions.POST("/:id/refund", hm.bookingHandler.Refund)
		}

		students := v1.Group("/students")
		{
			students.GET("/:id/sessions", RequireActor(), hm.bookingHandler.ListByStudent)
		}

		// Review routes
		reviews := v1.Group("/reviews")
		{
			reviews.POST("", RequireActor(), hm.reviewHandler.CreateReview)
		}

		testimonials := v1.Group("/testimonials")
		{
			testimonials.POST("", RequireActor(), hm.reviewHandler.CreateTestimonial)
			testimonials.GET("", hm.reviewHandler.ListTestimonials)
			testimonials.POST("/:id/hide", RequireActor(), hm.reviewHandler.HideTestimonial)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "booking-service",
	})
}
