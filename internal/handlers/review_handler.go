package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/services"
	"github.com/aithenode/booking-service/internal/utils"
)

type ReviewHandler struct {
	BaseHandler
	reviews      services.ReviewService
	testimonials services.TestimonialService
}

func NewReviewHandler(reviews services.ReviewService, testimonials services.TestimonialService, logger utils.Logger) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:  NewBaseHandler(logger),
		reviews:      reviews,
		testimonials: testimonials,
	}
}

// CreateReview submits a review for an educator
// @Summary Create review
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body services.CreateReviewRequest true "Review payload"
// @Success 201 {object} services.ReviewResponse
// @Failure 400 {object} ValidationErrorResponse "Validation failed"
// @Failure 404 {object} ErrorResponse "Educator or session not found"
// @Router /reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating review", "educator_id", req.EducatorID)

	review, err := h.reviews.Create(c.Request.Context(), &req, actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListEducatorReviews lists reviews for an educator
// @Summary List educator reviews
// @Tags reviews
// @Produce json
// @Param id path int true "Educator ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse "Educator not found"
// @Router /educators/{id}/reviews [get]
func (h *ReviewHandler) ListEducatorReviews(c *gin.Context) {
	educatorID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var filters repositories.ReviewFilters
	filters.Limit, filters.Offset = h.parsePagination(c)

	reviews, total, err := h.reviews.ListByEducator(c.Request.Context(), educatorID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
	})
}

// GetEducatorRating returns the live rating aggregate for an educator
// @Summary Get educator rating
// @Tags reviews
// @Produce json
// @Param id path int true "Educator ID"
// @Success 200 {object} services.RatingResponse
// @Failure 404 {object} ErrorResponse "Educator not found"
// @Router /educators/{id}/rating [get]
func (h *ReviewHandler) GetEducatorRating(c *gin.Context) {
	educatorID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	rating, err := h.reviews.EducatorRating(c.Request.Context(), educatorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

// CreateTestimonial submits a site testimonial
// @Summary Create testimonial
// @Tags testimonials
// @Accept json
// @Produce json
// @Param request body services.CreateTestimonialRequest true "Testimonial payload"
// @Success 201 {object} services.TestimonialResponse
// @Failure 400 {object} ValidationErrorResponse "Validation failed"
// @Router /testimonials [post]
func (h *ReviewHandler) CreateTestimonial(c *gin.Context) {
	var req services.CreateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating testimonial")

	testimonial, err := h.testimonials.Create(c.Request.Context(), &req, actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, testimonial)
}

// ListTestimonials lists visible testimonials
// @Summary List testimonials
// @Tags testimonials
// @Produce json
// @Success 200 {array} services.TestimonialResponse
// @Router /testimonials [get]
func (h *ReviewHandler) ListTestimonials(c *gin.Context) {
	testimonials, err := h.testimonials.ListVisible(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, testimonials)
}

// HideTestimonial hides the acting user's testimonial
// @Summary Hide testimonial
// @Tags testimonials
// @Produce json
// @Param id path int true "Testimonial ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Not the author"
// @Failure 404 {object} ErrorResponse "Testimonial not found"
// @Router /testimonials/{id}/hide [post]
func (h *ReviewHandler) HideTestimonial(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Hiding testimonial", "testimonial_id", id)

	if err := h.testimonials.Hide(c.Request.Context(), id, actorFrom(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Testimonial hidden"})
}
