package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/services"
	"github.com/aithenode/booking-service/internal/utils"
)

type BookingHandler struct {
	BaseHandler
	service services.BookingService
}

func NewBookingHandler(service services.BookingService, logger utils.Logger) *BookingHandler {
	return &BookingHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Book creates a session request on behalf of the acting student
// @Summary Book a session
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body services.CreateSessionRequest true "Booking payload"
// @Success 201 {object} services.SessionResponse
// @Failure 400 {object} ValidationErrorResponse "Validation failed"
// @Failure 404 {object} ErrorResponse "Educator not found"
// @Router /sessions [post]
func (h *BookingHandler) Book(c *gin.Context) {
	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Booking session", "educator_id", req.EducatorID)

	session, err := h.service.Book(c.Request.Context(), &req, actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSession retrieves a session visible to its participants
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse "Not a participant"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Router /sessions/{id} [get]
func (h *BookingHandler) GetSession(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.service.GetSession(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ListByEducator lists the acting educator's own sessions
// @Summary List sessions by educator
// @Tags sessions
// @Produce json
// @Param id path int true "Educator ID"
// @Param status query string false "Filter by status"
// @Param sort_by query string false "Sort column (start_time, created_at)"
// @Param sort_order query string false "Sort direction (asc, desc)"
// @Success 200 {object} services.SessionListResponse
// @Failure 403 {object} ErrorResponse "Not the profile owner"
// @Router /educators/{id}/sessions [get]
func (h *BookingHandler) ListByEducator(c *gin.Context) {
	educatorID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	filters, ok := h.parseSessionFilters(c)
	if !ok {
		return
	}

	sessions, err := h.service.ListByEducator(c.Request.Context(), educatorID, filters, actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// ListByStudent lists the acting student's own sessions
// @Summary List sessions by student
// @Tags sessions
// @Produce json
// @Param id path int true "Student ID"
// @Param status query string false "Filter by status"
// @Param sort_by query string false "Sort column (start_time, created_at)"
// @Param sort_order query string false "Sort direction (asc, desc)"
// @Success 200 {object} services.SessionListResponse
// @Failure 403 {object} ErrorResponse "Not the session owner"
// @Router /students/{id}/sessions [get]
func (h *BookingHandler) ListByStudent(c *gin.Context) {
	studentID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	filters, ok := h.parseSessionFilters(c)
	if !ok {
		return
	}

	sessions, err := h.service.ListByStudent(c.Request.Context(), studentID, filters, actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// Confirm moves a requested session to confirmed
// @Summary Confirm session
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse "Role not allowed"
// @Failure 409 {object} ErrorResponse "No such transition"
// @Router /sessions/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, "confirm", h.service.Confirm)
}

// Complete moves a confirmed session to completed
// @Summary Complete session
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse "Role not allowed"
// @Failure 409 {object} ErrorResponse "No such transition"
// @Router /sessions/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, "complete", h.service.Complete)
}

// Cancel cancels a requested or confirmed session
// @Summary Cancel session
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse "Not a participant"
// @Failure 409 {object} ErrorResponse "No such transition"
// @Router /sessions/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, "cancel", h.service.Cancel)
}

// Pay marks a completed session as paid
// @Summary Pay for session
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse "Role not allowed"
// @Failure 409 {object} ErrorResponse "No such transition"
// @Router /sessions/{id}/pay [post]
func (h *BookingHandler) Pay(c *gin.Context) {
	h.transition(c, "pay", h.service.Pay)
}

// Refund marks a paid session as refunded
// @Summary Refund session
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse "Role not allowed"
// @Failure 409 {object} ErrorResponse "No such transition"
// @Router /sessions/{id}/refund [post]
func (h *BookingHandler) Refund(c *gin.Context) {
	h.transition(c, "refund", h.service.Refund)
}

type transitionFunc func(ctx context.Context, sessionID int64, actor services.Actor) (*services.SessionResponse, error)

func (h *BookingHandler) transition(c *gin.Context, action string, apply transitionFunc) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Applying session transition", "session_id", id, "action", action)

	session, err := apply(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *BookingHandler) parseSessionFilters(c *gin.Context) (repositories.SessionFilters, bool) {
	var filters repositories.SessionFilters
	filters.Limit, filters.Offset = h.parsePagination(c)

	if raw := c.Query("status"); raw != "" {
		status := models.SessionStatus(raw)
		switch status {
		case models.SessionRequested, models.SessionConfirmed, models.SessionCompleted, models.SessionCancelled:
			filters.Status = &status
		default:
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid status filter",
				Details: "status must be requested, confirmed, completed or cancelled",
			})
			return filters, false
		}
	}

	filters.SortBy = c.DefaultQuery("sort_by", "start_time")
	filters.SortOrder = c.DefaultQuery("sort_order", "asc")
	return filters, true
}
