package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aithenode/booking-service/internal/services"
	"github.com/aithenode/booking-service/internal/utils"
	"github.com/aithenode/booking-service/internal/validator"
)

// ErrorResponse is the uniform error payload
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ValidationErrorResponse carries per-field validation failures
type ValidationErrorResponse struct {
	Message string                      `json:"message"`
	Errors  []validator.ValidationError `json:"errors"`
}

// SuccessResponse is used for operations with no payload to return
type SuccessResponse struct {
	Message string `json:"message"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.LoggerFromContext(c.Request.Context(), h.logger).Error(msg, args...)
}

// parseIDParam reads an int64 path parameter, replying 400 on garbage.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid path parameter",
			Details: name + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

// parseQueryID parses an already-read query value as a positive int64.
func parseQueryID(c *gin.Context, name, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameter",
			Details: name + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func (h *BaseHandler) parsePagination(c *gin.Context) (limit, offset int) {
	const defaultLimit = 20
	const maxLimit = 100

	limit = defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	var perr *services.PermissionError
	var terr *services.TransitionError
	var ierr *services.IntegrityError

	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Message: "Validation failed",
			Errors:  verrs,
		})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case errors.As(err, &perr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
			Details: perr.Reason,
		})
	case errors.As(err, &terr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Invalid session transition",
			Details: terr.Error(),
		})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
	case errors.As(err, &ierr):
		h.LogError(c, err, "Data integrity violation")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
