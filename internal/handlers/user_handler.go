package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/services"
	"github.com/aithenode/booking-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	service services.UserService
}

func NewUserHandler(service services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Register creates a new user account
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body services.CreateUserRequest true "User payload"
// @Success 201 {object} services.UserResponse
// @Failure 400 {object} ValidationErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Username or email taken"
// @Router /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Registering user", "username", req.Username)

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser retrieves a user by ID
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} services.UserResponse
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers lists users with optional filtering
// @Summary List users
// @Tags users
// @Produce json
// @Param q query string false "Search query (name or username)"
// @Param role query string false "Filter by role (student, educator)"
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	filters := repositories.UserFilters{Query: c.Query("q")}
	filters.Limit, filters.Offset = h.parsePagination(c)
	if raw := c.Query("role"); raw != "" {
		role := models.UserRole(raw)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid role filter",
				Details: "role must be 'student' or 'educator'",
			})
			return
		}
		filters.Role = &role
	}

	users, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
	})
}

// CreateEducatorProfile onboards the acting user as an educator
// @Summary Create educator profile
// @Tags educators
// @Accept json
// @Produce json
// @Param request body services.CreateEducatorProfileRequest true "Profile payload"
// @Success 201 {object} services.EducatorResponse
// @Failure 403 {object} ErrorResponse "Not the profile owner"
// @Failure 409 {object} ErrorResponse "Profile already exists"
// @Router /educators [post]
func (h *UserHandler) CreateEducatorProfile(c *gin.Context) {
	var req services.CreateEducatorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating educator profile", "user_id", req.UserID)

	educator, err := h.service.CreateEducatorProfile(c.Request.Context(), &req, actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, educator)
}

// GetEducator retrieves an enriched educator profile
// @Summary Get educator
// @Tags educators
// @Produce json
// @Param id path int true "Educator ID"
// @Success 200 {object} services.EducatorResponse
// @Failure 404 {object} ErrorResponse "Educator not found"
// @Router /educators/{id} [get]
func (h *UserHandler) GetEducator(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	educator, err := h.service.GetEducator(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, educator)
}

// ListEducators lists educators with optional subject/category filtering
// @Summary List educators
// @Tags educators
// @Produce json
// @Param subject_id query int false "Filter by subject"
// @Param category_id query int false "Filter by category"
// @Success 200 {object} services.EducatorListResponse
// @Router /educators [get]
func (h *UserHandler) ListEducators(c *gin.Context) {
	h.LogRequest(c, "Listing educators")

	var filters repositories.EducatorFilters
	filters.Limit, filters.Offset = h.parsePagination(c)
	if raw := c.Query("subject_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid subject_id filter"})
			return
		}
		filters.SubjectID = &id
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid category_id filter"})
			return
		}
		filters.CategoryID = &id
	}

	educators, err := h.service.ListEducators(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, educators)
}
