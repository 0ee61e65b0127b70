package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aithenode/booking-service/internal/services"
	"github.com/aithenode/booking-service/internal/utils"
)

type CatalogHandler struct {
	BaseHandler
	service services.CatalogService
}

func NewCatalogHandler(service services.CatalogService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateCategory creates a new category
// @Summary Create category
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body services.CreateCategoryRequest true "Category payload"
// @Success 201 {object} services.CategoryResponse
// @Failure 409 {object} ErrorResponse "Name already exists"
// @Router /categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating category", "name", req.Name)

	category, err := h.service.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetCategory retrieves a category with its subjects
// @Summary Get category
// @Tags catalog
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} services.CategoryResponse
// @Failure 404 {object} ErrorResponse "Category not found"
// @Router /categories/{id} [get]
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// ListCategories lists all categories
// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {array} services.CategoryResponse
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateSubject creates a subject under an existing category
// @Summary Create subject
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body services.CreateSubjectRequest true "Subject payload"
// @Success 201 {object} models.Subject
// @Failure 404 {object} ErrorResponse "Category not found"
// @Router /subjects [post]
func (h *CatalogHandler) CreateSubject(c *gin.Context) {
	var req services.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating subject", "name", req.Name, "category_id", req.CategoryID)

	subject, err := h.service.CreateSubject(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// GetSubject retrieves a subject by ID
// @Summary Get subject
// @Tags catalog
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} models.Subject
// @Failure 404 {object} ErrorResponse "Subject not found"
// @Router /subjects/{id} [get]
func (h *CatalogHandler) GetSubject(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	subject, err := h.service.GetSubject(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

// ListSubjects lists all subjects, optionally scoped to a category
// @Summary List subjects
// @Tags catalog
// @Produce json
// @Param category_id query int false "Filter by category"
// @Success 200 {array} models.Subject
// @Router /subjects [get]
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	if raw := c.Query("category_id"); raw != "" {
		categoryID, ok := parseQueryID(c, "category_id", raw)
		if !ok {
			return
		}
		subjects, err := h.service.ListSubjectsByCategory(c.Request.Context(), categoryID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, subjects)
		return
	}

	subjects, err := h.service.ListSubjects(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// AssignSubject links a subject to the acting educator
// @Summary Assign subject to educator
// @Tags educators
// @Produce json
// @Param id path int true "Educator ID"
// @Param subject_id path int true "Subject ID"
// @Success 200 {object} models.EducatorSubject
// @Failure 403 {object} ErrorResponse "Not the educator"
// @Router /educators/{id}/subjects/{subject_id} [post]
func (h *CatalogHandler) AssignSubject(c *gin.Context) {
	educatorID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	subjectID, ok := h.parseIDParam(c, "subject_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Assigning subject", "educator_id", educatorID, "subject_id", subjectID)

	link, err := h.service.AssignSubject(c.Request.Context(), educatorID, subjectID, actorFrom(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// UnassignSubject removes a subject link from the acting educator
// @Summary Unassign subject from educator
// @Tags educators
// @Produce json
// @Param id path int true "Educator ID"
// @Param subject_id path int true "Subject ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Not the educator"
// @Router /educators/{id}/subjects/{subject_id} [delete]
func (h *CatalogHandler) UnassignSubject(c *gin.Context) {
	educatorID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	subjectID, ok := h.parseIDParam(c, "subject_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Unassigning subject", "educator_id", educatorID, "subject_id", subjectID)

	if err := h.service.UnassignSubject(c.Request.Context(), educatorID, subjectID, actorFrom(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Subject unassigned"})
}

// ListEducatorSubjects lists the subjects an educator teaches
// @Summary List educator subjects
// @Tags educators
// @Produce json
// @Param id path int true "Educator ID"
// @Success 200 {array} services.EducatorSubjectInfo
// @Failure 404 {object} ErrorResponse "Educator not found"
// @Router /educators/{id}/subjects [get]
func (h *CatalogHandler) ListEducatorSubjects(c *gin.Context) {
	educatorID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	subjects, err := h.service.ListEducatorSubjects(c.Request.Context(), educatorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}
