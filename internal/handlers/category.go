package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskmasterpro/taskmaster-api/internal/dto"
	apierrors "github.com/taskmasterpro/taskmaster-api/internal/errors"
	"github.com/taskmasterpro/taskmaster-api/internal/middleware"
	"github.com/taskmasterpro/taskmaster-api/internal/services"
)

// CategoryHandler serves the category CRUD endpoints.
type CategoryHandler struct {
	categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type categoryRequest struct {
	Name        string                   `json:"name"`
	Color       string                   `json:"color"`
	Description *string                  `json:"description"`
	Schedules   []services.ScheduleInput `json:"schedules"`
}

func (r categoryRequest) toInput() services.CategoryInput {
	return services.CategoryInput{
		Name:        r.Name,
		Color:       r.Color,
		Description: r.Description,
		Schedules:   r.Schedules,
	}
}

// ListCategories returns the user's categories, defaults first.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	categories, err := h.categories.List(userID)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": dto.ToCategoryDTOs(categories)})
}

// CreateCategory creates a category with its schedule windows.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categories.Create(userID, req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrCategoryNameRequired) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCategoryDTO(*category))
}

// GetCategory returns one category with its schedules.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	category, err := h.categories.Get(c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			apierrors.NotFound(c, "Category not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*category))
}

// UpdateCategory updates fields and replaces the schedule set.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categories.Update(c.Param("id"), userID, req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			apierrors.NotFound(c, "Category not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*category))
}

// DeleteCategory removes a category unless it is a default or still
// has tasks attached.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	err := h.categories.Delete(c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			apierrors.NotFound(c, "Category not found")
		case errors.Is(err, services.ErrCategoryIsDefault),
			errors.Is(err, services.ErrCategoryHasTasks):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
