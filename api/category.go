package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
)

// CategoryHandler serves bill category CRUD.
type CategoryHandler struct{}

// NewCategoryHandler creates the category handler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CreateCategoryRequest creates a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required" example:"Utilities"`
	Description string `json:"description" example:"Power, water, internet"`
}

// UpdateCategoryRequest updates category fields.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Create creates a category
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body CreateCategoryRequest true "category"
// @Success 200 {object} Response{data=models.Category}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	// the name column is unique across deleted rows too, so check with
	// Unscoped to turn what would be a 500 into a clean conflict
	var count int64
	if err := database.DB.Unscoped().Model(&models.Category{}).
		Where("name = ?", req.Name).Count(&count).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create category"))
		return
	}
	if count > 0 {
		Conflict(c, "a category with this name already exists")
		return
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := database.DB.Create(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create category"))
		return
	}

	SuccessWithMessage(c, "category created", category)
}

// List lists categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} Response{data=[]models.Category}
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	if err := database.DB.Order("name ASC").Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list categories"))
		return
	}
	Success(c, categories)
}

// Get fetches one category
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param category_id path string true "category id"
// @Success 200 {object} Response{data=models.Category}
// @Failure 404 {object} Response
// @Router /api/v1/categories/{category_id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "category_id")
	if !ok {
		return
	}

	var category models.Category
	if err := database.DB.First(&category, "id = ?", id).Error; err != nil {
		NotFound(c, "category not found")
		return
	}
	Success(c, category)
}

// Update updates a category
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Param category_id path string true "category id"
// @Param request body UpdateCategoryRequest true "fields to update"
// @Success 200 {object} Response{data=models.Category}
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/categories/{category_id} [patch]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "category_id")
	if !ok {
		return
	}

	var category models.Category
	if err := database.DB.First(&category, "id = ?", id).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil && *req.Name != category.Name {
		var count int64
		if err := database.DB.Unscoped().Model(&models.Category{}).
			Where("name = ? AND id <> ?", *req.Name, category.ID).
			Count(&count).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "failed to update category"))
			return
		}
		if count > 0 {
			Conflict(c, "a category with this name already exists")
			return
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&category).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "failed to update category"))
			return
		}
	}

	database.DB.First(&category, "id = ?", category.ID)
	SuccessWithMessage(c, "category updated", category)
}

// Delete soft-deletes a category
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Param category_id path string true "category id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/categories/{category_id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "category_id")
	if !ok {
		return
	}

	var category models.Category
	if err := database.DB.First(&category, "id = ?", id).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	if err := database.DB.Delete(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete category"))
		return
	}

	SuccessWithMessage(c, "category deleted", nil)
}
