package handlers

import (
	"net/http"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type categoryHandler struct {
	categoryService portssvc.CategorySvc
}

func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvc) {
	h := &categoryHandler{categoryService: categoryService}

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.DELETE("/:categoryID", h.deleteCategory)
	}
}

// createCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param category body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} dto.CategoryResponse
// @Failure 409 {object} dto.ErrorResponse "Name already used"
// @Security BearerAuth
// @Router /families/{familyID}/categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "request body", err)
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), familyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCategoryResponses([]domain.Category{*category})[0])
}

// listCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param familyID path string true "Family ID"
// @Param type query string false "income or expense"
// @Success 200 {array} dto.CategoryResponse
// @Security BearerAuth
// @Router /families/{familyID}/categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	var txType *domain.TransactionType
	if raw := c.Query("type"); raw != "" {
		t := domain.TransactionType(raw)
		if t != domain.TransactionTypeIncome && t != domain.TransactionTypeExpense {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: apperrors.KindValidation, Message: "type must be income or expense"})
			return
		}
		txType = &t
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), familyID, txType, userID)
	if err != nil {
		respondError(c, logger, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponses(categories))
}

// deleteCategory godoc
// @Summary Delete a category
// @Tags categories
// @Param familyID path string true "Family ID"
// @Param categoryID path string true "Category ID"
// @Success 204 "No Content"
// @Failure 409 {object} dto.ErrorResponse "Category in use"
// @Security BearerAuth
// @Router /families/{familyID}/categories/{categoryID} [delete]
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	logger, userID, familyID, ok := familyScope(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), familyID, c.Param("categoryID"), userID); err != nil {
		respondError(c, logger, err, "delete category")
		return
	}
	c.Status(http.StatusNoContent)
}
