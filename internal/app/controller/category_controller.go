package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/pkg/response"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// GET /api/v1/categories
func (ctrl *CategoryController) GetTree(c *gin.Context) {
	categories, err := ctrl.categoryService.GetTree()
	if err != nil {
		respondError(c, err, "list categories")
		return
	}
	response.OK(c, categories)
}

// GET /api/v1/categories/:slug
func (ctrl *CategoryController) GetBySlug(c *gin.Context) {
	category, err := ctrl.categoryService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err, "category")
		return
	}
	response.OK(c, category)
}

// GET /api/v1/admin/categories
func (ctrl *CategoryController) ListAll(c *gin.Context) {
	categories, err := ctrl.categoryService.GetAll()
	if err != nil {
		respondError(c, err, "list categories")
		return
	}
	response.OK(c, categories)
}

// POST /api/v1/admin/categories
func (ctrl *CategoryController) Create(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	category, err := ctrl.categoryService.Create(req)
	if err != nil {
		respondError(c, err, "create category")
		return
	}
	response.Created(c, category)
}

// PUT /api/v1/admin/categories/:id
func (ctrl *CategoryController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	category, err := ctrl.categoryService.Update(id, req)
	if err != nil {
		respondError(c, err, "update category")
		return
	}
	response.OK(c, category)
}

// DELETE /api/v1/admin/categories/:id
func (ctrl *CategoryController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.Delete(id); err != nil {
		respondError(c, err, "delete category")
		return
	}
	response.Message(c, "Category deleted")
}
