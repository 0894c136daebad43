package handler

import (
	"net/http"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/policy"
	"reviewhub/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes registers category taxonomy routes
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.List)
		categories.POST("", h.Create)
		categories.DELETE("/:slug", h.Delete)
	}
}

// List retrieves categories (public)
// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "category.list"}
	if err := catalogPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	q.Normalize()

	resp, err := h.categoryService.GetAll(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create adds a category (admin only)
// POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "category.create"}
	if err := catalogPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Delete removes a category; its titles survive with a null category link
// DELETE /api/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "category.delete"}
	if err := catalogPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	if err := h.categoryService.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
