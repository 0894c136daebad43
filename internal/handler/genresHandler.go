package handler

import (
	"net/http"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/policy"
	"reviewhub/internal/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	genreService service.GenreService
}

func NewGenreHandler(genreService service.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

// RegisterRoutes registers genre taxonomy routes
func (h *GenreHandler) RegisterRoutes(router *gin.RouterGroup) {
	genres := router.Group("/genres")
	{
		genres.GET("", h.List)
		genres.POST("", h.Create)
		genres.DELETE("/:slug", h.Delete)
	}
}

// List retrieves genres (public)
// GET /api/genres
func (h *GenreHandler) List(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "genre.list"}
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

	resp, err := h.genreService.GetAll(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create adds a genre (admin only)
// POST /api/genres
func (h *GenreHandler) Create(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "genre.create"}
	if err := catalogPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	var req dto.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.genreService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Delete removes a genre and its title links (admin only)
// DELETE /api/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "genre.delete"}
	if err := catalogPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	if err := h.genreService.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
