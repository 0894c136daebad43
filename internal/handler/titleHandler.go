package handler

import (
	"net/http"
	"strconv"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/policy"
	"reviewhub/internal/repository"
	"reviewhub/internal/service"

	"github.com/gin-gonic/gin"
)

// catalogPolicies: anyone may read, only admins may mutate.
var catalogPolicies = policy.Set{policy.ReadOnly{}, policy.AdminOnly{}}

type TitleHandler struct {
	titleService service.TitleService
}

func NewTitleHandler(titleService service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

// RegisterRoutes registers title catalog routes
func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup) {
	titles := router.Group("/titles")
	{
		titles.GET("", h.List)
		titles.POST("", h.Create)
		titles.GET("/:title_id", h.Get)
		titles.PATCH("/:title_id", h.Update)
		titles.DELETE("/:title_id", h.Delete)
	}
}

// List retrieves titles with optional filters
// GET /api/titles?category=&genre=&name=&year=&limit=&offset=
func (h *TitleHandler) List(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "title.list"}
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

	filter := repository.TitleFilter{
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
		Name:         c.Query("name"),
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"field_errors": gin.H{"year": []string{"must be an integer"}}})
			return
		}
		filter.Year = &year
	}

	resp, err := h.titleService.List(c.Request.Context(), filter, q.Limit, q.Offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get retrieves a single title with its computed rating
// GET /api/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "title.get"}
	if err := catalogPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	titleID, err := strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return
	}

	resp, err := h.titleService.GetByID(c.Request.Context(), titleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create adds a title (admin only)
// POST /api/titles
func (h *TitleHandler) Create(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "title.create"}
	if err := catalogPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	var req dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.titleService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update partially edits a title (admin only)
// PATCH /api/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "title.update"}
	if err := catalogPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	titleID, err := strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.titleService.Update(c.Request.Context(), titleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a title and cascades to its reviews and comments (admin only)
// DELETE /api/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "title.delete"}
	if err := catalogPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	titleID, err := strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return
	}

	if err := h.titleService.Delete(c.Request.Context(), titleID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
