package handler

import (
	"net/http"
	"strconv"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/policy"
	"reviewhub/internal/service"

	"github.com/gin-gonic/gin"
)

// reviewPolicies: reads are public, writes belong to the author or to
// moderators/admins, decided per target object.
var reviewPolicies = policy.Set{policy.AuthorOrModeratorOrAdminOrReadOnly{}}

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes nests review routes under the titles group
func (h *ReviewHandler) RegisterRoutes(titles *gin.RouterGroup) {
	reviews := titles.Group("/:title_id/reviews")
	{
		reviews.GET("", h.List)
		reviews.POST("", h.Create)
		reviews.GET("/:review_id", h.Get)
		reviews.PATCH("/:review_id", h.Update)
		reviews.DELETE("/:review_id", h.Delete)
	}
}

// List retrieves a title's reviews
// GET /api/titles/:title_id/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "review.list"}
	if err := reviewPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	titleID, ok := paramInt64(c, "title_id")
	if !ok {
		return
	}

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	q.Normalize()

	resp, err := h.reviewService.List(c.Request.Context(), titleID, q.Limit, q.Offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get retrieves one review scoped to its title
// GET /api/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Get(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "review.get"}
	if err := reviewPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	titleID, ok := paramInt64(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramInt64(c, "review_id")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToReviewResponse(review))
}

// Create submits the caller's review for a title; one per (author, title)
// POST /api/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "review.create"}
	if err := reviewPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	titleID, ok := paramInt64(c, "title_id")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.reviewService.Create(c.Request.Context(), titleID, p.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update edits a review, gated per object
// PATCH /api/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Update(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "review.update"}
	if err := reviewPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	titleID, ok := paramInt64(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramInt64(c, "review_id")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := reviewPolicies.Object(p, act, review.AuthorID); err != nil {
		respondError(c, err)
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.reviewService.Update(c.Request.Context(), review, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a review and its comments, gated per object
// DELETE /api/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Delete(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "review.delete"}
	if err := reviewPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	titleID, ok := paramInt64(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramInt64(c, "review_id")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := reviewPolicies.Object(p, act, review.AuthorID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// paramInt64 parses a numeric path param, answering 400 itself on garbage.
func paramInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}
