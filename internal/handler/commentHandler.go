package handler

import (
	"net/http"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/policy"
	"reviewhub/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes registers comment routes under /reviews
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/reviews/:review_id/comments")
	{
		comments.GET("", h.List)
		comments.POST("", h.Create)
		comments.GET("/:comment_id", h.Get)
		comments.PATCH("/:comment_id", h.Update)
		comments.DELETE("/:comment_id", h.Delete)
	}
}

// List retrieves a review's comments, newest first
// GET /api/reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "comment.list"}
	if err := reviewPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	reviewID, ok := paramInt64(c, "review_id")
	if !ok {
		return
	}

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	q.Normalize()

	resp, err := h.commentService.List(c.Request.Context(), reviewID, q.Limit, q.Offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get retrieves one comment scoped to its review
// GET /api/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "comment.get"}
	if err := reviewPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	reviewID, ok := paramInt64(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := paramInt64(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCommentResponse(comment))
}

// Create adds the caller's comment to a review
// POST /api/reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "comment.create"}
	if err := reviewPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	reviewID, ok := paramInt64(c, "review_id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.commentService.Create(c.Request.Context(), reviewID, p.UserID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update edits a comment, gated per object
// PATCH /api/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "comment.update"}
	if err := reviewPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	reviewID, ok := paramInt64(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := paramInt64(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := reviewPolicies.Object(p, act, comment.AuthorID); err != nil {
		respondError(c, err)
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.commentService.Update(c.Request.Context(), comment, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a comment, gated per object
// DELETE /api/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "comment.delete"}
	if err := reviewPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	reviewID, ok := paramInt64(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := paramInt64(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := reviewPolicies.Object(p, act, comment.AuthorID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
