package handler

import (
	"net/http"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/policy"
	"reviewhub/internal/service"

	"github.com/gin-gonic/gin"
)

// adminPolicies gate the user-management surface.
var adminPolicies = policy.Set{policy.AdminOnly{}}

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user-management routes. "me" is resolved inside
// the :username handlers so the self-service route can share the tree.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:username", h.Get)
		users.PATCH("/:username", h.Update)
		users.DELETE("/:username", h.Delete)
	}
}

// List retrieves all users (admin only)
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "user.list"}
	if err := adminPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	q.Normalize()

	resp, err := h.userService.List(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create adds a user without the confirmation flow (admin only)
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "user.create"}
	if err := adminPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	var req dto.AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get retrieves a user; "me" resolves to the caller
// GET /api/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	p := middleware.Principal(c)
	username := c.Param("username")

	if username == "me" {
		h.getMe(c, p)
		return
	}

	act := policy.Action{Method: c.Request.Method, Name: "user.get"}
	if err := adminPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.userService.GetByUsername(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update edits a user; "me" edits the caller's own profile (role untouched)
// PATCH /api/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	p := middleware.Principal(c)
	username := c.Param("username")

	if username == "me" {
		h.updateMe(c, p)
		return
	}

	act := policy.Action{Method: c.Request.Method, Name: "user.update"}
	if err := adminPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	var req dto.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.userService.UpdateByUsername(c.Request.Context(), username, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a user (admin only; "me" is not deletable here)
// DELETE /api/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	p := middleware.Principal(c)
	act := policy.Action{Method: c.Request.Method, Name: "user.delete"}
	if err := adminPolicies.Request(p, act); err != nil {
		respondError(c, err)
		return
	}

	if err := h.userService.DeleteByUsername(c.Request.Context(), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *UserHandler) getMe(c *gin.Context, p policy.Principal) {
	if !p.Authenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

func (h *UserHandler) updateMe(c *gin.Context, p policy.Principal) {
	if !p.Authenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.userService.UpdateSelf(c.Request.Context(), p.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
