package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitify-app/fitify-api/internal/models"
	"github.com/fitify-app/fitify-api/internal/service"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
	"github.com/fitify-app/fitify-api/pkg/response"
)

// ForumHandler exposes community forum endpoints.
type ForumHandler struct {
	forum *service.ForumService
}

// NewForumHandler constructs ForumHandler.
func NewForumHandler(forum *service.ForumService) *ForumHandler {
	return &ForumHandler{forum: forum}
}

// List godoc
// @Summary List forum posts
// @Tags Forum
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /forum [get]
func (h *ForumHandler) List(c *gin.Context) {
	var filter models.ForumFilter
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "6")); err == nil {
		filter.PageSize = size
	}

	posts, pagination, err := h.forum.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, pagination)
}

// Latest godoc
// @Summary List the most recent posts
// @Tags Forum
// @Produce json
// @Param limit query int false "Result size"
// @Success 200 {object} response.Envelope
// @Router /forum/latest [get]
func (h *ForumHandler) Latest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	posts, err := h.forum.Latest(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, nil)
}

// Get godoc
// @Summary Get a forum post
// @Tags Forum
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Envelope
// @Router /forum/{id} [get]
func (h *ForumHandler) Get(c *gin.Context) {
	post, err := h.forum.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post, nil)
}

// Create godoc
// @Summary Publish a forum post
// @Tags Forum
// @Accept json
// @Produce json
// @Param payload body service.CreateForumPostRequest true "Post payload"
// @Success 201 {object} response.Envelope
// @Router /forum [post]
func (h *ForumHandler) Create(c *gin.Context) {
	var req service.CreateForumPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if claims := claimsFromContext(c); claims != nil {
		// the token is authoritative for who is posting
		req.AuthorEmail = claims.Email
		req.AuthorRole = claims.Role
	}

	post, err := h.forum.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// Vote godoc
// @Summary Cast, switch, or retract a vote on a post
// @Tags Forum
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param payload body service.VoteRequest true "Vote payload"
// @Success 200 {object} response.Envelope
// @Router /forum/{id}/vote [post]
func (h *ForumHandler) Vote(c *gin.Context) {
	var req service.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if claims := claimsFromContext(c); claims != nil {
		req.VoterEmail = claims.Email
	}

	post, err := h.forum.Vote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post, nil)
}
