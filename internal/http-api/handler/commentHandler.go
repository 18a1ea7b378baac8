package handler

import (
	"errors"
	"net/http"

	"titlehub/internal/http-api/access"
	"titlehub/internal/http-api/dto"
	"titlehub/internal/http-api/middleware"
	"titlehub/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup, authRequired, optionalAuth gin.HandlerFunc) {
	comments := router.Group("/titles/:titleID/reviews/:reviewID/comments")
	{
		comments.GET("", h.List)
		comments.GET("/:commentID", h.Get)
		comments.POST("", authRequired, h.Create)
		comments.PATCH("/:commentID", optionalAuth, h.Update)
		comments.DELETE("/:commentID", optionalAuth, h.Delete)
	}
}

// List returns a review's comments, newest first
// GET /api/v1/titles/:titleID/reviews/:reviewID/comments
func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	resp, err := h.commentService.ListByReview(c.Request.Context(), titleID, reviewID, page, pageSize)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns one comment
// GET /api/v1/titles/:titleID/reviews/:reviewID/comments/:commentID
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentID")
	if !ok {
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch comment"})
		return
	}
	c.JSON(http.StatusOK, dto.CommentFromModel(comment))
}

// Create posts a comment under a review
// POST /api/v1/titles/:titleID/reviews/:reviewID/comments
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}

	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.commentService.Create(c.Request.Context(), titleID, reviewID, middleware.CurrentUser(c).ID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update edits a comment; author, moderator, or admin
// PATCH /api/v1/titles/:titleID/reviews/:reviewID/comments/:commentID
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentID")
	if !ok {
		return
	}

	var req dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch comment"})
		return
	}

	if !access.Allow(access.ActionUpdate, access.ResourceComment, middleware.Caller(c), comment.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	resp, err := h.commentService.Update(c.Request.Context(), comment, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update comment"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a comment; author, moderator, or admin
// DELETE /api/v1/titles/:titleID/reviews/:reviewID/comments/:commentID
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentID")
	if !ok {
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch comment"})
		return
	}

	if !access.Allow(access.ActionDelete, access.ResourceComment, middleware.Caller(c), comment.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), commentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		return
	}
	c.Status(http.StatusNoContent)
}

func reviewPath(c *gin.Context) (titleID, reviewID int64, ok bool) {
	titleID, ok = pathID(c, "titleID")
	if !ok {
		return 0, 0, false
	}
	reviewID, ok = pathID(c, "reviewID")
	if !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}
