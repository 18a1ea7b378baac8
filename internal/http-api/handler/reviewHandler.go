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

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes nests reviews under their title. Update and delete depend on
// who owns the review, so those checks live in the handlers.
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup, authRequired, optionalAuth gin.HandlerFunc) {
	reviews := router.Group("/titles/:titleID/reviews")
	{
		reviews.GET("", h.List)
		reviews.GET("/:reviewID", h.Get)
		reviews.POST("", authRequired, h.Create)
		reviews.PATCH("/:reviewID", optionalAuth, h.Update)
		reviews.DELETE("/:reviewID", optionalAuth, h.Delete)
	}
}

// List returns a title's reviews, newest first
// GET /api/v1/titles/:titleID/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := pathID(c, "titleID")
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	resp, err := h.reviewService.ListByTitle(c.Request.Context(), titleID, page, pageSize)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "title not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns one review
// GET /api/v1/titles/:titleID/reviews/:reviewID
func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := pathID(c, "titleID")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "reviewID")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch review"})
		return
	}
	c.JSON(http.StatusOK, dto.ReviewFromModel(review))
}

// Create posts the caller's review of a title; one per author per title
// POST /api/v1/titles/:titleID/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := pathID(c, "titleID")
	if !ok {
		return
	}

	var req dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.reviewService.Create(c.Request.Context(), titleID, middleware.CurrentUser(c).ID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateReview):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "title not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update edits a review; author, moderator, or admin
// PATCH /api/v1/titles/:titleID/reviews/:reviewID
func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := pathID(c, "titleID")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "reviewID")
	if !ok {
		return
	}

	var req dto.UpdateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch review"})
		return
	}

	if !access.Allow(access.ActionUpdate, access.ResourceReview, middleware.Caller(c), review.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	resp, err := h.reviewService.Update(c.Request.Context(), review, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update review"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a review and its comments; author, moderator, or admin
// DELETE /api/v1/titles/:titleID/reviews/:reviewID
func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := pathID(c, "titleID")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "reviewID")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch review"})
		return
	}

	if !access.Allow(access.ActionDelete, access.ResourceReview, middleware.Caller(c), review.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), reviewID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete review"})
		return
	}
	c.Status(http.StatusNoContent)
}
