package handler

import (
	"errors"
	"net/http"
	"strconv"

	"titlehub/internal/http-api/access"
	"titlehub/internal/http-api/dto"
	"titlehub/internal/http-api/middleware"
	"titlehub/internal/http-api/repository"
	"titlehub/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TitleHandler struct {
	titleService service.TitleService
}

func NewTitleHandler(titleService service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup, optionalAuth gin.HandlerFunc) {
	titles := router.Group("/titles")
	{
		titles.GET("", h.List)
		titles.GET("/:titleID", h.Get)
		titles.POST("", optionalAuth, middleware.Require(access.ActionCreate, access.ResourceTitle), h.Create)
		titles.PATCH("/:titleID", optionalAuth, middleware.Require(access.ActionUpdate, access.ResourceTitle), h.Update)
		titles.DELETE("/:titleID", optionalAuth, middleware.Require(access.ActionDelete, access.ResourceTitle), h.Delete)
	}
}

// List returns titles filtered by ?category=, ?genre=, ?name=, ?year=
// GET /api/v1/titles
func (h *TitleHandler) List(c *gin.Context) {
	page, pageSize := paginationParams(c)

	filter := repository.TitleFilter{
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
		Name:         c.Query("name"),
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year filter"})
			return
		}
		filter.Year = year
	}

	resp, err := h.titleService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list titles"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns one title with its aggregate rating
// GET /api/v1/titles/:titleID
func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "titleID")
	if !ok {
		return
	}

	resp, err := h.titleService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "title not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch title"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create adds a title
// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.titleService.Create(c.Request.Context(), req)
	if err != nil {
		respondTitleError(c, err, "failed to create title")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update applies a partial update; a genre list in the payload replaces the
// full set
// PATCH /api/v1/titles/:titleID
func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "titleID")
	if !ok {
		return
	}

	var req dto.UpdateTitleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.titleService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondTitleError(c, err, "failed to update title")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a title and its reviews
// DELETE /api/v1/titles/:titleID
func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "titleID")
	if !ok {
		return
	}

	if err := h.titleService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "title not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete title"})
		return
	}
	c.Status(http.StatusNoContent)
}

func respondTitleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrYearInFuture), errors.Is(err, service.ErrUnknownReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "title not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// pathID parses a numeric path parameter, answering 404 on garbage: a
// non-numeric id can't name an existing resource.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}
