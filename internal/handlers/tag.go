package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/todoloop/todo-api/internal/dto"
	apierrors "github.com/todoloop/todo-api/internal/errors"
	"github.com/todoloop/todo-api/internal/services"
)

// TagHandler coordinates tag HTTP handlers. Tags are global, so no handler
// here scopes by owner; the auth middleware still gates every route.
type TagHandler struct {
	tagService *services.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
	}
}

// ListTags returns all tags with todo counts
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.ListTags()
	if err != nil {
		respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": dto.ToTagWithCountDTOs(tags),
	})
}

// PopularTags returns the most-used tags
func (h *TagHandler) PopularTags(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	tags, err := h.tagService.PopularTags(limit)
	if err != nil {
		respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": dto.ToTagWithCountDTOs(tags),
	})
}

// SearchTags matches tag names case-insensitively
func (h *TagHandler) SearchTags(c *gin.Context) {
	tags, err := h.tagService.SearchTags(c.Query("q"))
	if err != nil {
		respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": dto.ToTagWithCountDTOs(tags),
	})
}

// CreateTag creates a tag, or returns the existing one with the same name
func (h *TagHandler) CreateTag(c *gin.Context) {
	type CreateTagRequest struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tag, err := h.tagService.CreateTag(services.CreateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondTagError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTagDTO(*tag))
}

// UpdateTag applies a partial update to a tag
func (h *TagHandler) UpdateTag(c *gin.Context) {
	type UpdateTagRequest struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tag, err := h.tagService.UpdateTag(c.Param("id"), services.UpdateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTagDTO(*tag))
}

// DeleteTag removes a tag and all its associations
func (h *TagHandler) DeleteTag(c *gin.Context) {
	if err := h.tagService.DeleteTag(c.Param("id")); err != nil {
		respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tag deleted successfully",
	})
}

func respondTagError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTagNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTagNameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrTagNameRequired),
		errors.Is(err, services.ErrSearchQueryEmpty),
		errors.Is(err, services.ErrInvalidColor):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
