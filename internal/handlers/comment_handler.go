package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/repository"
)

type CommentHandler struct {
	comments repository.CommentRepository
	videos   repository.VideoRepository
}

func NewCommentHandler(comments repository.CommentRepository, videos repository.VideoRepository) *CommentHandler {
	return &CommentHandler{comments: comments, videos: videos}
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListForVideo returns one page of a video's comments, newest first.
func (h *CommentHandler) ListForVideo(c *gin.Context) {
	viewer, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	video, err := h.videos.FindByID(c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.comments.ListForVideo(video.ID, viewer.ID, pageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Comments fetched successfully", page)
}

func (h *CommentHandler) Create(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errBadRequest("Content is required"))
		return
	}
	if err := validateCommentContent(req.Content); err != nil {
		respondError(c, err)
		return
	}

	video, err := h.videos.FindByID(c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}

	comment := &models.Comment{
		Content: strings.TrimSpace(req.Content),
		VideoID: video.ID,
		OwnerID: owner.ID,
	}
	if err := h.comments.Create(comment); err != nil {
		respondError(c, err)
		return
	}
	comment.Owner = owner

	respond(c, http.StatusCreated, "Comment added successfully!", gin.H{"comment": comment})
}

func (h *CommentHandler) Update(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errBadRequest("Content is required"))
		return
	}
	if err := validateCommentContent(req.Content); err != nil {
		respondError(c, err)
		return
	}

	comment, err := h.comments.FindByID(c.Param("commentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if comment.OwnerID != owner.ID {
		respondError(c, errUnauthorized("You are not allowed to update this comment"))
		return
	}

	comment, err = h.comments.UpdateContent(comment.ID, strings.TrimSpace(req.Content))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Comment updated successfully!", gin.H{"comment": comment})
}

// Delete removes the caller's comment and every like attached to it.
func (h *CommentHandler) Delete(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	comment, err := h.comments.FindByID(c.Param("commentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if comment.OwnerID != owner.ID {
		respondError(c, errUnauthorized("You are not allowed to delete this comment"))
		return
	}

	if err := h.comments.DeleteCascade(comment.ID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Comment deleted successfully!", nil)
}
