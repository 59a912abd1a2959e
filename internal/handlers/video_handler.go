package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/repository"
	"vidtube/internal/services"
)

type VideoHandler struct {
	videos  repository.VideoRepository
	likes   repository.LikeRepository
	users   repository.UserRepository
	storage services.StorageService
}

func NewVideoHandler(videos repository.VideoRepository, likes repository.LikeRepository, users repository.UserRepository, storage services.StorageService) *VideoHandler {
	return &VideoHandler{
		videos:  videos,
		likes:   likes,
		users:   users,
		storage: storage,
	}
}

// Feed lists public videos with optional full-text search (?query=) and
// owner filter (?userId=), decorated with like and comment counts.
func (h *VideoHandler) Feed(c *gin.Context) {
	viewer, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	filter := repository.FeedFilter{
		Search:  strings.TrimSpace(c.Query("query")),
		OwnerID: strings.TrimSpace(c.Query("userId")),
	}

	page, err := h.videos.Feed(filter, pageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.decorateVideos(page.Docs, viewer.ID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Videos fetched successfully", page)
}

// Upload publishes a new video from a multipart form: title, description,
// a videoFile and a thumbnail, plus an optional client-measured duration.
func (h *VideoHandler) Upload(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	if title == "" || description == "" {
		respondError(c, errBadRequest("Title and description are required"))
		return
	}

	var duration float64
	if raw := strings.TrimSpace(c.PostForm("duration")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			respondError(c, errBadRequest("Duration must be a positive number of seconds"))
			return
		}
		duration = parsed
	}

	videoFile, err := c.FormFile("videoFile")
	if err != nil {
		respondError(c, errBadRequest("Video file is required"))
		return
	}
	thumbnailFile, err := c.FormFile("thumbnail")
	if err != nil {
		respondError(c, errBadRequest("Thumbnail is required"))
		return
	}

	folder := fmt.Sprintf("vidtube/video/%s", owner.Username)
	uploadedVideo, err := h.uploadFormFile(c, videoFile, folder, services.ResourceVideo)
	if err != nil {
		respondError(c, err)
		return
	}
	uploadedThumb, err := h.uploadFormFile(c, thumbnailFile, folder, services.ResourceImage)
	if err != nil {
		h.destroyQuietly(c, uploadedVideo.PublicID, services.ResourceVideo)
		respondError(c, err)
		return
	}

	video := &models.Video{
		Title:        title,
		Description:  description,
		FileID:       uploadedVideo.PublicID,
		FileURL:      uploadedVideo.URL,
		ThumbnailID:  uploadedThumb.PublicID,
		ThumbnailURL: uploadedThumb.URL,
		Duration:     duration,
		IsPublic:     true,
		OwnerID:      owner.ID,
	}

	if err := h.videos.Create(video); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Video uploaded successfully!", gin.H{"video": video})
}

// GetByID returns one video. A private video is visible only to its
// owner; anyone else gets the same 404 as a missing video. Every fetch
// counts a view and refreshes the viewer's watch history.
func (h *VideoHandler) GetByID(c *gin.Context) {
	viewer, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	video, err := h.videos.FindByIDWithOwner(c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}

	if !video.IsPublic && video.OwnerID != viewer.ID {
		respondError(c, errNotFound(repository.ErrVideoNotFound.Error()))
		return
	}

	if err := h.videos.IncrementViews(video.ID); err != nil {
		respondError(c, err)
		return
	}
	video.Views++

	if err := h.users.TouchWatchHistory(viewer.ID, video.ID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.decorateVideo(video, viewer.ID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Video fetched successfully", gin.H{"video": video})
}

// Update edits the title, description and optionally the thumbnail of a
// video owned by the caller.
func (h *VideoHandler) Update(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	video, err := h.videos.FindByID(c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if video.OwnerID != owner.ID {
		respondError(c, errUnauthorized("You are not allowed to update this video"))
		return
	}

	if title := strings.TrimSpace(c.PostForm("title")); title != "" {
		video.Title = title
	}
	if description := strings.TrimSpace(c.PostForm("description")); description != "" {
		video.Description = description
	}

	if thumbnailFile, err := c.FormFile("thumbnail"); err == nil {
		uploaded, err := h.uploadFormFile(c, thumbnailFile, fmt.Sprintf("vidtube/video/%s", owner.Username), services.ResourceImage)
		if err != nil {
			respondError(c, err)
			return
		}
		h.destroyQuietly(c, video.ThumbnailID, services.ResourceImage)
		video.ThumbnailID = uploaded.PublicID
		video.ThumbnailURL = uploaded.URL
	}

	if err := h.videos.Update(video); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Video updated successfully!", gin.H{"video": video})
}

// Delete removes a video owned by the caller along with its comments,
// likes, playlist memberships and watch history entries. The stored
// media files are cleaned up best effort.
func (h *VideoHandler) Delete(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	video, err := h.videos.FindByID(c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if video.OwnerID != owner.ID {
		respondError(c, errUnauthorized("You are not allowed to delete this video"))
		return
	}

	if err := h.videos.DeleteCascade(video.ID); err != nil {
		respondError(c, err)
		return
	}

	h.destroyQuietly(c, video.FileID, services.ResourceVideo)
	h.destroyQuietly(c, video.ThumbnailID, services.ResourceImage)

	respond(c, http.StatusOK, "Video deleted successfully!", nil)
}

// TogglePublish flips a video between public and private.
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	video, err := h.videos.FindByID(c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if video.OwnerID != owner.ID {
		respondError(c, errUnauthorized("You are not allowed to update this video"))
		return
	}

	video, err = h.videos.TogglePublishState(video.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Publish status toggled successfully", gin.H{"video": video})
}

func (h *VideoHandler) decorateVideo(video *models.Video, viewerID string) error {
	videos := []models.Video{*video}
	if err := h.decorateVideos(videos, viewerID); err != nil {
		return err
	}
	*video = videos[0]
	return nil
}

// decorateVideos fills the computed LikeCount, CommentCount and IsLiked
// fields for a batch of videos with three grouped queries.
func (h *VideoHandler) decorateVideos(videos []models.Video, viewerID string) error {
	if len(videos) == 0 {
		return nil
	}

	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}

	likeCounts, err := h.likes.CountForTargets(models.LikeTargetVideo, ids)
	if err != nil {
		return err
	}
	liked, err := h.likes.LikedSet(viewerID, models.LikeTargetVideo, ids)
	if err != nil {
		return err
	}
	commentCounts, err := h.videos.CommentCounts(ids)
	if err != nil {
		return err
	}

	for i := range videos {
		videos[i].LikeCount = likeCounts[videos[i].ID]
		videos[i].CommentCount = commentCounts[videos[i].ID]
		videos[i].IsLiked = liked[videos[i].ID]
	}
	return nil
}

func (h *VideoHandler) uploadFormFile(c *gin.Context, fileHeader *multipart.FileHeader, folder, resourceType string) (*services.UploadedFile, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return h.storage.Upload(c.Request.Context(), file, folder, resourceType)
}

func (h *VideoHandler) destroyQuietly(c *gin.Context, publicID, resourceType string) {
	if publicID == "" {
		return
	}
	if err := h.storage.Destroy(c.Request.Context(), publicID, resourceType); err != nil {
		log.Printf("failed to delete stored file %s: %v", publicID, err)
	}
}
