package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/repository"
)

type PlaylistHandler struct {
	playlists repository.PlaylistRepository
	videos    repository.VideoRepository
	users     repository.UserRepository
}

func NewPlaylistHandler(playlists repository.PlaylistRepository, videos repository.VideoRepository, users repository.UserRepository) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists, videos: videos, users: users}
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *PlaylistHandler) Create(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errBadRequest("Name is required"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(c, errBadRequest("Name is required"))
		return
	}

	playlist := &models.Playlist{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		OwnerID:     owner.ID,
	}
	if err := h.playlists.Create(playlist); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Playlist created successfully!", gin.H{"playlist": playlist})
}

// ListForUser returns a user's playlists with video counts.
func (h *PlaylistHandler) ListForUser(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	user, err := h.users.FindByID(c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.playlists.ListForUser(user.ID, pageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Playlists fetched successfully", page)
}

// GetByID returns a playlist with its videos in playlist order.
func (h *PlaylistHandler) GetByID(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	playlist, err := h.playlists.FindByIDWithVideos(c.Param("playlistId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Playlist fetched successfully", gin.H{"playlist": playlist})
}

func (h *PlaylistHandler) Update(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errBadRequest("Name is required"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(c, errBadRequest("Name is required"))
		return
	}

	playlist, err := h.ownedPlaylist(c, owner.ID, "You are not allowed to update this playlist")
	if err != nil {
		respondError(c, err)
		return
	}

	playlist, err = h.playlists.Update(playlist.ID, req.Name, strings.TrimSpace(req.Description))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Playlist updated successfully!", gin.H{"playlist": playlist})
}

func (h *PlaylistHandler) Delete(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	playlist, err := h.ownedPlaylist(c, owner.ID, "You are not allowed to delete this playlist")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.playlists.Delete(playlist.ID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Playlist deleted successfully!", nil)
}

// AddVideo appends a video at the end of the caller's playlist. Adding a
// video that is already present leaves the playlist unchanged.
func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	playlist, err := h.ownedPlaylist(c, owner.ID, "You are not allowed to update this playlist")
	if err != nil {
		respondError(c, err)
		return
	}

	video, err := h.videos.FindByID(c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.playlists.AddVideo(playlist.ID, video.ID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Video added to playlist successfully", nil)
}

func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	playlist, err := h.ownedPlaylist(c, owner.ID, "You are not allowed to update this playlist")
	if err != nil {
		respondError(c, err)
		return
	}

	removed, err := h.playlists.RemoveVideo(playlist.ID, c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		respondError(c, errNotFound("Video is not in this playlist"))
		return
	}

	respond(c, http.StatusOK, "Video removed from playlist successfully", nil)
}

func (h *PlaylistHandler) ownedPlaylist(c *gin.Context, ownerID, denyMessage string) (*models.Playlist, error) {
	playlist, err := h.playlists.FindByID(c.Param("playlistId"))
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != ownerID {
		return nil, errUnauthorized(denyMessage)
	}
	return playlist, nil
}
