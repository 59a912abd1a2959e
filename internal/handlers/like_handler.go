package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/repository"
)

type LikeHandler struct {
	likes    repository.LikeRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	tweets   repository.TweetRepository
}

func NewLikeHandler(likes repository.LikeRepository, videos repository.VideoRepository, comments repository.CommentRepository, tweets repository.TweetRepository) *LikeHandler {
	return &LikeHandler{
		likes:    likes,
		videos:   videos,
		comments: comments,
		tweets:   tweets,
	}
}

// ToggleVideoLike flips the caller's like on a video. The remove runs
// first so concurrent toggles settle on at most one like per pair.
func (h *LikeHandler) ToggleVideoLike(c *gin.Context) {
	h.toggle(c, models.LikeTargetVideo, c.Param("videoId"), "Video", func(id string) error {
		_, err := h.videos.FindByID(id)
		return err
	})
}

func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
	h.toggle(c, models.LikeTargetComment, c.Param("commentId"), "Comment", func(id string) error {
		_, err := h.comments.FindByID(id)
		return err
	})
}

func (h *LikeHandler) ToggleTweetLike(c *gin.Context) {
	h.toggle(c, models.LikeTargetTweet, c.Param("tweetId"), "Tweet", func(id string) error {
		_, err := h.tweets.FindByID(id)
		return err
	})
}

// LikedVideos lists the videos the caller has liked, most recent first.
func (h *LikeHandler) LikedVideos(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	page, err := h.likes.LikedVideos(user.ID, pageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Liked videos fetched successfully", page)
}

func (h *LikeHandler) toggle(c *gin.Context, target models.LikeTarget, targetID, label string, exists func(id string) error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	removed, err := h.likes.Remove(user.ID, target, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	if removed {
		respond(c, http.StatusOK, label+" unliked successfully", gin.H{"isLiked": false})
		return
	}

	// Only verify the target on the like path; unliking a vanished
	// target already degraded to a no-op above.
	if err := exists(targetID); err != nil {
		respondError(c, errBadRequest(label+" does not exist anymore"))
		return
	}

	if err := h.likes.Add(user.ID, target, targetID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, label+" liked successfully", gin.H{"isLiked": true})
}
