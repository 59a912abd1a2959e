package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/repository"
)

type TweetHandler struct {
	tweets repository.TweetRepository
	users  repository.UserRepository
}

func NewTweetHandler(tweets repository.TweetRepository, users repository.UserRepository) *TweetHandler {
	return &TweetHandler{tweets: tweets, users: users}
}

type tweetRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *TweetHandler) Create(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errBadRequest("Content is required"))
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(c, errBadRequest("Content is required"))
		return
	}

	tweet := &models.Tweet{
		Content: content,
		OwnerID: owner.ID,
	}
	if err := h.tweets.Create(tweet); err != nil {
		respondError(c, err)
		return
	}
	tweet.Owner = owner

	respond(c, http.StatusCreated, "Tweet posted successfully!", gin.H{"tweet": tweet})
}

// ListForUser returns one page of a user's tweets, newest first, with
// like counts and whether the caller liked each one.
func (h *TweetHandler) ListForUser(c *gin.Context) {
	viewer, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	user, err := h.users.FindByID(c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.tweets.ListForUser(user.ID, viewer.ID, pageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Tweets fetched successfully", page)
}

func (h *TweetHandler) Update(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errBadRequest("Content is required"))
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(c, errBadRequest("Content is required"))
		return
	}

	tweet, err := h.tweets.FindByID(c.Param("tweetId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if tweet.OwnerID != owner.ID {
		respondError(c, errUnauthorized("You are not allowed to update this tweet"))
		return
	}

	tweet, err = h.tweets.UpdateContent(tweet.ID, content)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Tweet updated successfully!", gin.H{"tweet": tweet})
}

// Delete removes the caller's tweet and every like attached to it.
func (h *TweetHandler) Delete(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	tweet, err := h.tweets.FindByID(c.Param("tweetId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if tweet.OwnerID != owner.ID {
		respondError(c, errUnauthorized("You are not allowed to delete this tweet"))
		return
	}

	if err := h.tweets.DeleteCascade(tweet.ID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Tweet deleted successfully!", nil)
}
