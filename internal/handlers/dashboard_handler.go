package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/middleware"
	"vidtube/internal/repository"
)

type DashboardHandler struct {
	videos        repository.VideoRepository
	subscriptions repository.SubscriptionRepository
}

func NewDashboardHandler(videos repository.VideoRepository, subscriptions repository.SubscriptionRepository) *DashboardHandler {
	return &DashboardHandler{videos: videos, subscriptions: subscriptions}
}

// Stats aggregates the caller's channel counters: total videos, views,
// likes across all their videos and subscribers.
func (h *DashboardHandler) Stats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	stats, err := h.videos.Stats(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	subscribers, err := h.subscriptions.CountSubscribers(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Channel stats fetched successfully", gin.H{
		"totalVideos":      stats.TotalVideos,
		"totalViews":       stats.TotalViews,
		"totalLikes":       stats.TotalLikes,
		"totalSubscribers": subscribers,
	})
}

// Videos lists every video of the caller's channel, public and private,
// with like and comment counts.
func (h *DashboardHandler) Videos(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	page, err := h.videos.ChannelVideos(user.ID, pageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Channel videos fetched successfully", page)
}
