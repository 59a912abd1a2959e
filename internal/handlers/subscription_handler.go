package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/middleware"
	"vidtube/internal/repository"
)

type SubscriptionHandler struct {
	subscriptions repository.SubscriptionRepository
	users         repository.UserRepository
}

func NewSubscriptionHandler(subscriptions repository.SubscriptionRepository, users repository.UserRepository) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions, users: users}
}

// Toggle subscribes the caller to a channel, or unsubscribes if already
// subscribed. Self-subscription is rejected.
func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	channelID := c.Param("channelId")
	if channelID == user.ID {
		respondError(c, errBadRequest("You cannot subscribe to your own channel"))
		return
	}

	removed, err := h.subscriptions.Remove(user.ID, channelID)
	if err != nil {
		respondError(c, err)
		return
	}
	if removed {
		respond(c, http.StatusOK, "Unsubscribed successfully", gin.H{"isSubscribed": false})
		return
	}

	if _, err := h.users.FindByID(channelID); err != nil {
		respondError(c, errBadRequest("Channel does not exist anymore"))
		return
	}

	if err := h.subscriptions.Add(user.ID, channelID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Subscribed successfully", gin.H{"isSubscribed": true})
}

// SubscribedChannels lists the channels the caller subscribes to.
func (h *SubscriptionHandler) SubscribedChannels(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	page, err := h.subscriptions.SubscribedChannels(user.ID, pageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Subscribed channels fetched successfully", page)
}

// ChannelSubscribers lists the subscribers of the caller's channel.
func (h *SubscriptionHandler) ChannelSubscribers(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	page, err := h.subscriptions.ChannelSubscribers(user.ID, pageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Channel subscribers fetched successfully", page)
}
