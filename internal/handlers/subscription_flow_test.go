package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toggleSubscription(t *testing.T, env *testEnv, token, channelID string) *envelope {
	t.Helper()
	w := env.doJSON(http.MethodPost, "/api/v1/subscriptions/c/"+channelID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	return &body
}

func TestSubscriptionToggle(t *testing.T) {
	env := newTestEnv(t)
	channelID, _ := env.registerAndLogin("channel")
	_, fan := env.registerAndLogin("fan")

	body := toggleSubscription(t, env, fan, channelID)
	assert.Equal(t, true, body.Data["isSubscribed"])

	// Subscribed channels now lists the channel.
	w := env.doJSON(http.MethodGet, "/api/v1/subscriptions/channels", fan, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	respBody := decode(t, w)
	assert.Equal(t, float64(1), respBody.Data["totalDocs"])
	docs := respBody.Data["docs"].([]interface{})
	require.Len(t, docs, 1)
	channel := docs[0].(map[string]interface{})["channel"].(map[string]interface{})
	assert.Equal(t, "channel", channel["username"])

	// Second toggle unsubscribes and empties the listing.
	body = toggleSubscription(t, env, fan, channelID)
	assert.Equal(t, false, body.Data["isSubscribed"])

	w = env.doJSON(http.MethodGet, "/api/v1/subscriptions/channels", fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w).Data["totalDocs"])
}

func TestSelfSubscriptionRejected(t *testing.T) {
	env := newTestEnv(t)
	userID, access := env.registerAndLogin("loner")

	w := env.doJSON(http.MethodPost, "/api/v1/subscriptions/c/"+userID, access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeMissingChannelRejected(t *testing.T) {
	env := newTestEnv(t)
	_, access := env.registerAndLogin("fan")

	w := env.doJSON(http.MethodPost, "/api/v1/subscriptions/c/"+uuid.NewString(), access, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Message, "does not exist anymore")
}

func TestChannelSubscribersListing(t *testing.T) {
	env := newTestEnv(t)
	channelID, channelToken := env.registerAndLogin("channel")
	_, fan1 := env.registerAndLogin("fanone")
	_, fan2 := env.registerAndLogin("fantwo")

	toggleSubscription(t, env, fan1, channelID)
	toggleSubscription(t, env, fan2, channelID)

	w := env.doJSON(http.MethodGet, "/api/v1/subscriptions/subscribers", channelToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), decode(t, w).Data["totalDocs"])
}

func TestChannelProfileCounters(t *testing.T) {
	env := newTestEnv(t)
	channelID, channelToken := env.registerAndLogin("channel")
	_, fan := env.registerAndLogin("fan")

	toggleSubscription(t, env, fan, channelID)

	w := env.doJSON(http.MethodGet, "/api/v1/users/c/channel", fan, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	profile := decode(t, w).Data["channel"].(map[string]interface{})
	assert.Equal(t, float64(1), profile["subscriberCount"])
	assert.Equal(t, true, profile["isSubscribed"])

	// The channel owner viewing their own page is not "subscribed".
	w = env.doJSON(http.MethodGet, "/api/v1/users/c/channel", channelToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile = decode(t, w).Data["channel"].(map[string]interface{})
	assert.Equal(t, float64(1), profile["subscriberCount"])
	assert.Equal(t, false, profile["isSubscribed"])

	w = env.doJSON(http.MethodGet, "/api/v1/users/c/ghostchannel", fan, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
