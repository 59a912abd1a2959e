package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toggleVideoLike(t *testing.T, env *testEnv, token, videoID string) bool {
	t.Helper()
	w := env.doJSON(http.MethodPost, "/api/v1/likes/toggle/v/"+videoID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w).Data["isLiked"].(bool)
}

func TestVideoLikeToggleParity(t *testing.T) {
	env := newTestEnv(t)
	_, access := env.registerAndLogin("alice")
	videoID := env.uploadVideo(access, "Toggled")

	// Odd number of toggles ends liked, even number ends unliked.
	assert.True(t, toggleVideoLike(t, env, access, videoID))
	assert.False(t, toggleVideoLike(t, env, access, videoID))
	assert.True(t, toggleVideoLike(t, env, access, videoID))

	video := getVideo(t, env, access, videoID)
	assert.Equal(t, float64(1), video["likeCount"])
	assert.Equal(t, true, video["isLiked"])

	assert.False(t, toggleVideoLike(t, env, access, videoID))
	video = getVideo(t, env, access, videoID)
	assert.Equal(t, float64(0), video["likeCount"])
	assert.Equal(t, false, video["isLiked"])
}

func TestLikeCountsArePerViewer(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.registerAndLogin("alice")
	_, bob := env.registerAndLogin("bob")
	videoID := env.uploadVideo(alice, "Popular")

	toggleVideoLike(t, env, alice, videoID)
	toggleVideoLike(t, env, bob, videoID)

	video := getVideo(t, env, alice, videoID)
	assert.Equal(t, float64(2), video["likeCount"])
	assert.Equal(t, true, video["isLiked"])

	toggleVideoLike(t, env, bob, videoID)
	video = getVideo(t, env, bob, videoID)
	assert.Equal(t, float64(1), video["likeCount"])
	assert.Equal(t, false, video["isLiked"])
}

func TestLikeMissingTargetRejected(t *testing.T) {
	env := newTestEnv(t)
	_, access := env.registerAndLogin("alice")

	w := env.doJSON(http.MethodPost, "/api/v1/likes/toggle/v/"+uuid.NewString(), access, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Message, "does not exist anymore")

	w = env.doJSON(http.MethodPost, "/api/v1/likes/toggle/c/"+uuid.NewString(), access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(http.MethodPost, "/api/v1/likes/toggle/t/"+uuid.NewString(), access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLikedVideosListing(t *testing.T) {
	env := newTestEnv(t)
	_, access := env.registerAndLogin("alice")

	first := env.uploadVideo(access, "First")
	second := env.uploadVideo(access, "Second")
	env.uploadVideo(access, "Never Liked")

	toggleVideoLike(t, env, access, first)
	toggleVideoLike(t, env, access, second)

	w := env.doJSON(http.MethodGet, "/api/v1/likes/videos", access, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, float64(2), body.Data["totalDocs"])

	docs := body.Data["docs"].([]interface{})
	require.Len(t, docs, 2)
	for _, doc := range docs {
		video := doc.(map[string]interface{})
		assert.Contains(t, []string{first, second}, video["id"])
		assert.Equal(t, true, video["isLiked"])
	}

	// Unliking removes it from the listing.
	toggleVideoLike(t, env, access, first)
	w = env.doJSON(http.MethodGet, "/api/v1/likes/videos", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w).Data["totalDocs"])
}

func TestTweetLikeToggle(t *testing.T) {
	env := newTestEnv(t)
	userID, access := env.registerAndLogin("alice")

	w := env.doJSON(http.MethodPost, "/api/v1/tweets/", access, map[string]string{
		"content": "hello world",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tweetID := decode(t, w).Data["tweet"].(map[string]interface{})["id"].(string)

	w = env.doJSON(http.MethodPost, "/api/v1/likes/toggle/t/"+tweetID, access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w).Data["isLiked"])

	w = env.doJSON(http.MethodGet, "/api/v1/tweets/user/"+userID, access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	docs := decode(t, w).Data["docs"].([]interface{})
	require.Len(t, docs, 1)
	tweet := docs[0].(map[string]interface{})
	assert.Equal(t, float64(1), tweet["likeCount"])
	assert.Equal(t, true, tweet["isLiked"])
}
