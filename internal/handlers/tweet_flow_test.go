package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postTweet(t *testing.T, env *testEnv, token, content string) string {
	t.Helper()
	w := env.doJSON(http.MethodPost, "/api/v1/tweets/", token, map[string]string{
		"content": content,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w).Data["tweet"].(map[string]interface{})["id"].(string)
}

func TestTweetCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	userID, access := env.registerAndLogin("alice")

	postTweet(t, env, access, "first tweet")
	postTweet(t, env, access, "second tweet")

	w := env.doJSON(http.MethodGet, "/api/v1/tweets/user/"+userID, access, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, float64(2), body.Data["totalDocs"])
	docs := body.Data["docs"].([]interface{})
	require.Len(t, docs, 2)
	assert.Equal(t, "second tweet", docs[0].(map[string]interface{})["content"])
}

func TestTweetContentRequired(t *testing.T) {
	env := newTestEnv(t)
	_, access := env.registerAndLogin("alice")

	w := env.doJSON(http.MethodPost, "/api/v1/tweets/", access, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(http.MethodPost, "/api/v1/tweets/", access, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTweetUpdateAndDeleteOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	_, author := env.registerAndLogin("alice")
	_, intruder := env.registerAndLogin("bob")

	tweetID := postTweet(t, env, author, "my hot take")

	w := env.doJSON(http.MethodPatch, "/api/v1/tweets/"+tweetID, intruder, map[string]string{
		"content": "rewritten",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(http.MethodDelete, "/api/v1/tweets/"+tweetID, intruder, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(http.MethodPatch, "/api/v1/tweets/"+tweetID, author, map[string]string{
		"content": "cooler take",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cooler take", decode(t, w).Data["tweet"].(map[string]interface{})["content"])

	w = env.doJSON(http.MethodDelete, "/api/v1/tweets/"+tweetID, author, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(http.MethodDelete, "/api/v1/tweets/"+tweetID, author, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
