package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/models"
)

func addComment(t *testing.T, env *testEnv, token, videoID, content string) string {
	t.Helper()
	w := env.doJSON(http.MethodPost, "/api/v1/comments/"+videoID, token, map[string]string{
		"content": content,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w).Data["comment"].(map[string]interface{})["id"].(string)
}

func TestCommentCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	_, owner := env.registerAndLogin("alice")
	_, fan := env.registerAndLogin("bob")

	videoID := env.uploadVideo(owner, "Commented")

	addComment(t, env, fan, videoID, "first comment")
	commentID := addComment(t, env, fan, videoID, "second comment")

	w := env.doJSON(http.MethodPost, "/api/v1/likes/toggle/c/"+commentID, fan, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(http.MethodGet, "/api/v1/comments/"+videoID, fan, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, float64(2), body.Data["totalDocs"])

	docs := body.Data["docs"].([]interface{})
	require.Len(t, docs, 2)

	// Newest first, with like data and the owner embedded.
	newest := docs[0].(map[string]interface{})
	assert.Equal(t, "second comment", newest["content"])
	assert.Equal(t, float64(1), newest["likeCount"])
	assert.Equal(t, true, newest["isLiked"])
	assert.Equal(t, "bob", newest["owner"].(map[string]interface{})["username"])
}

func TestCommentContentValidated(t *testing.T) {
	env := newTestEnv(t)
	_, access := env.registerAndLogin("alice")
	videoID := env.uploadVideo(access, "Strict")

	w := env.doJSON(http.MethodPost, "/api/v1/comments/"+videoID, access, map[string]string{
		"content": "hi",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(http.MethodPost, "/api/v1/comments/"+videoID, access, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentOnMissingVideoRejected(t *testing.T) {
	env := newTestEnv(t)
	_, access := env.registerAndLogin("alice")

	w := env.doJSON(http.MethodPost, "/api/v1/comments/no-such-video", access, map[string]string{
		"content": "into the void",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentUpdateOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	_, owner := env.registerAndLogin("alice")
	_, intruder := env.registerAndLogin("bob")

	videoID := env.uploadVideo(owner, "Video")
	commentID := addComment(t, env, owner, videoID, "original text")

	w := env.doJSON(http.MethodPatch, "/api/v1/comments/c/"+commentID, intruder, map[string]string{
		"content": "vandalized",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(http.MethodPatch, "/api/v1/comments/c/"+commentID, owner, map[string]string{
		"content": "edited text",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "edited text", decode(t, w).Data["comment"].(map[string]interface{})["content"])
}

func TestCommentDeleteCascadesLikes(t *testing.T) {
	env := newTestEnv(t)
	_, owner := env.registerAndLogin("alice")
	_, fan := env.registerAndLogin("bob")

	videoID := env.uploadVideo(owner, "Video")
	commentID := addComment(t, env, fan, videoID, "soon gone")

	w := env.doJSON(http.MethodPost, "/api/v1/likes/toggle/c/"+commentID, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Only the author may delete.
	w = env.doJSON(http.MethodDelete, "/api/v1/comments/c/"+commentID, owner, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(http.MethodDelete, "/api/v1/comments/c/"+commentID, fan, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var commentLikes int64
	require.NoError(t, env.db.Model(&models.Like{}).
		Where("target_type = ?", models.LikeTargetComment).
		Count(&commentLikes).Error)
	assert.Zero(t, commentLikes)

	w = env.doJSON(http.MethodGet, "/api/v1/comments/"+videoID, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w).Data["totalDocs"])
}
