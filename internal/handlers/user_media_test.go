package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateAvatar(t *testing.T) {
	env := newTestEnv(t)
	_, access := env.registerAndLogin("alice")

	w := env.doJSON(http.MethodGet, "/api/v1/users/current-user", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	oldAvatar := decode(t, w).Data["user"].(map[string]interface{})["avatar"].(string)

	w = env.doMultipart(http.MethodPatch, "/api/v1/users/avatar", access, nil, map[string]string{
		"avatar": "new-avatar.png",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	user := decode(t, w).Data["user"].(map[string]interface{})
	assert.NotEqual(t, oldAvatar, user["avatar"])
	// The previous avatar was removed from storage.
	assert.Len(t, env.storage.destroyedIDs(), 1)

	// Missing file is a 400.
	w = env.doMultipart(http.MethodPatch, "/api/v1/users/avatar", access, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCoverImageLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, access := env.registerAndLogin("alice")

	w := env.doMultipart(http.MethodPatch, "/api/v1/users/cover-image", access, nil, map[string]string{
		"coverImage": "cover.png",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode(t, w).Data["user"].(map[string]interface{})
	assert.NotEmpty(t, user["coverImage"])

	w = env.doJSON(http.MethodDelete, "/api/v1/users/cover-image", access, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user = decode(t, w).Data["user"].(map[string]interface{})
	assert.Empty(t, user["coverImage"])
	assert.NotEmpty(t, env.storage.destroyedIDs())

	// Deleting again is harmless.
	w = env.doJSON(http.MethodDelete, "/api/v1/users/cover-image", access, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
