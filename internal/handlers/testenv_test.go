package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vidtube/internal/config"
	"vidtube/internal/database"
	"vidtube/internal/handlers"
	"vidtube/internal/repository"
	"vidtube/internal/routes"
	"vidtube/internal/services"
)

const testPassword = "Password1"

// fakeStorage stands in for the object store so handler tests never
// leave the process. Uploads get deterministic fake URLs; destroyed ids
// are recorded for assertions.
type fakeStorage struct {
	mu        sync.Mutex
	uploads   int
	destroyed []string
}

func (f *fakeStorage) Upload(ctx context.Context, file io.Reader, folder, resourceType string) (*services.UploadedFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	id := fmt.Sprintf("%s/%s", folder, uuid.NewString())
	return &services.UploadedFile{
		PublicID: id,
		URL:      "https://files.test/" + id,
	}, nil
}

func (f *fakeStorage) Destroy(ctx context.Context, publicID, resourceType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func (f *fakeStorage) destroyedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.destroyed...)
}

type testEnv struct {
	t       *testing.T
	router  *gin.Engine
	db      *gorm.DB
	storage *fakeStorage

	users         repository.UserRepository
	videos        repository.VideoRepository
	comments      repository.CommentRepository
	tweets        repository.TweetRepository
	likes         repository.LikeRepository
	subscriptions repository.SubscriptionRepository
	playlists     repository.PlaylistRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Env:                "test",
		AccessTokenSecret:  "test-access-secret",
		RefreshTokenSecret: "test-refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
	}

	env := &testEnv{
		t:       t,
		db:      db,
		storage: &fakeStorage{},

		users:         repository.NewUserRepository(db),
		videos:        repository.NewVideoRepository(db),
		comments:      repository.NewCommentRepository(db),
		tweets:        repository.NewTweetRepository(db),
		likes:         repository.NewLikeRepository(db),
		subscriptions: repository.NewSubscriptionRepository(db),
		playlists:     repository.NewPlaylistRepository(db),
	}

	tokens := services.NewTokenService(cfg)
	h := routes.Handlers{
		Users:         handlers.NewUserHandler(env.users, tokens, env.storage, cfg),
		Videos:        handlers.NewVideoHandler(env.videos, env.likes, env.users, env.storage),
		Comments:      handlers.NewCommentHandler(env.comments, env.videos),
		Likes:         handlers.NewLikeHandler(env.likes, env.videos, env.comments, env.tweets),
		Subscriptions: handlers.NewSubscriptionHandler(env.subscriptions, env.users),
		Tweets:        handlers.NewTweetHandler(env.tweets, env.users),
		Playlists:     handlers.NewPlaylistHandler(env.playlists, env.videos, env.users),
		Dashboard:     handlers.NewDashboardHandler(env.videos, env.subscriptions),
	}

	env.router = routes.SetupRoutes(cfg, h, tokens, env.users)
	return env
}

// envelope mirrors the uniform response body.
type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	e.t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(e.t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(req)
}

func (e *testEnv) doMultipart(method, path, token string, fields map[string]string, files map[string]string) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(e.t, writer.WriteField(name, value))
	}
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(e.t, err)
		_, err = part.Write([]byte("fake file bytes for " + filename))
		require.NoError(e.t, err)
	}
	require.NoError(e.t, writer.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// register creates an account through the public endpoint and returns
// its id.
func (e *testEnv) register(username string) string {
	e.t.Helper()

	w := e.doMultipart(http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"fullname": "Test " + username,
		"password": testPassword,
	}, map[string]string{
		"avatar": "avatar.png",
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	env := decode(e.t, w)
	user, ok := env.Data["user"].(map[string]interface{})
	require.True(e.t, ok, "register response has no user")
	return user["id"].(string)
}

// login returns the access and refresh tokens for an account.
func (e *testEnv) login(identifier, password string) (string, string) {
	e.t.Helper()

	w := e.doJSON(http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"identifier": identifier,
		"password":   password,
	})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())

	env := decode(e.t, w)
	access, _ := env.Data["accessToken"].(string)
	refresh, _ := env.Data["refreshToken"].(string)
	require.NotEmpty(e.t, access)
	require.NotEmpty(e.t, refresh)
	return access, refresh
}

// registerAndLogin is the common fixture: a fresh account plus a live
// access token.
func (e *testEnv) registerAndLogin(username string) (userID, accessToken string) {
	e.t.Helper()
	userID = e.register(username)
	accessToken, _ = e.login(username, testPassword)
	return userID, accessToken
}

// uploadVideo publishes a video through the API and returns its id.
func (e *testEnv) uploadVideo(token, title string) string {
	e.t.Helper()

	w := e.doMultipart(http.MethodPost, "/api/v1/videos/", token, map[string]string{
		"title":       title,
		"description": "description of " + title,
		"duration":    "42.5",
	}, map[string]string{
		"videoFile": "clip.mp4",
		"thumbnail": "thumb.png",
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	env := decode(e.t, w)
	video, ok := env.Data["video"].(map[string]interface{})
	require.True(e.t, ok, "upload response has no video")
	return video["id"].(string)
}
