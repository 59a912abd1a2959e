package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vidtube/internal/config"
	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/query"
	"vidtube/internal/repository"
	"vidtube/internal/services"
)

type UserHandler struct {
	users   repository.UserRepository
	tokens  services.TokenService
	storage services.StorageService
	cfg     *config.Config
}

func NewUserHandler(users repository.UserRepository, tokens services.TokenService, storage services.StorageService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		users:   users,
		tokens:  tokens,
		storage: storage,
		cfg:     cfg,
	}
}

// Register creates an account from a multipart form: username, email,
// fullname, password plus a mandatory avatar file and an optional cover
// image. Files are uploaded before anything is written to the database;
// an upload failure aborts the request.
func (h *UserHandler) Register(c *gin.Context) {
	req := models.UserRegister{
		Username: strings.ToLower(strings.TrimSpace(c.PostForm("username"))),
		Email:    strings.ToLower(strings.TrimSpace(c.PostForm("email"))),
		Fullname: strings.TrimSpace(c.PostForm("fullname")),
		Password: c.PostForm("password"),
	}

	if req.Username == "" || req.Email == "" || req.Fullname == "" || req.Password == "" {
		respondError(c, errBadRequest("All fields are required!"))
		return
	}
	for _, validate := range []error{
		validateUsername(req.Username),
		validateEmail(req.Email),
		validateFullname(req.Fullname),
		validatePassword(req.Password),
	} {
		if validate != nil {
			respondError(c, validate)
			return
		}
	}

	taken, err := h.users.UsernameOrEmailTaken(req.Username, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if taken {
		respondError(c, errConflict("User with same username or email already exists"))
		return
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, errBadRequest("Avatar is required!"))
		return
	}

	avatar, err := h.uploadFormFile(c, avatarFile, fmt.Sprintf("vidtube/user/%s/avatar", req.Username), services.ResourceImage)
	if err != nil {
		respondError(c, err)
		return
	}

	var cover *services.UploadedFile
	if coverFile, err := c.FormFile("coverImage"); err == nil {
		cover, err = h.uploadFormFile(c, coverFile, fmt.Sprintf("vidtube/user/%s/coverImage", req.Username), services.ResourceImage)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	hashed, err := h.users.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Fullname:  req.Fullname,
		Password:  hashed,
		AvatarID:  avatar.PublicID,
		AvatarURL: avatar.URL,
	}
	if cover != nil {
		user.CoverImageID = cover.PublicID
		user.CoverImageURL = cover.URL
	}

	if err := h.users.Create(user); err != nil {
		if err == repository.ErrDuplicate {
			respondError(c, errConflict("User with same username or email already exists"))
			return
		}
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "User Registered Successfully!", gin.H{"user": user})
}

// Login authenticates by username or email, rotates the account's
// refresh token and delivers both tokens as cookies and in the body.
func (h *UserHandler) Login(c *gin.Context) {
	var req models.UserLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errBadRequest("Identifier and password are required"))
		return
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))

	user, err := h.users.FindByIdentifier(identifier)
	if err != nil {
		if err == repository.ErrUserNotFound {
			respondError(c, errNotFound("Account not exists!"))
			return
		}
		respondError(c, err)
		return
	}

	if err := h.users.VerifyPassword(user.Password, req.Password); err != nil {
		respondError(c, errUnauthorized("Login Identifier or Password is incorrect"))
		return
	}

	accessToken, refreshToken, err := h.issueSession(user)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, accessToken, refreshToken)
	respond(c, http.StatusOK, fmt.Sprintf("Welcome back %s!", user.Fullname), gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// RefreshSession exchanges a valid refresh token for a fresh token pair.
// The presented token must exactly match the one stored on the account;
// a superseded token is rejected, which blocks replay after rotation.
func (h *UserHandler) RefreshSession(c *gin.Context) {
	incoming := h.incomingRefreshToken(c)
	if incoming == "" {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	userID, err := h.tokens.VerifyRefreshToken(incoming)
	if err != nil {
		respondError(c, errUnauthorized("Refresh token is expired or used"))
		return
	}

	user, err := h.users.FindByID(userID)
	if err != nil {
		respondError(c, errUnauthorized("Refresh token is expired or used"))
		return
	}

	if user.RefreshToken == "" || user.RefreshToken != incoming {
		respondError(c, errUnauthorized("Refresh token is expired or used"))
		return
	}

	accessToken, refreshToken, err := h.issueSession(user)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, accessToken, refreshToken)
	respond(c, http.StatusOK, fmt.Sprintf("Welcome back %s!", user.Fullname), gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Logout clears the stored refresh token and both cookies. Safe to call
// repeatedly.
func (h *UserHandler) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	if err := h.users.SaveRefreshToken(user.ID, ""); err != nil {
		respondError(c, err)
		return
	}

	h.clearAuthCookies(c)
	respond(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}
	respond(c, http.StatusOK, "Profile data sent successfully", gin.H{"user": user})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	var req models.UpdateProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errBadRequest("All fields are required!"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Fullname = strings.TrimSpace(req.Fullname)
	if err := validateEmail(req.Email); err != nil {
		respondError(c, err)
		return
	}
	if err := validateFullname(req.Fullname); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.users.UpdateProfile(user.ID, req.Fullname, req.Email)
	if err != nil {
		if err == repository.ErrDuplicate {
			respondError(c, errConflict("Email already in use"))
			return
		}
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Profile updated successfully!", gin.H{"user": updated})
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, errBadRequest("New Avatar file is required"))
		return
	}

	uploaded, err := h.uploadFormFile(c, fileHeader, fmt.Sprintf("vidtube/user/%s/avatar", user.Username), services.ResourceImage)
	if err != nil {
		respondError(c, err)
		return
	}

	h.destroyQuietly(c, user.AvatarID, services.ResourceImage)

	updated, err := h.users.UpdateAvatar(user.ID, uploaded.PublicID, uploaded.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "User Avatar updated successfully!", gin.H{"user": updated})
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	fileHeader, err := c.FormFile("coverImage")
	if err != nil {
		respondError(c, errBadRequest("New Cover Image file is required"))
		return
	}

	uploaded, err := h.uploadFormFile(c, fileHeader, fmt.Sprintf("vidtube/user/%s/coverImage", user.Username), services.ResourceImage)
	if err != nil {
		respondError(c, err)
		return
	}

	h.destroyQuietly(c, user.CoverImageID, services.ResourceImage)

	updated, err := h.users.UpdateCoverImage(user.ID, uploaded.PublicID, uploaded.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Cover Image updated successfully!", gin.H{"user": updated})
}

func (h *UserHandler) DeleteCoverImage(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	h.destroyQuietly(c, user.CoverImageID, services.ResourceImage)

	updated, err := h.users.UpdateCoverImage(user.ID, "", "")
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Cover Image deleted successfully!", gin.H{"user": updated})
}

// UpdatePassword verifies the old password before replacing it. The new
// password must satisfy the strict policy tier.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	var req models.UpdatePassword
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errBadRequest("Old and new passwords are required"))
		return
	}

	if err := validateStrongPassword(req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	if err := h.users.VerifyPassword(user.Password, req.OldPassword); err != nil {
		respondError(c, errBadRequest("Old password is incorrect"))
		return
	}

	hashed, err := h.users.HashPassword(req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.users.UpdatePassword(user.ID, hashed); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Password updated successfully", nil)
}

// GetChannelProfile returns the public channel page of a user: profile
// data plus subscriber counters and whether the caller subscribes.
func (h *UserHandler) GetChannelProfile(c *gin.Context) {
	viewer, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	username := strings.ToLower(strings.TrimSpace(c.Param("username")))
	if username == "" {
		respondError(c, errBadRequest("Username is required"))
		return
	}

	profile, err := h.users.ChannelProfile(username, viewer.ID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			respondError(c, errNotFound("Channel does not exist"))
			return
		}
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Channel profile fetched successfully", gin.H{"channel": profile})
}

func (h *UserHandler) GetWatchHistory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, errUnauthorized("Unauthorized request"))
		return
	}

	history, err := h.users.WatchHistory(user.ID, pageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Watch history fetched successfully", history)
}

func (h *UserHandler) issueSession(user *models.User) (accessToken, refreshToken string, err error) {
	accessToken, err = h.tokens.IssueAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = h.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return "", "", err
	}
	if err = h.users.SaveRefreshToken(user.ID, refreshToken); err != nil {
		return "", "", err
	}
	user.RefreshToken = refreshToken
	return accessToken, refreshToken, nil
}

func (h *UserHandler) incomingRefreshToken(c *gin.Context) string {
	if cookie, err := c.Cookie("refreshToken"); err == nil && cookie != "" {
		return cookie
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&body); err == nil {
		return strings.TrimSpace(body.RefreshToken)
	}
	return ""
}

func (h *UserHandler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie("accessToken", accessToken, int(h.cfg.AccessTokenTTL.Seconds()), "/", "", true, true)
	c.SetCookie("refreshToken", refreshToken, int(h.cfg.RefreshTokenTTL.Seconds()), "/", "", true, true)
}

func (h *UserHandler) clearAuthCookies(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", "", true, true)
	c.SetCookie("refreshToken", "", -1, "/", "", true, true)
}

func (h *UserHandler) uploadFormFile(c *gin.Context, fileHeader *multipart.FileHeader, folder, resourceType string) (*services.UploadedFile, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return h.storage.Upload(c.Request.Context(), file, folder, resourceType)
}

// destroyQuietly removes a stored asset, logging failures instead of
// failing the request.
func (h *UserHandler) destroyQuietly(c *gin.Context, publicID, resourceType string) {
	if publicID == "" {
		return
	}
	if err := h.storage.Destroy(c.Request.Context(), publicID, resourceType); err != nil {
		log.Printf("failed to delete stored file %s: %v", publicID, err)
	}
}

func pageParams(c *gin.Context) query.PageParams {
	return query.ParsePageParams(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortType"))
}
