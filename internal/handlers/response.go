package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vidtube/internal/repository"
	"vidtube/internal/services"
)

// APIResponse is the uniform success envelope of every endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, APIResponse{Success: true, Message: message, Data: data})
}

// apiError carries an HTTP status alongside a caller-safe message.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func newAPIError(status int, message string) *apiError {
	return &apiError{status: status, message: message}
}

func errBadRequest(message string) *apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func errUnauthorized(message string) *apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func errNotFound(message string) *apiError {
	return newAPIError(http.StatusNotFound, message)
}

func errConflict(message string) *apiError {
	return newAPIError(http.StatusConflict, message)
}

// respondError is the single place where repository, token and datastore
// error shapes are translated into the response taxonomy. Unrecognized
// errors become a generic 500; internals are logged, never returned.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong! Please try again after some time."

	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.status
		message = apiErr.message

	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrVideoNotFound),
		errors.Is(err, repository.ErrCommentNotFound),
		errors.Is(err, repository.ErrTweetNotFound),
		errors.Is(err, repository.ErrPlaylistNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
		message = err.Error()

	case errors.Is(err, repository.ErrDuplicate), errors.Is(err, gorm.ErrDuplicatedKey):
		status = http.StatusConflict
		message = "A record with the same unique field already exists"

	case errors.Is(err, services.ErrTokenExpired), errors.Is(err, services.ErrTokenInvalid):
		status = http.StatusUnauthorized
		message = err.Error()

	default:
		log.Printf("unexpected error: %v", err)
	}

	c.JSON(status, APIResponse{Success: false, Message: message})
}
