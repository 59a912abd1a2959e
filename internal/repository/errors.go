package repository

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrVideoNotFound    = errors.New("video not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrTweetNotFound    = errors.New("tweet not found")
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrDuplicate indicates a write would violate a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)
