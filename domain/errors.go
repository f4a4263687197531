package domain

import "errors"

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyContent indicates a create or edit with no content.
	ErrEmptyContent = errors.New("comment cannot be empty")

	// ErrContentTooLong indicates the comment exceeds the character limit.
	ErrContentTooLong = errors.New("comment exceeds character limit")

	// ErrStaleResponse marks a response issued under a view state that is no longer current.
	ErrStaleResponse = errors.New("stale response")
)

// MaxContentLength is the character limit enforced before any request is sent.
const MaxContentLength = 2000
