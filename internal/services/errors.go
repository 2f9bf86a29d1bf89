package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every lookup failure below.
	ErrNotFound = errors.New("not found")

	ErrUserNotFound          = fmt.Errorf("user %w", ErrNotFound)
	ErrPostNotFound          = fmt.Errorf("post %w", ErrNotFound)
	ErrCommentNotFound       = fmt.Errorf("comment %w", ErrNotFound)
	ErrParentCommentNotFound = fmt.Errorf("parent comment %w", ErrNotFound)

	// ErrInvalidInput marks requests rejected before touching the store.
	ErrInvalidInput = errors.New("invalid input")
	ErrSelfFollow   = fmt.Errorf("%w: users cannot follow themselves", ErrInvalidInput)
)
