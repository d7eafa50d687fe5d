package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrMissingToken  = errors.New("missing token parameter")
)

// FetchError reports an upstream HTTP response with a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %d", e.URL, e.StatusCode)
}
