package scan

import (
	"errors"
	"fmt"
)

var (
	ErrStatUnavailable = errors.New("stat unavailable")
	ErrNotDirectory    = errors.New("not a directory")
)

// StatError reports a failed link-aware stat of one entry.
type StatError struct {
	Path string
	Err  error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("%s: lstat %s: %v", ErrStatUnavailable, e.Path, e.Err)
}

func (e *StatError) Unwrap() []error {
	return []error{ErrStatUnavailable, e.Err}
}
