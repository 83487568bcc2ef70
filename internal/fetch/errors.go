package fetch

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fetch package.
var (
	// ErrToolNotFound is returned when the shell or the fetch script cannot be located.
	ErrToolNotFound = errors.New("fetch tool not found")
)

// ExitError reports a fetch tool run that exited with a nonzero status.
type ExitError struct {
	Args []string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("fetch tool exited with code %d", e.Code)
}
