package catalog

import (
	"errors"
	"fmt"
)

// NotFoundError reports a catalog id that did not resolve.
// A calculation that hits one fails whole; no partial breakdown is produced.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
