package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is returned when a remote call fails, either in transport
// or because the remote answered with a non-2xx status.
type NetworkError struct {
	Op         string // list, create, update, delete
	StatusCode int    // 0 when the request never got an answer
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s todos: remote returned %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s todos: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NetworkError carrying a 404.
func IsNotFound(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.StatusCode == http.StatusNotFound
}
