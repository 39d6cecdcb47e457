package mealie

import (
	"errors"
	"fmt"
)

// NetworkError indicates a transport-level failure: the request never
// produced an HTTP response (DNS, connection refused, timeout).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError indicates a non-2xx HTTP response.
type ServerError struct {
	Status int
	Op     string
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d) on %s: %s", e.Status, e.Op, e.Body)
}

// DecodeError indicates a response body that does not match the
// expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response from %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError indicates invalid client-side input, e.g. an empty
// note or missing configuration.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// IsNetworkError reports whether err (or its chain) is a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsServerError reports whether err is a ServerError, returning its
// status when it is.
func IsServerError(err error) (int, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Status, true
	}
	return 0, false
}

// IsDecodeError reports whether err (or its chain) is a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
