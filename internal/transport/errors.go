package transport

import "fmt"

// OpError is a socket-level failure during a probe.
type OpError struct {
	Op     string // "resolve", "listen", "send" or "receive"
	Target string // probe target as given by the caller
	Err    error
}

// Error implements the error interface
func (e *OpError) Error() string {
	return fmt.Sprintf("probe %s %s: %v", e.Op, e.Target, e.Err)
}

// Unwrap returns the underlying error
func (e *OpError) Unwrap() error {
	return e.Err
}
