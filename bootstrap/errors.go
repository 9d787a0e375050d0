package bootstrap

import (
	"errors"
	"fmt"
)

// ErrInvalidPort is returned by [Listen] when asked to bind port zero, which
// would cause the operating system to choose a port on the caller's behalf.
var ErrInvalidPort = errors.New("port must be in the range 1-65535")

// BindError is returned by [Listen] when the listening socket can not be
// bound.
type BindError struct {
	Port uint16
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("unable to bind to port %d: %s", e.Port, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}
