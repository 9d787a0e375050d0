package bootstrap

import (
	"context"
	"net"
	"strconv"
)

// Listen binds a TCP listener on the wildcard address, accepting connections
// on all IPv4 and IPv6 interfaces on the given port.
//
// It never falls back to a different port.
func Listen(ctx context.Context, port uint16) (net.Listener, error) {
	if port == 0 {
		return nil, ErrInvalidPort
	}

	var lc net.ListenConfig

	lis, err := lc.Listen(
		ctx,
		"tcp",
		net.JoinHostPort("", strconv.Itoa(int(port))),
	)
	if err != nil {
		return nil, &BindError{port, err}
	}

	return lis, nil
}
