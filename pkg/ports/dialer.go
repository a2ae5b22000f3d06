package ports

import (
	"context"
	"net"
	"time"
)

// Dialer opens a stream connection to address, giving up after timeout.
type Dialer interface {
	DialContext(ctx context.Context, network, address string, timeout time.Duration) (net.Conn, error)
}

// Resolver resolves a host name into IP addresses.
// *net.Resolver satisfies it.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}
