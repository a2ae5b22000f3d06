package runtime

import (
	"context"
	"net"
	"time"
)

// NetDialer dials with the operating system network stack.
type NetDialer struct{}

func (NetDialer) DialContext(ctx context.Context, network, address string, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	return d.DialContext(ctx, network, address)
}
