package comms

import (
	"context"
	"fmt"
	"io"
	"net"
)

// Dial implements Transport.
func (tcpTransport) Dial(ctx context.Context, address string) (io.ReadWriteCloser, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	GetLogger(ctx).Info("connected", "remote", conn.RemoteAddr().String())
	return conn, nil
}
