package tcp

import (
	"context"
	"fmt"
	"net"

	"github.com/omochice/roomchat/internal/chat"
)

// Dialer opens TCP connections to the chat server.
type Dialer struct {
	ChunkSize int
}

// Dial connects to address (host:port).
func (d Dialer) Dial(ctx context.Context, address string) (chat.Conn, error) {
	var nd net.Dialer
	conn, err := nd.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	return NewConn(conn, d.ChunkSize), nil
}
