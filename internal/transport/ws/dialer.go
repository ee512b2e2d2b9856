package ws

import (
	"context"
	"fmt"
	"strings"

	"github.com/gobwas/ws"

	"github.com/omochice/roomchat/internal/chat"
)

// Dialer opens WebSocket connections to the chat server.
type Dialer struct {
	ChunkSize int
	// Path is the request path, "/" when empty.
	Path string
}

// URL returns the WebSocket URL for address (host:port).
func (d Dialer) URL(address string) string {
	path := d.Path
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "ws://" + address + path
}

// Dial performs the WebSocket handshake with the server at address.
func (d Dialer) Dial(ctx context.Context, address string) (chat.Conn, error) {
	conn, br, _, err := ws.Dialer{}.Dial(ctx, d.URL(address))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	if br != nil {
		return NewConn(conn, br, d.ChunkSize), nil
	}
	return NewConn(conn, nil, d.ChunkSize), nil
}
