// Package tcp provides the TCP transport for the chat client.
package tcp

import (
	"context"
	"net"
	"time"

	"github.com/omochice/roomchat/pkg/protocol"
)

// Conn adapts net.Conn to chat.Conn interface.
type Conn struct {
	conn      net.Conn
	chunkSize int
}

// NewConn wraps a net.Conn. Reads return at most chunkSize bytes;
// a non-positive chunkSize selects protocol.DefaultChunkSize.
func NewConn(conn net.Conn, chunkSize int) *Conn {
	if chunkSize <= 0 {
		chunkSize = protocol.DefaultChunkSize
	}
	return &Conn{conn: conn, chunkSize: chunkSize}
}

// Read implements chat.Conn.
// Reads whatever is available, up to the chunk size, in one call.
func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	buf := make([]byte, c.chunkSize)
	n, err := c.conn.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Write implements chat.Conn.
// A deadline on ctx becomes the write deadline.
func (c *Conn) Write(ctx context.Context, data []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
		defer c.conn.SetWriteDeadline(time.Time{})
	}
	_, err := c.conn.Write(data)
	return err
}

// Close implements chat.Conn.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr implements chat.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
