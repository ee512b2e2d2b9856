// Package ws provides the WebSocket transport for the chat client.
// Each server text or binary message carries the same payload a TCP read
// would; messages longer than the chunk size are handed out in pieces.
package ws

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/omochice/roomchat/pkg/protocol"
)

// Conn adapts a client-side gobwas/ws connection to chat.Conn interface.
type Conn struct {
	conn      net.Conn
	reader    io.Reader
	chunkSize int

	writeMu sync.Mutex

	readMu        sync.Mutex
	readBuffer    []byte
	readBufferPos int
}

// NewConn wraps an upgraded connection. br holds bytes the server sent right
// after the handshake and may be nil.
func NewConn(conn net.Conn, br io.Reader, chunkSize int) *Conn {
	if chunkSize <= 0 {
		chunkSize = protocol.DefaultChunkSize
	}
	reader := io.Reader(conn)
	if br != nil {
		reader = io.MultiReader(br, conn)
	}
	return &Conn{conn: conn, reader: reader, chunkSize: chunkSize}
}

// Read implements chat.Conn.
// Returns buffered remainder of the previous message first, then the next
// data message. Control frames are answered internally; a close frame from
// the server ends the stream with io.EOF.
func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	if c.readBufferPos < len(c.readBuffer) {
		return c.nextBuffered(), nil
	}

	rw := struct {
		io.Reader
		io.Writer
	}{c.reader, lockedWriter{c}}

	data, _, err := wsutil.ReadServerData(rw)
	if err != nil {
		var closed wsutil.ClosedError
		if errors.As(err, &closed) {
			return nil, io.EOF
		}
		return nil, err
	}

	c.readBuffer = data
	c.readBufferPos = 0
	return c.nextBuffered(), nil
}

func (c *Conn) nextBuffered() []byte {
	end := min(c.readBufferPos+c.chunkSize, len(c.readBuffer))
	chunk := c.readBuffer[c.readBufferPos:end]
	c.readBufferPos = end
	if c.readBufferPos >= len(c.readBuffer) {
		c.readBuffer = nil
		c.readBufferPos = 0
	}
	return chunk
}

// Write implements chat.Conn.
// Sends data as one text message.
func (c *Conn) Write(ctx context.Context, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return wsutil.WriteClientText(c.conn, data)
}

// Close implements chat.Conn.
func (c *Conn) Close() error {
	c.writeMu.Lock()
	_ = wsutil.WriteClientMessage(c.conn, ws.OpClose, nil)
	c.writeMu.Unlock()
	return c.conn.Close()
}

// RemoteAddr implements chat.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// lockedWriter lets control frame replies share the write lock.
type lockedWriter struct {
	c *Conn
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.c.writeMu.Lock()
	defer w.c.writeMu.Unlock()
	return w.c.conn.Write(p)
}
