// Package chat provides the transport-agnostic core of the room chat client.
package chat

import "context"

// Conn abstracts the duplex stream to the server for both TCP and WebSocket.
// This interface isolates transport details from protocol logic.
type Conn interface {
	// Read returns the next chunk, at most the transport's chunk size.
	// Returns io.EOF (or an empty chunk) when the server closed the stream,
	// and an error once Close has been called.
	Read(ctx context.Context) ([]byte, error)

	// Write sends data as a single write.
	Write(ctx context.Context, data []byte) error

	// Close closes the connection and unblocks pending reads.
	Close() error

	// RemoteAddr returns the remote address for logging.
	RemoteAddr() string
}
