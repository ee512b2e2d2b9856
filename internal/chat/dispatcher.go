package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotConnected is returned when sending without an open connection.
var ErrNotConnected = errors.New("not connected to server")

// Dispatcher serializes outbound commands onto a Conn.
// Each Send is exactly one Write; concurrent callers never interleave and are
// served in lock acquisition order.
type Dispatcher struct {
	mu   sync.Mutex
	conn Conn
}

// NewDispatcher creates a Dispatcher writing to conn. A nil conn is allowed
// and makes every non-empty Send fail with ErrNotConnected.
func NewDispatcher(conn Conn) *Dispatcher {
	return &Dispatcher{conn: conn}
}

// Send writes command verbatim. An empty command is a no-op.
func (d *Dispatcher) Send(ctx context.Context, command string) error {
	if command == "" {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return ErrNotConnected
	}
	if err := d.conn.Write(ctx, []byte(command)); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

// Attach directs later sends to conn. The greeting commands are written
// before any other Send can reach conn; conn stays attached even when one
// of them fails.
func (d *Dispatcher) Attach(ctx context.Context, conn Conn, greeting ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conn = conn
	for _, command := range greeting {
		if command == "" {
			continue
		}
		if err := conn.Write(ctx, []byte(command)); err != nil {
			return fmt.Errorf("failed to send command: %w", err)
		}
	}
	return nil
}

// Detach drops the connection; later sends fail with ErrNotConnected.
// It waits for an in-flight Send to finish.
func (d *Dispatcher) Detach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conn = nil
}
