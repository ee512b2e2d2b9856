package chat_test

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omochice/roomchat/internal/chat"
)

// mockConn is a mock implementation of chat.Conn for testing.
type mockConn struct {
	readCh     chan []byte
	writtenMu  sync.Mutex
	written    []string
	writeErr   error
	writeDelay time.Duration
	inWrite    atomic.Int32
	overlapped atomic.Bool
	closed     atomic.Bool
	remoteAddr string
}

func newMockConn(addr string) *mockConn {
	return &mockConn{
		readCh:     make(chan []byte, 10),
		remoteAddr: addr,
	}
}

func (m *mockConn) Read(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case data, ok := <-m.readCh:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	}
}

func (m *mockConn) Write(ctx context.Context, data []byte) error {
	if m.inWrite.Add(1) > 1 {
		m.overlapped.Store(true)
	}
	defer m.inWrite.Add(-1)

	if m.writeDelay > 0 {
		time.Sleep(m.writeDelay)
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writtenMu.Lock()
	defer m.writtenMu.Unlock()
	m.written = append(m.written, string(data))
	return nil
}

func (m *mockConn) Close() error {
	m.closed.Store(true)
	return nil
}

func (m *mockConn) RemoteAddr() string {
	return m.remoteAddr
}

func (m *mockConn) GetWritten() []string {
	m.writtenMu.Lock()
	defer m.writtenMu.Unlock()
	return append([]string(nil), m.written...)
}

// Compile-time check that mockConn implements chat.Conn
var _ chat.Conn = (*mockConn)(nil)
