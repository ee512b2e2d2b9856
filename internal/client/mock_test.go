package client_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/omochice/roomchat/internal/chat"
	"github.com/omochice/roomchat/internal/client"
)

var errConnClosed = errors.New("use of closed connection")

type readResult struct {
	data []byte
	err  error
}

// mockConn is a scriptable chat.Conn. Frames pushed with serve are returned
// by Read in order; Close unblocks a pending Read.
type mockConn struct {
	reads     chan readResult
	closed    chan struct{}
	closeOnce sync.Once
	readCount atomic.Int32

	mu       sync.Mutex
	written  []string
	failOn   map[string]error
	inWrite  atomic.Int32
	overlaps atomic.Int32
}

func newMockConn() *mockConn {
	return &mockConn{
		reads:  make(chan readResult, 16),
		closed: make(chan struct{}),
		failOn: map[string]error{},
	}
}

func (m *mockConn) serve(frame string) {
	m.reads <- readResult{data: []byte(frame)}
}

func (m *mockConn) serveBytes(data []byte) {
	m.reads <- readResult{data: data}
}

func (m *mockConn) serveErr(err error) {
	m.reads <- readResult{err: err}
}

func (m *mockConn) failWrites(command string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn[command] = err
}

func (m *mockConn) Read(ctx context.Context) ([]byte, error) {
	m.readCount.Add(1)
	select {
	case <-m.closed:
		return nil, errConnClosed
	case r := <-m.reads:
		return r.data, r.err
	}
}

func (m *mockConn) Write(ctx context.Context, data []byte) error {
	if m.inWrite.Add(1) > 1 {
		m.overlaps.Add(1)
	}
	defer m.inWrite.Add(-1)
	time.Sleep(100 * time.Microsecond)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOn[string(data)]; ok {
		return err
	}
	if m.isClosed() {
		return errConnClosed
	}
	m.written = append(m.written, string(data))
	return nil
}

func (m *mockConn) Close() error {
	m.closeOnce.Do(func() { close(m.closed) })
	return nil
}

func (m *mockConn) RemoteAddr() string {
	return "127.0.0.1:5555"
}

func (m *mockConn) isClosed() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}

func (m *mockConn) Written() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.written...)
}

var _ chat.Conn = (*mockConn)(nil)

// mockDialer hands out a fixed connection or error.
type mockDialer struct {
	conn  chat.Conn
	err   error
	gate  chan struct{}
	calls atomic.Int32
}

func (d *mockDialer) Dial(ctx context.Context, address string) (chat.Conn, error) {
	d.calls.Add(1)
	if d.gate != nil {
		<-d.gate
	}
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}

// recordingSink stores every emitted event.
type recordingSink struct {
	mu     sync.Mutex
	events []client.Event
}

func (s *recordingSink) Emit(e client.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) Events() []client.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]client.Event(nil), s.events...)
}

// waitFor polls until cond holds or fails the test after two seconds.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", what)
}

func waitDone(t *testing.T, c *client.Client) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for client to close")
	}
}

func eventsOf[T client.Event](events []client.Event) []T {
	var out []T
	for _, e := range events {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

