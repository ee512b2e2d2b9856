package ws_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/omochice/roomchat/internal/chat"
	wstransport "github.com/omochice/roomchat/internal/transport/ws"
)

// startServer runs handler on each upgraded connection and returns host:port.
func startServer(t *testing.T, handler func(conn net.Conn)) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			t.Errorf("failed to upgrade: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(server.Close)
	return strings.TrimPrefix(server.URL, "http://")
}

func dial(t *testing.T, addr string, chunkSize int) chat.Conn {
	t.Helper()
	conn, err := wstransport.Dialer{ChunkSize: chunkSize}.Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestConn_ImplementsInterface(t *testing.T) {
	var _ chat.Conn = (*wstransport.Conn)(nil)
}

func TestConn_Read(t *testing.T) {
	addr := startServer(t, func(conn net.Conn) {
		if err := wsutil.WriteServerText(conn, []byte("USERLIST/alice/bob/")); err != nil {
			t.Errorf("failed to write: %v", err)
		}
		time.Sleep(100 * time.Millisecond)
	})

	conn := dial(t, addr, 256)

	data, err := conn.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "USERLIST/alice/bob/" {
		t.Errorf("Read() = %q, want %q", string(data), "USERLIST/alice/bob/")
	}
}

func TestConn_ReadSplitsLongMessages(t *testing.T) {
	addr := startServer(t, func(conn net.Conn) {
		if err := wsutil.WriteServerBinary(conn, []byte("abcdefghij")); err != nil {
			t.Errorf("failed to write: %v", err)
		}
		time.Sleep(100 * time.Millisecond)
	})

	conn := dial(t, addr, 4)

	want := []string{"abcd", "efgh", "ij"}
	for _, w := range want {
		data, err := conn.Read(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != w {
			t.Errorf("Read() = %q, want %q", string(data), w)
		}
	}
}

func TestConn_ReadAfterServerClose(t *testing.T) {
	addr := startServer(t, func(conn net.Conn) {})

	conn := dial(t, addr, 256)

	if _, err := conn.Read(context.Background()); err == nil {
		t.Error("expected error after server closed, got nil")
	}
}

func TestConn_ReadCloseFrame(t *testing.T) {
	addr := startServer(t, func(conn net.Conn) {
		body := ws.NewCloseFrameBody(ws.StatusNormalClosure, "")
		if err := wsutil.WriteServerMessage(conn, ws.OpClose, body); err != nil {
			t.Errorf("failed to write close frame: %v", err)
		}
		time.Sleep(100 * time.Millisecond)
	})

	conn := dial(t, addr, 256)

	data, err := conn.Read(context.Background())
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Read() error = %v, want io.EOF", err)
	}
	if len(data) != 0 {
		t.Errorf("Read() data = %q, want empty", data)
	}
}

func TestConn_Write(t *testing.T) {
	received := make(chan string, 1)
	addr := startServer(t, func(conn net.Conn) {
		data, err := wsutil.ReadClientText(conn)
		if err != nil {
			t.Errorf("failed to read: %v", err)
			return
		}
		received <- string(data)
	})

	conn := dial(t, addr, 256)

	if err := conn.Write(context.Background(), []byte("/who")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	select {
	case got := <-received:
		if got != "/who" {
			t.Errorf("server received %q, want %q", got, "/who")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for server to receive message")
	}
}

func TestConn_CloseUnblocksRead(t *testing.T) {
	addr := startServer(t, func(conn net.Conn) {
		time.Sleep(500 * time.Millisecond)
	})

	conn := dial(t, addr, 256)

	errCh := make(chan error, 1)
	go func() {
		_, err := conn.Read(context.Background())
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	conn.Close()

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("expected error after close, got nil")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Read was not unblocked by Close")
	}
}

func TestDialer_URL(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "ws://127.0.0.1:5555/"},
		{"/chat", "ws://127.0.0.1:5555/chat"},
		{"chat", "ws://127.0.0.1:5555/chat"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := (wstransport.Dialer{Path: tt.path}).URL("127.0.0.1:5555"); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialer_DialFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()

	if _, err := (wstransport.Dialer{}).Dial(context.Background(), addr); err == nil {
		t.Error("expected connection error, got nil")
	}
}
