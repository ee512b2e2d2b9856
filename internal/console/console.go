// Package console provides a line-oriented terminal front end for the client.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/omochice/roomchat/internal/client"
)

// TimeFormat is the receipt timestamp layout for chat lines.
const TimeFormat = "15:04:05"

// Sink prints client events to a writer.
type Sink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewSink creates a Sink writing to out.
func NewSink(out io.Writer) *Sink {
	return &Sink{out: out}
}

// Emit implements client.EventSink.
func (s *Sink) Emit(e client.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev := e.(type) {
	case client.TextEvent:
		fmt.Fprintf(s.out, "[%s] %s\n", ev.At.Format(TimeFormat), strings.TrimRight(ev.Text, "\r\n"))
	case client.SnapshotEvent:
		fmt.Fprintf(s.out, "*** in room: %s ***\n", strings.Join(ev.Names, ", "))
	case client.WarningEvent:
		fmt.Fprintf(s.out, "!!! %s: %v\n", ev.Message, ev.Err)
	case client.ErrorEvent:
		fmt.Fprintf(s.out, "!!! error: %v\n", ev.Err)
	case client.DisconnectedEvent:
		fmt.Fprintln(s.out, "*** disconnected from server ***")
	}
}

// ReadCommands sends each non-blank line of r to the returned channel, with
// surrounding whitespace removed. The channel is closed at end of input or
// when ctx is done.
func ReadCommands(ctx context.Context, r io.Reader) <-chan string {
	commands := make(chan string)
	go func() {
		defer close(commands)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			select {
			case commands <- text:
			case <-ctx.Done():
				return
			}
		}
	}()
	return commands
}
