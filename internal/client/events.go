package client

import "time"

// Event is something the presentation layer should show.
// Implementations are SnapshotEvent, TextEvent, WarningEvent, ErrorEvent
// and DisconnectedEvent.
type Event interface {
	event()
}

// SnapshotEvent carries the complete member list of the current room.
type SnapshotEvent struct {
	Names []string
}

// TextEvent carries a chat line or server notice, stamped on receipt.
type TextEvent struct {
	Text string
	At   time.Time
}

// WarningEvent reports a non-fatal problem, such as a failed refresh.
type WarningEvent struct {
	Message string
	Err     error
}

// ErrorEvent reports a failed connect or a failed user command.
type ErrorEvent struct {
	Err error
}

// DisconnectedEvent is the last event of an opened connection.
// Err is nil when the shutdown was requested locally.
type DisconnectedEvent struct {
	Err error
}

func (SnapshotEvent) event() {}
func (TextEvent) event() {}
func (WarningEvent) event() {}
func (ErrorEvent) event() {}
func (DisconnectedEvent) event() {}

// EventSink receives events from the client. Emit is called from the receive
// goroutine and from callers of Connect and Send, so implementations must be
// safe for concurrent use. Events from the receive goroutine arrive in frame
// order.
type EventSink interface {
	Emit(Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

// Emit implements EventSink.
func (f SinkFunc) Emit(e Event) {
	f(e)
}

// ChanSink delivers events to a channel. Emit blocks while the channel is
// full, which applies backpressure to the receive loop.
type ChanSink chan Event

// Emit implements EventSink.
func (c ChanSink) Emit(e Event) {
	c <- e
}
