package client

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted is returned by Connect on a Client that was already
	// connected or closed. A Client is single use.
	ErrAlreadyStarted = errors.New("client already started")

	// ErrClosed is returned by Connect when Close won the race with dialing.
	ErrClosed = errors.New("client closed")
)

// ConnectError reports a failed initial connection. It is fatal; the client
// does not retry.
type ConnectError struct {
	Address string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Address, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ReadError ends the receive loop. Err is protocol.ErrEndOfStream when the
// server closed the stream and wraps protocol.ErrInvalidUTF8 for undecodable
// frames.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read from server: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// SendError reports a failed write of Command. The connection stays open.
type SendError struct {
	Command string
	Err     error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send %q: %v", e.Command, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
