// Package client implements the connection lifecycle of the room chat client:
// connecting, the receive loop, command sending and graceful shutdown.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/omochice/roomchat/internal/chat"
	"github.com/omochice/roomchat/pkg/protocol"
)

// Dialer opens the transport to the server.
type Dialer interface {
	Dial(ctx context.Context, address string) (chat.Conn, error)
}

// Settings holds the protocol parameters of a Client.
type Settings struct {
	// Address is the server's host:port.
	Address string
	// Triggers are the notices that cause a member list refresh.
	// Nil selects protocol.DefaultTriggers.
	Triggers protocol.TriggerSet
	// Decode selects the handling of malformed UTF-8.
	Decode protocol.DecodePolicy
}

// Client owns one connection to a chat server. It is single use: once
// closed it cannot be reconnected.
type Client struct {
	settings Settings
	dialer   Dialer
	sink     EventSink
	decoder  protocol.Decoder
	logger   zerolog.Logger
	metrics  *metrics
	now      func() time.Time
	hook     func(from, to State)

	roster     *chat.Roster
	dispatcher *chat.Dispatcher
	syncer     *chat.Synchronizer

	mu    sync.Mutex
	state State
	conn  chat.Conn
	err   error

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a Client. Nothing is dialed until Connect.
func New(settings Settings, dialer Dialer, sink EventSink, opts ...Option) *Client {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	base := log.Logger
	if o.logger != nil {
		base = *o.logger
	}

	if settings.Triggers == nil {
		settings.Triggers = protocol.DefaultTriggers()
	}

	c := &Client{
		settings: settings,
		dialer:   dialer,
		sink:     sink,
		decoder:  protocol.Decoder{Policy: settings.Decode},
		logger: base.With().
			Str("module", "client").
			Str("session", uuid.NewString()).
			Logger(),
		metrics:    newMetrics(o.registry),
		now:        o.now,
		hook:       o.stateHook,
		roster:     chat.NewRoster(),
		dispatcher: chat.NewDispatcher(nil),
		done:       make(chan struct{}),
	}
	c.syncer = chat.NewSynchronizer(c.roster, settings.Triggers, c.dispatcher)
	return c
}

// Connect dials the server, requests the initial member list and starts the
// receive loop. A dial failure closes the client and is returned as a
// *ConnectError after being emitted as an ErrorEvent.
func (c *Client) Connect(ctx context.Context) error {
	if _, ok := c.transition(StateConnecting, StateIdle); !ok {
		return ErrAlreadyStarted
	}

	conn, err := c.dialer.Dial(ctx, c.settings.Address)
	if err != nil {
		cerr := &ConnectError{Address: c.settings.Address, Err: err}
		c.logger.Error().Err(err).Str("addr", c.settings.Address).Msg("failed to connect")
		c.transition(StateClosed)
		c.sink.Emit(ErrorEvent{Err: cerr})
		c.closeDone()
		return cerr
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	if _, ok := c.transition(StateOpen, StateConnecting); !ok {
		// Close was called while dialing.
		_ = conn.Close()
		c.transition(StateClosed)
		c.closeDone()
		return ErrClosed
	}

	c.logger.Info().Str("addr", conn.RemoteAddr()).Msg("connected")

	// The member list request goes out before any user command.
	if err := c.dispatcher.Attach(ctx, conn, protocol.Who()); err != nil {
		c.metrics.sendFailures.WithLabelValues(sourceInitial).Inc()
		c.warn("failed to request member list", &SendError{Command: protocol.Who(), Err: err})
	}

	go c.receiveLoop(conn)
	return nil
}

// Send writes a user command verbatim. Empty commands are ignored without
// touching the network. A failed write is emitted as an ErrorEvent and
// returned as a *SendError; the connection stays open.
func (c *Client) Send(ctx context.Context, command string) error {
	if command == "" {
		return nil
	}
	if err := c.dispatcher.Send(ctx, command); err != nil {
		serr := &SendError{Command: command, Err: err}
		c.metrics.sendFailures.WithLabelValues(sourceUser).Inc()
		c.logger.Warn().Err(err).Msg("failed to send command")
		c.sink.Emit(ErrorEvent{Err: serr})
		return serr
	}
	return nil
}

// Close shuts the connection down: it sends /exit on a best-effort basis,
// closes the transport whether or not that worked, and waits for the
// receive loop to stop. Close is idempotent.
func (c *Client) Close() error {
	if _, ok := c.transition(StateClosed, StateIdle); ok {
		c.closeDone()
		return nil
	}
	if _, ok := c.transition(StateClosing, StateConnecting); ok {
		<-c.done
		return nil
	}
	if _, ok := c.transition(StateClosing, StateOpen); !ok {
		<-c.done
		return nil
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if err := c.dispatcher.Send(context.Background(), protocol.Exit()); err != nil {
		c.metrics.sendFailures.WithLabelValues(sourceFarewell).Inc()
		c.logger.Debug().Err(err).Msg("farewell not delivered")
	}
	c.dispatcher.Detach()
	err := conn.Close()
	<-c.done

	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// Run forwards commands until the channel is closed or ctx is done, then
// shuts down gracefully. It returns early when the server ends the
// connection, with the terminal error from Err.
func (c *Client) Run(ctx context.Context, commands <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return c.Close()
		case <-c.done:
			return c.Err()
		case cmd, ok := <-commands:
			if !ok {
				return c.Close()
			}
			_ = c.Send(ctx, cmd)
		}
	}
}

// Done is closed once the client reaches StateClosed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the *ReadError that ended the connection, or nil if it is still
// open or was closed locally.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Members returns the latest member list in server order.
func (c *Client) Members() []string {
	return c.roster.Members()
}

// RemoteAddr returns the server address once connected.
func (c *Client) RemoteAddr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr()
}

// transition moves to next if the current state is one of from, or
// unconditionally when from is empty. It returns the previous state.
func (c *Client) transition(next State, from ...State) (State, bool) {
	c.mu.Lock()
	prev := c.state
	if len(from) > 0 && !slices.Contains(from, prev) {
		c.mu.Unlock()
		return prev, false
	}
	c.state = next
	c.mu.Unlock()

	if prev != next {
		c.metrics.state.Set(float64(next))
		c.logger.Debug().Stringer("from", prev).Stringer("to", next).Msg("state changed")
		if c.hook != nil {
			c.hook(prev, next)
		}
	}
	return prev, true
}

func (c *Client) warn(message string, err error) {
	c.logger.Warn().Err(err).Msg(message)
	c.sink.Emit(WarningEvent{Message: message, Err: err})
}

func (c *Client) closeDone() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}
