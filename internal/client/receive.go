package client

import (
	"context"
	"errors"
	"io"
	"slices"
	"time"

	"github.com/omochice/roomchat/internal/chat"
	"github.com/omochice/roomchat/pkg/protocol"
)

// receiveLoop processes frames in arrival order until the first read or
// decode failure. Closing conn is the only way to stop it from outside.
func (c *Client) receiveLoop(conn chat.Conn) {
	ctx := context.Background()
	for {
		frame, at, err := c.nextFrame(ctx, conn)
		if err != nil {
			c.finish(conn, err)
			return
		}
		c.metrics.framesReceived.Inc()
		c.handleFrame(ctx, frame, at)
	}
}

// nextFrame reads one chunk and decodes it. io.EOF and an empty read both
// map to protocol.ErrEndOfStream.
func (c *Client) nextFrame(ctx context.Context, conn chat.Conn) (string, time.Time, error) {
	chunk, err := conn.Read(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", time.Time{}, protocol.ErrEndOfStream
		}
		return "", time.Time{}, err
	}
	at := c.now()
	frame, err := c.decoder.Decode(chunk)
	if err != nil {
		return "", time.Time{}, err
	}
	return frame, at, nil
}

func (c *Client) handleFrame(ctx context.Context, frame string, at time.Time) {
	msg := protocol.Classify(frame)
	switch msg.Type {
	case protocol.MessageTypeUserList:
		c.syncer.ApplySnapshot(msg.Members)
		c.metrics.snapshotsApplied.Inc()
		c.sink.Emit(SnapshotEvent{Names: slices.Clone(msg.Members)})
	default:
		c.sink.Emit(TextEvent{Text: msg.Content, At: at})
		refreshed, err := c.syncer.OnText(ctx, msg.Content)
		if !refreshed {
			return
		}
		c.metrics.refreshRequests.Inc()
		c.logger.Debug().Msg("membership notice, requesting member list")
		if err != nil {
			c.metrics.sendFailures.WithLabelValues(sourceRefresh).Inc()
			c.warn("failed to request member list", &SendError{Command: protocol.Who(), Err: err})
		}
	}
}

// finish moves the client to StateClosed after the receive loop ended.
func (c *Client) finish(conn chat.Conn, cause error) {
	prev, _ := c.transition(StateClosed)
	c.dispatcher.Detach()
	_ = conn.Close()

	var rerr error
	if prev != StateClosing {
		rerr = &ReadError{Err: cause}
		if errors.Is(cause, protocol.ErrEndOfStream) {
			c.logger.Info().Msg("server closed the connection")
		} else {
			c.logger.Warn().Err(cause).Msg("connection lost")
		}
	}

	c.mu.Lock()
	c.err = rerr
	c.mu.Unlock()

	c.sink.Emit(DisconnectedEvent{Err: rerr})
	c.closeDone()
}
