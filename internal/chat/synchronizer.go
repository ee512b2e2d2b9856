package chat

import (
	"context"

	"github.com/omochice/roomchat/pkg/protocol"
)

// Sender is the outbound half used for refresh requests.
type Sender interface {
	Send(ctx context.Context, command string) error
}

// Synchronizer keeps a Roster in step with the server. Snapshots replace the
// roster; text containing a trigger asks the server for a fresh snapshot.
type Synchronizer struct {
	roster   *Roster
	triggers protocol.TriggerSet
	sender   Sender
}

// NewSynchronizer creates a Synchronizer.
func NewSynchronizer(roster *Roster, triggers protocol.TriggerSet, sender Sender) *Synchronizer {
	return &Synchronizer{
		roster:   roster,
		triggers: triggers,
		sender:   sender,
	}
}

// ApplySnapshot replaces the roster with members.
func (s *Synchronizer) ApplySnapshot(members []string) {
	s.roster.Replace(members)
}

// OnText requests one refresh if content contains any trigger.
// It reports whether a refresh was attempted, and the send error if any.
func (s *Synchronizer) OnText(ctx context.Context, content string) (bool, error) {
	if !s.triggers.Match(content) {
		return false, nil
	}
	return true, s.Refresh(ctx)
}

// Refresh asks the server for the current member list.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	return s.sender.Send(ctx, protocol.Who())
}
