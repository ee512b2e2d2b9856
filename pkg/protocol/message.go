// Package protocol implements the text wire format spoken by the room chat server.
package protocol

import (
	"strings"
)

// UserListPrefix marks a frame carrying a full membership snapshot.
const UserListPrefix = "USERLIST/"

// userListSeparator delimits names inside a snapshot payload.
const userListSeparator = "/"

// MessageType represents the kind of inbound frame
type MessageType int

const (
	MessageTypeText MessageType = iota
	MessageTypeUserList
)

// String returns the string representation of MessageType
func (mt MessageType) String() string {
	switch mt {
	case MessageTypeText:
		return "TEXT"
	case MessageTypeUserList:
		return "USERLIST"
	default:
		return "UNKNOWN"
	}
}

// Message is a classified inbound frame.
// Members is set for MessageTypeUserList, Content for MessageTypeText.
type Message struct {
	Type    MessageType
	Members []string
	Content string
}

// Classify turns a decoded frame into a Message.
// The check is an exact, case-sensitive prefix match; anything else is text
// and is carried verbatim.
func Classify(frame string) Message {
	if payload, ok := strings.CutPrefix(frame, UserListPrefix); ok {
		return Message{
			Type:    MessageTypeUserList,
			Members: ParseUserList(payload),
		}
	}
	return Message{
		Type:    MessageTypeText,
		Content: frame,
	}
}

// ParseUserList splits a snapshot payload into names, preserving order and
// duplicates. Entries that are empty after trimming whitespace are dropped.
func ParseUserList(payload string) []string {
	parts := strings.Split(payload, userListSeparator)
	members := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			continue
		}
		members = append(members, name)
	}
	return members
}
