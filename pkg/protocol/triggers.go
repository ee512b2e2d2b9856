package protocol

import "strings"

// Notices the server broadcasts when room membership changes.
const (
	NoticeJoined  = "dołączył do pokoju"
	NoticeLeft    = "opuścił pokój"
	NoticeRenamed = "zmienił nick"
	NoticeMoved   = "został przeniesiony"
)

// TriggerSet is a fixed set of substrings whose presence in a text frame
// means the server-side membership changed.
//
// Matching server prose is fragile: any wording change on the server side
// silently disables resynchronization.
type TriggerSet []string

// DefaultTriggers returns the notices used by the reference server.
func DefaultTriggers() TriggerSet {
	return TriggerSet{NoticeJoined, NoticeLeft, NoticeRenamed, NoticeMoved}
}

// Match reports whether content contains any trigger. Matching is
// case-sensitive and unanchored.
func (ts TriggerSet) Match(content string) bool {
	for _, t := range ts {
		if t != "" && strings.Contains(content, t) {
			return true
		}
	}
	return false
}
