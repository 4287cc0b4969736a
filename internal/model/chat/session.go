package chat

import "time"

// DefaultTitle is carried by a session until its first human message.
const DefaultTitle = "New Chat"

// titleLimit is the maximum rune length of a derived session title.
const titleLimit = 50

// Session is one bounded conversation. EndTime is stamped when the session
// is archived and cleared again if it is reloaded as the current session.
// Resumed marks a session that has been archived (and counted) once already,
// so re-archiving it never bumps the session statistics a second time.
type Session struct {
	ID        int        `json:"id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Title     string     `json:"title"`
	Messages  []Message  `json:"messages"`
	Resumed   bool       `json:"resumed,omitempty"`
}

// NewSession returns an empty session with the given id.
func NewSession(id int) Session {
	return Session{
		ID:        id,
		StartTime: time.Now().UTC(),
		Title:     DefaultTitle,
		Messages:  []Message{},
	}
}

// DeriveTitle builds a session title from its first human message: the text
// verbatim when it fits, otherwise the first 47 runes plus an ellipsis.
func DeriveTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) <= titleLimit {
		return firstMessage
	}
	return string(runes[:titleLimit-3]) + "..."
}

// HumanMessageCount reports how many human turns the session holds.
func (s Session) HumanMessageCount() int {
	count := 0
	for _, msg := range s.Messages {
		if msg.Role == RoleHuman {
			count++
		}
	}
	return count
}

// Clone returns a deep copy so callers can hand sessions out without
// exposing the store's backing slices.
func (s Session) Clone() Session {
	copied := s
	copied.Messages = make([]Message, len(s.Messages))
	copy(copied.Messages, s.Messages)
	if s.EndTime != nil {
		end := *s.EndTime
		copied.EndTime = &end
	}
	return copied
}

// SessionSummary is the sidebar view of a session.
type SessionSummary struct {
	Session
	IsCurrent bool `json:"is_current"`
}
