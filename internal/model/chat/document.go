package chat

// Statistics are the lifetime counters of the store. TotalMessages counts
// every append ever made; TotalSessions counts each session at most once, at
// the moment it is first archived with at least one message.
type Statistics struct {
	TotalSessions int `json:"total_sessions"`
	TotalMessages int `json:"total_messages"`
}

// Document is the full persisted store: archived sessions, the one session
// currently being written, and the lifetime counters. It is rewritten to
// disk in full on every mutation.
type Document struct {
	Sessions       []Session  `json:"sessions"`
	CurrentSession Session    `json:"current_session"`
	Statistics     Statistics `json:"statistics"`
}

// Stats is the statistics view served over the API.
type Stats struct {
	TotalSessions          int `json:"total_sessions"`
	TotalMessages          int `json:"total_messages"`
	CurrentSessionMessages int `json:"current_session_messages"`
	SessionsCount          int `json:"sessions_count"`
}
