package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ethicallogix/hasi/internal/model/chat"
)

// ConversationStore owns the conversation document: the archive of finished
// sessions, the session currently being written, and the lifetime counters.
// Every mutation happens under one mutex and triggers a synchronous rewrite
// of the whole document, so concurrent handlers never lose an append to a
// stale snapshot. A failed write is logged and swallowed; the in-memory
// state stays authoritative for the rest of the process lifetime.
type ConversationStore struct {
	mu      sync.Mutex
	path    string
	archive map[int]chat.Session
	current chat.Session
	stats   chat.Statistics
}

// Open loads the document at path. A missing or malformed file yields a
// fresh default document (session id 1, zero statistics) rather than an
// error; only an unusable parent directory fails.
func Open(path string) (*ConversationStore, error) {
	if path == "" {
		return nil, errors.New("storage path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	s := &ConversationStore{
		path:    path,
		archive: make(map[int]chat.Session),
		current: chat.NewSession(1),
	}
	s.load()
	return s, nil
}

func (s *ConversationStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[store] read %s: %v, starting fresh", s.path, err)
		}
		return
	}

	var doc chat.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("[store] malformed document %s: %v, starting fresh", s.path, err)
		return
	}
	if doc.CurrentSession.ID == 0 {
		log.Printf("[store] document %s has no current session, starting fresh", s.path)
		return
	}

	for _, session := range doc.Sessions {
		s.archive[session.ID] = session
	}
	s.current = doc.CurrentSession
	if s.current.Messages == nil {
		s.current.Messages = []chat.Message{}
	}
	s.stats = doc.Statistics
}

// Append records a new turn in the current session, updates the message
// counter, derives the session title from the first human message, and
// persists the document.
func (s *ConversationStore) Append(role chat.Role, content string) chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := chat.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	s.current.Messages = append(s.current.Messages, msg)
	s.stats.TotalMessages++

	if role == chat.RoleHuman && s.current.HumanMessageCount() == 1 {
		s.current.Title = chat.DeriveTitle(content)
	}

	s.persistLocked()
	return msg
}

// StartNewSession archives the current session when it holds at least one
// message and resets the current session to a fresh one.
func (s *ConversationStore) StartNewSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.archiveCurrentLocked()
	s.current = chat.NewSession(s.nextIDLocked())
	s.persistLocked()
}

// LoadSession makes the archived session with the given id current. The
// outgoing current session is archived first (same rule as StartNewSession),
// and the loaded session leaves the archive while it is current, so a
// session is never both current and archived. Returns false, with state
// untouched, when the id is unknown.
func (s *ConversationStore) LoadSession(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	requested, ok := s.archive[id]
	if !ok {
		return false
	}

	s.archiveCurrentLocked()
	delete(s.archive, id)
	requested.EndTime = nil
	requested.Resumed = true
	s.current = requested
	s.persistLocked()
	return true
}

// archiveCurrentLocked moves a non-empty current session into the archive,
// stamping its end time. A session is only counted in TotalSessions the
// first time it is archived; reloaded sessions carry Resumed and are skipped.
func (s *ConversationStore) archiveCurrentLocked() {
	if len(s.current.Messages) == 0 {
		return
	}

	now := time.Now().UTC()
	s.current.EndTime = &now
	if !s.current.Resumed {
		s.stats.TotalSessions++
		s.current.Resumed = true
	}
	s.archive[s.current.ID] = s.current
}

// nextIDLocked picks the smallest id above the archive count that is not
// already taken, keeping ids unique across archive and current.
func (s *ConversationStore) nextIDLocked() int {
	id := len(s.archive) + 1
	for {
		if _, taken := s.archive[id]; !taken {
			return id
		}
		id++
	}
}

// Recent returns up to n of the latest messages in the current session.
func (s *ConversationStore) Recent(n int) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := s.current.Messages
	if n < len(messages) {
		messages = messages[len(messages)-n:]
	}
	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied
}

// History returns every message of the current session.
func (s *ConversationStore) History() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]chat.Message, len(s.current.Messages))
	copy(copied, s.current.Messages)
	return copied
}

// Sessions lists the current session first (when non-empty), followed by
// archived sessions newest-first.
func (s *ConversationStore) Sessions() []chat.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]chat.SessionSummary, 0, len(s.archive)+1)
	if len(s.current.Messages) > 0 {
		summaries = append(summaries, chat.SessionSummary{Session: s.current.Clone(), IsCurrent: true})
	}

	archived := s.archivedClonesLocked()
	sort.Slice(archived, func(i, j int) bool {
		return archived[i].StartTime.After(archived[j].StartTime)
	})
	for _, session := range archived {
		summaries = append(summaries, chat.SessionSummary{Session: session, IsCurrent: false})
	}
	return summaries
}

// Stats reports the aggregate counters plus the current-session view.
func (s *ConversationStore) Stats() chat.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return chat.Stats{
		TotalSessions:          s.stats.TotalSessions,
		TotalMessages:          s.stats.TotalMessages,
		CurrentSessionMessages: len(s.current.Messages),
		SessionsCount:          len(s.archive),
	}
}

// Document returns a deep snapshot of the persisted shape.
func (s *ConversationStore) Document() chat.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentLocked()
}

func (s *ConversationStore) documentLocked() chat.Document {
	archived := s.archivedClonesLocked()
	sort.Slice(archived, func(i, j int) bool { return archived[i].ID < archived[j].ID })
	return chat.Document{
		Sessions:       archived,
		CurrentSession: s.current.Clone(),
		Statistics:     s.stats,
	}
}

func (s *ConversationStore) archivedClonesLocked() []chat.Session {
	archived := make([]chat.Session, 0, len(s.archive))
	for _, session := range s.archive {
		archived = append(archived, session.Clone())
	}
	return archived
}

// persistLocked rewrites the whole document. The write goes through a temp
// file and a rename so a crash never leaves a half-written document behind.
func (s *ConversationStore) persistLocked() {
	doc := s.documentLocked()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		log.Printf("[store] marshal document: %v", err)
		return
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp")
	if err != nil {
		log.Printf("[store] create temp file: %v", err)
		return
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		log.Printf("[store] write temp file: %v", err)
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		log.Printf("[store] close temp file: %v", err)
		return
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		log.Printf("[store] rename temp file: %v", err)
	}
}
