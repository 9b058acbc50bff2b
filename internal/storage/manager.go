package storage

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tabvc/tabvc/internal/sheet"
	"sync"
	"time"
)

// Store keeps every session in memory. It is safe for concurrent use: the session and workbook
// maps are guarded by the store lock and each workbook carries its own lock, taken through
// WithWorkbook, so writers to different workbooks never wait on each other.
type Store struct {
	mutex    sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// Session groups workbooks by filename.
type Session struct {
	ID        string
	Name      string
	workbooks map[string]*Workbook
}

// Workbook is the live state of one uploaded file plus its commit history.
type Workbook struct {
	mutex    sync.Mutex
	Filename string
	Tables   *sheet.TableSet
	Rules    []sheet.FormatRule
	commits  []*Commit
}

func New() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// CreateSession registers a new empty session with a random id.
func (s *Store) CreateSession(name string) *Session {
	session := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		workbooks: make(map[string]*Workbook),
	}

	s.mutex.Lock()
	s.sessions[session.ID] = session
	s.mutex.Unlock()

	log.Debug().Str("session", session.ID).Msg("session created")
	return session
}

func (s *Store) GetSession(id string) (*Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, newError(ErrSessionNotFound, "%s", id)
	}
	return session, nil
}

// Attach stores tables as a workbook of the session and records the "init" commit. A workbook
// with the same filename is replaced together with its history.
func (s *Store) Attach(sessionID, filename string, tables *sheet.TableSet) (*Workbook, *Commit,
	error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil, newError(ErrSessionNotFound, "%s", sessionID)
	}

	wb := &Workbook{
		Filename: filename,
		Tables:   tables,
	}
	c := s.commit(wb, "init", nil)
	session.workbooks[filename] = wb
	return wb, c, nil
}

// WithWorkbook runs fn while holding the workbook's lock.
func (s *Store) WithWorkbook(sessionID, filename string, fn func(wb *Workbook) error) error {
	wb, err := s.workbook(sessionID, filename)
	if err != nil {
		return err
	}
	wb.mutex.Lock()
	defer wb.mutex.Unlock()
	return fn(wb)
}

func (s *Store) workbook(sessionID, filename string) (*Workbook, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, newError(ErrSessionNotFound, "%s", sessionID)
	}
	wb, ok := session.workbooks[filename]
	if !ok {
		return nil, newError(ErrWorkbookNotFound, "%s", filename)
	}
	return wb, nil
}

// Workbooks returns the filenames attached to a session.
func (s *Store) Workbooks(sessionID string) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, newError(ErrSessionNotFound, "%s", sessionID)
	}
	out := make([]string, 0, len(session.workbooks))
	for name := range session.workbooks {
		out = append(out, name)
	}
	return out, nil
}

// WorkbookCount is the number of workbooks across all sessions.
func (s *Store) WorkbookCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	n := 0
	for _, session := range s.sessions {
		n += len(session.workbooks)
	}
	return n
}
