package csvimport

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionState tracks an import session through its lifecycle
type SessionState string

const (
	// StateUploaded is the initial state after the file arrives
	StateUploaded SessionState = "uploaded"
	// StateParsed means the preview (headers, sample rows, auto mapping) exists
	StateParsed SessionState = "parsed"
	// StateMappingConfirmed means the caller confirmed or edited the mapping
	StateMappingConfirmed SessionState = "mapping_confirmed"
	// StateCommitting means the batch runner is reconciling rows
	StateCommitting SessionState = "committing"
	// StateCommitted is terminal: durable writes applied
	StateCommitted SessionState = "committed"
	// StateRolledBack is terminal: dry-run completed, writes discarded
	StateRolledBack SessionState = "rolled_back"
	// StateFailed is terminal: a fatal error aborted the batch
	StateFailed SessionState = "failed"
)

// IsTerminal reports whether no further transitions are allowed
func (s SessionState) IsTerminal() bool {
	switch s {
	case StateCommitted, StateRolledBack, StateFailed:
		return true
	}
	return false
}

// Session represents one import session, from upload to terminal state.
// Mapping and row data are request-scoped; only counters and state survive
// for status polling.
type Session struct {
	ID          uuid.UUID    `json:"id"`
	FileName    string       `json:"file_name"`
	FileSize    int64        `json:"file_size"`
	State       SessionState `json:"state"`
	Delimiter   string       `json:"delimiter,omitempty"`
	TotalRows   int          `json:"total_rows"`
	ErrorRows   int          `json:"error_rows"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// NewSession creates a session in the uploaded state
func NewSession(fileName string, fileSize int64) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		FileName:  fileName,
		FileSize:  fileSize,
		State:     StateUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateState advances the session state
func (s *Session) UpdateState(state SessionState) {
	s.State = state
	s.UpdatedAt = time.Now()
	if state.IsTerminal() {
		now := time.Now()
		s.CompletedAt = &now
	}
}

// SessionStore stores import sessions for status polling
type SessionStore interface {
	Save(session *Session) error
	Get(id uuid.UUID) (*Session, error)
	Delete(id uuid.UUID) error
}

// InMemorySessionStore is an in-memory SessionStore with TTL-based cleanup
type InMemorySessionStore struct {
	sessions map[uuid.UUID]*Session
	mu       sync.RWMutex
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewInMemorySessionStore creates a session store whose entries expire after
// the given TTL
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	store := &InMemorySessionStore{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
	go store.cleanupLoop()
	return store
}

func (s *InMemorySessionStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup goroutine
func (s *InMemorySessionStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

// Save saves a session
func (s *InMemorySessionStore) Save(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// Get retrieves a session by ID; expired or unknown sessions return nil
func (s *InMemorySessionStore) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok || time.Since(session.CreatedAt) > s.ttl {
		return nil, nil
	}
	return session, nil
}

// Delete removes a session by ID
func (s *InMemorySessionStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Cleanup removes expired sessions
func (s *InMemorySessionStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if time.Since(session.CreatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
