package repository

import (
	"context"
	"sync"
	"time"

	"github.com/askpdf/askpdf-backend/internal/config"
	"github.com/askpdf/askpdf-backend/internal/entity"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// SessionCache holds conversation sessions in process memory with a TTL.
// Turns are ephemeral by design: nothing here survives a restart.
// Sessions are copied on the way out, so callers never share a Turns
// slice with the store or with each other.
type SessionCache struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

func NewSessionCache(cfg config.SessionConfig) *SessionCache {
	return &SessionCache{
		cache: gocache.New(cfg.TTL, cfg.CleanupInterval),
	}
}

// Create starts a new session. documentID may be empty for unscoped
// conversations.
func (s *SessionCache) Create(_ context.Context, documentID string) *entity.Session {
	session := &entity.Session{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.SetDefault(session.ID, session)
	return copySession(session)
}

// Get returns a copy of the session or entity.ErrSessionNotFound when it
// never existed or already expired.
func (s *SessionCache) Get(_ context.Context, sessionID string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.get(sessionID)
}

// AppendTurn records a question/answer pair and refreshes the TTL.
func (s *SessionCache) AppendTurn(_ context.Context, sessionID string, turn entity.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.get(sessionID)
	if err != nil {
		return err
	}

	session.Turns = append(session.Turns, turn)
	s.cache.SetDefault(sessionID, session)
	return nil
}

// get must be called with mu held. The returned copy owns its Turns
// slice, so mutating it never reaches the stored session.
func (s *SessionCache) get(sessionID string) (*entity.Session, error) {
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return copySession(v.(*entity.Session)), nil
}

func copySession(session *entity.Session) *entity.Session {
	clone := *session
	clone.Turns = append([]entity.ConversationTurn(nil), session.Turns...)
	return &clone
}
