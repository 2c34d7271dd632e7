package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/zhouzirui/mylife/backend/internal/model/dialog"
	dialogService "github.com/zhouzirui/mylife/backend/internal/service/dialog"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyText       = errors.New("text is required")
)

// Engine runs dialog transitions.
type Engine interface {
	Start(ctx context.Context, s *dialog.Session) dialog.Reply
	Handle(ctx context.Context, s *dialog.Session, text string) dialog.Reply
}

// conversation serializes transitions for one session.
type conversation struct {
	mu      sync.Mutex
	session *dialog.Session
}

// Service keeps anonymous in-memory sessions and discards them once their
// dialog ends.
type Service struct {
	engine Engine

	mu       sync.RWMutex
	sessions map[string]*conversation
}

// NewService bootstraps the in-memory session registry.
func NewService(engine Engine) *Service {
	return &Service{
		engine:   engine,
		sessions: make(map[string]*conversation),
	}
}

// CreateSession provisions a session and runs the start trigger on it.
func (s *Service) CreateSession(ctx context.Context) (dialog.Session, dialog.Reply) {
	session := dialog.NewSession(uuid.NewString())
	reply := s.engine.Start(ctx, session)

	s.mu.Lock()
	s.sessions[session.ID] = &conversation{session: session}
	s.mu.Unlock()

	return *session, reply
}

// Send applies one inbound text to the session. A terminal reply removes the
// session; a later start needs a new session.
func (s *Service) Send(ctx context.Context, sessionID, text string) (dialog.Reply, error) {
	if strings.TrimSpace(text) == "" {
		return dialog.Reply{}, ErrEmptyText
	}

	s.mu.RLock()
	conv, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return dialog.Reply{}, ErrSessionNotFound
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	// the session may have ended while we waited for the lock
	if !s.has(sessionID, conv) {
		return dialog.Reply{}, ErrSessionNotFound
	}

	reply := s.engine.Handle(ctx, conv.session, text)
	if conv.session.Ended() {
		s.remove(sessionID, conv)
	}
	return reply, nil
}

// SendDetached handles text from a client that holds no live session. The
// start command opens a new session; anything else gets the machine's reply
// for an ended dialog and opens nothing.
func (s *Service) SendDetached(ctx context.Context, text string) (dialog.Session, dialog.Reply, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return dialog.Session{}, dialog.Reply{}, ErrEmptyText
	}
	if input == dialogService.CommandStart {
		session, reply := s.CreateSession(ctx)
		return session, reply, nil
	}
	return dialog.Session{}, s.engine.Handle(ctx, dialog.NewSession(""), input), nil
}

// GetSession retrieves a copy of the session state.
func (s *Service) GetSession(_ context.Context, sessionID string) (dialog.Session, error) {
	s.mu.RLock()
	conv, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return dialog.Session{}, ErrSessionNotFound
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	return *conv.session, nil
}

// CloseSession drops a session without a reply, e.g. when its transport
// goes away. The dialog record is left open.
func (s *Service) CloseSession(_ context.Context, sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) has(sessionID string, conv *conversation) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[sessionID] == conv
}

func (s *Service) remove(sessionID string, conv *conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[sessionID] == conv {
		delete(s.sessions, sessionID)
	}
}
