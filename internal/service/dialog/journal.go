package dialog

import (
	"context"
	"log"

	"github.com/zhouzirui/mylife/backend/internal/model/dialog"
)

// Dialog log calls below never change the transition outcome. A failure is
// logged and the conversation carries on; a failed begin leaves the session
// without a correlation id, so later calls are skipped.

func (m *Machine) begin(ctx context.Context) string {
	id, err := m.log.Begin(ctx)
	if err != nil {
		log.Printf("[dialog] begin dialog log failed: %v", err)
		return ""
	}
	if id != "" {
		log.Printf("[dialog] started dialog %s", id)
	}
	return id
}

func (m *Machine) setState(ctx context.Context, s *dialog.Session, state string) {
	if s.DialogID == "" {
		return
	}
	if err := m.log.SetState(ctx, s.DialogID, state); err != nil {
		log.Printf("[dialog] update dialog %s state failed: %v", s.DialogID, err)
	}
}

func (m *Machine) end(ctx context.Context, s *dialog.Session, final string) {
	id := s.DialogID
	if id == "" {
		return
	}
	s.DialogID = ""
	if err := m.log.End(ctx, id, final); err != nil {
		log.Printf("[dialog] end dialog %s failed: %v", id, err)
		return
	}
	log.Printf("[dialog] dialog %s ended with state: %s", id, final)
}

type nopLog struct{}

func (nopLog) Begin(context.Context) (string, error) { return "", nil }

func (nopLog) SetState(context.Context, string, string) error { return nil }

func (nopLog) End(context.Context, string, string) error { return nil }
