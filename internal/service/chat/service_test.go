package chat_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/zhouzirui/mylife/backend/internal/model/dialog"
	"github.com/zhouzirui/mylife/backend/internal/model/questionary"
	chat "github.com/zhouzirui/mylife/backend/internal/service/chat"
	dialogService "github.com/zhouzirui/mylife/backend/internal/service/dialog"
)

func newService(t *testing.T) *chat.Service {
	t.Helper()
	catalog, err := questionary.Default()
	if err != nil {
		t.Fatalf("Default err: %v", err)
	}
	machine := dialogService.NewMachine(questionary.NewMemoryRepository(catalog), nil)
	return chat.NewService(machine)
}

func TestServiceCreateSessionStartsAtMainMenu(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	session, reply := svc.CreateSession(ctx)
	if session.ID == "" {
		t.Fatal("expected session id")
	}
	if reply.State != dialog.StateMainMenu {
		t.Fatalf("expected MAIN_MENU, got %s", reply.State)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}
	if got.State != dialog.StateMainMenu {
		t.Fatalf("unexpected stored state %s", got.State)
	}
}

func TestServiceSendAdvancesSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx)

	reply, err := svc.Send(ctx, session.ID, "Самопознание: Кто Я?")
	if err != nil {
		t.Fatalf("Send err: %v", err)
	}
	if reply.State != dialog.StateSectionMenu {
		t.Fatalf("expected SECTION_MENU, got %s", reply.State)
	}

	got, _ := svc.GetSession(ctx, session.ID)
	if got.Section != "Самопознание: Кто Я?" {
		t.Fatalf("section not stored: %+v", got)
	}
}

func TestServiceDiscardsEndedSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx)

	reply, err := svc.Send(ctx, session.ID, dialogService.CommandCancel)
	if err != nil {
		t.Fatalf("Send err: %v", err)
	}
	if !reply.Ended {
		t.Fatal("expected terminal reply")
	}
	if svc.Len() != 0 {
		t.Fatalf("expected session to be discarded, have %d", svc.Len())
	}
	if _, err := svc.Send(ctx, session.ID, "/start"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceSendValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Send(ctx, "missing", "hi"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	session, _ := svc.CreateSession(ctx)
	if _, err := svc.Send(ctx, session.ID, "   "); !errors.Is(err, chat.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestServiceSendDetached(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	session, reply, err := svc.SendDetached(ctx, "привет")
	if err != nil {
		t.Fatalf("SendDetached err: %v", err)
	}
	if session.ID != "" || !reply.Ended || svc.Len() != 0 {
		t.Fatalf("expected hint without session, got %+v %+v", session, reply)
	}

	session, reply, err = svc.SendDetached(ctx, "/start")
	if err != nil {
		t.Fatalf("SendDetached err: %v", err)
	}
	if session.ID == "" || reply.State != dialog.StateMainMenu || svc.Len() != 1 {
		t.Fatalf("expected new session, got %+v %+v", session, reply)
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := newService(t)
	if _, err := svc.GetSession(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for missing session")
	}
}

func TestServiceSessionsAreIsolated(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, _ := svc.CreateSession(ctx)
			for range 5 {
				if _, err := svc.Send(ctx, session.ID, "Вектор: Куда я движусь?"); err != nil {
					t.Errorf("Send err: %v", err)
					return
				}
				if _, err := svc.Send(ctx, session.ID, dialogService.LabelMainMenu); err != nil {
					t.Errorf("Send err: %v", err)
					return
				}
			}
			svc.CloseSession(ctx, session.ID)
		}()
	}
	wg.Wait()

	if svc.Len() != 0 {
		t.Fatalf("expected all sessions closed, have %d", svc.Len())
	}
}
