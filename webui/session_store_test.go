package webui

import (
	"context"
	"testing"
	"time"
)

func TestSessionStoreCreateAndGet(t *testing.T) {
	s := NewSessionStore(time.Hour)

	session, err := s.Create("alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if session.Username != "alice" {
		t.Errorf("Username = %q", session.Username)
	}

	got, err := s.Get(session.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Get().Username = %q", got.Username)
	}
}

func TestSessionStoreGetMissing(t *testing.T) {
	s := NewSessionStore(time.Hour)
	if _, err := s.Get("no-such-session"); err != ErrSessionNotFound {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	s := NewSessionStore(-time.Minute)

	session, err := s.Create("alice")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(session.ID); err != ErrSessionExpired {
		t.Errorf("Get() error = %v, want ErrSessionExpired", err)
	}
	// Expired sessions are dropped on lookup.
	if s.Count() != 0 {
		t.Errorf("Count() = %d after expired lookup", s.Count())
	}
}

func TestSessionStoreDelete(t *testing.T) {
	s := NewSessionStore(time.Hour)
	session, _ := s.Create("alice")

	s.Delete(session.ID)
	if _, err := s.Get(session.ID); err != ErrSessionNotFound {
		t.Errorf("Get() after Delete() error = %v", err)
	}
	// Deleting again is a no-op.
	s.Delete(session.ID)
}

func TestSessionStoreCleanup(t *testing.T) {
	s := NewSessionStore(-time.Minute)
	for i := 0; i < 3; i++ {
		if _, err := s.Create("alice"); err != nil {
			t.Fatal(err)
		}
	}
	if removed := s.Cleanup(); removed != 3 {
		t.Errorf("Cleanup() removed %d, want 3", removed)
	}
}

func TestUsernameContext(t *testing.T) {
	ctx := WithUsername(context.Background(), "alice")
	if name, ok := UsernameFromContext(ctx); !ok || name != "alice" {
		t.Errorf("UsernameFromContext() = %q, %v", name, ok)
	}
	if _, ok := UsernameFromContext(context.Background()); ok {
		t.Error("bare context reports a username")
	}
}
