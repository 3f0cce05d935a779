package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestPromptStore(t *testing.T) (*PromptStore, *fakeContents) {
	t.Helper()
	fake := newFakeContents(t)
	return NewPromptStore(fake.client(), "prompts", nil), fake
}

func TestPromptStoreAppendThenList(t *testing.T) {
	s, _ := newTestPromptStore(t)
	ctx := context.Background()

	stored, err := s.Append(ctx, "alice", PromptRecord{
		Category:    "landscape",
		Description: "misty valley",
		Generation:  "misty valley at dawn --ar 16:9 --s 250 --c 0",
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if stored.ID == "" {
		t.Error("Append() did not assign an ID")
	}
	if stored.CreatedAt.IsZero() {
		t.Error("Append() did not assign a timestamp")
	}

	records, err := s.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("List() returned %d records, want 1", len(records))
	}
	got := records[0]
	if got.ID != stored.ID || got.Category != "landscape" || got.Description != "misty valley" || got.Generation != stored.Generation {
		t.Errorf("round-tripped record = %+v, want %+v", got, stored)
	}
}

func TestPromptStoreListMissingDocument(t *testing.T) {
	s, _ := newTestPromptStore(t)

	records, err := s.List(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("List() on missing document = %d records, want 0", len(records))
	}
}

func TestPromptStoreListMalformedDocument(t *testing.T) {
	s, fake := newTestPromptStore(t)
	fake.set("prompts/alice.json", []byte("{{{ not json"))

	records, err := s.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("malformed document should read as empty, got %d records", len(records))
	}
}

func TestPromptStoreOwnersAreIndependent(t *testing.T) {
	s, _ := newTestPromptStore(t)
	ctx := context.Background()

	if _, err := s.Append(ctx, "alice", PromptRecord{Category: "a"}); err != nil {
		t.Fatalf("Append(alice) error = %v", err)
	}
	records, err := s.List(ctx, "bob")
	if err != nil {
		t.Fatalf("List(bob) error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("bob sees %d of alice's records", len(records))
	}
}

func TestPromptStoreDeleteByID(t *testing.T) {
	s, _ := newTestPromptStore(t)
	ctx := context.Background()

	var ids []string
	for _, cat := range []string{"first", "second", "third"} {
		rec, err := s.Append(ctx, "alice", PromptRecord{Category: cat})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		ids = append(ids, rec.ID)
	}

	if err := s.DeleteByID(ctx, "alice", ids[1]); err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}

	records, err := s.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records after delete, want 2", len(records))
	}
	// Remaining records keep their relative order.
	if records[0].Category != "first" || records[1].Category != "third" {
		t.Errorf("records after delete = %q, %q; want first, third", records[0].Category, records[1].Category)
	}
}

func TestPromptStoreDeleteByIDMissing(t *testing.T) {
	s, _ := newTestPromptStore(t)
	ctx := context.Background()

	if _, err := s.Append(ctx, "alice", PromptRecord{Category: "only"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	err := s.DeleteByID(ctx, "alice", "no-such-id")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("DeleteByID() error = %v, want ErrRecordNotFound", err)
	}

	records, _ := s.List(ctx, "alice")
	if len(records) != 1 {
		t.Errorf("failed delete must not alter the document, got %d records", len(records))
	}
}

func TestPromptStoreDeleteAt(t *testing.T) {
	s, _ := newTestPromptStore(t)
	ctx := context.Background()

	for _, cat := range []string{"a", "b", "c"} {
		if _, err := s.Append(ctx, "alice", PromptRecord{Category: cat}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	if err := s.DeleteAt(ctx, "alice", 0); err != nil {
		t.Fatalf("DeleteAt() error = %v", err)
	}
	records, _ := s.List(ctx, "alice")
	if len(records) != 2 || records[0].Category != "b" || records[1].Category != "c" {
		t.Errorf("records after DeleteAt(0) = %+v", records)
	}

	if err := s.DeleteAt(ctx, "alice", 5); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("DeleteAt(out of range) error = %v, want ErrRecordNotFound", err)
	}
}

func TestPromptStoreAppendRetriesOnConflict(t *testing.T) {
	s, fake := newTestPromptStore(t)
	ctx := context.Background()

	if _, err := s.Append(ctx, "alice", PromptRecord{Category: "existing"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// A concurrent writer bumps the revision before the first two write
	// attempts, forcing re-fetch and retry.
	conflicts := 0
	fake.beforePut = func(f *fakeContents) {
		if conflicts < 2 {
			conflicts++
			f.seq++
			cur := f.files["prompts/alice.json"]
			f.files["prompts/alice.json"] = fakeFile{content: cur.content, sha: "sha-bumped-" + time.Now().String()}
		}
	}

	if _, err := s.Append(ctx, "alice", PromptRecord{Category: "late"}); err != nil {
		t.Fatalf("Append() with transient conflicts error = %v", err)
	}
	if conflicts != 2 {
		t.Errorf("expected 2 simulated conflicts, got %d", conflicts)
	}

	fake.beforePut = nil
	records, _ := s.List(ctx, "alice")
	if len(records) != 2 {
		t.Errorf("got %d records, want both appends present", len(records))
	}
}

func TestPromptStoreGivesUpAfterBoundedAttempts(t *testing.T) {
	s, fake := newTestPromptStore(t)
	ctx := context.Background()

	if _, err := s.Append(ctx, "alice", PromptRecord{Category: "seed"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	attempts := 0
	fake.beforePut = func(f *fakeContents) {
		attempts++
		f.seq++
		cur := f.files["prompts/alice.json"]
		f.files["prompts/alice.json"] = fakeFile{content: cur.content, sha: "always-stale-" + time.Now().String()}
	}

	_, err := s.Append(ctx, "alice", PromptRecord{Category: "never lands"})
	if !errors.Is(err, ErrTooManyConflicts) {
		t.Fatalf("Append() error = %v, want ErrTooManyConflicts", err)
	}
	if attempts != DefaultMaxAttempts {
		t.Errorf("made %d attempts, want %d", attempts, DefaultMaxAttempts)
	}
}
