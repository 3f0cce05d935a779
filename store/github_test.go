package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeContents is an in-memory double of the contents API: base64 content,
// sha revision tokens, 404 on missing files, 409 on stale tokens.
type fakeContents struct {
	mu    sync.Mutex
	files map[string]fakeFile
	seq   int

	// beforePut, when set, runs under the lock right before each PUT is
	// validated. Used to simulate concurrent writers.
	beforePut func(f *fakeContents)

	srv *httptest.Server
}

type fakeFile struct {
	content []byte
	sha     string
}

func newFakeContents(t *testing.T) *fakeContents {
	t.Helper()
	f := &fakeContents{files: map[string]fakeFile{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeContents) client() *ContentsClient {
	return NewContentsClient(ContentsConfig{
		BaseURL: f.srv.URL,
		Owner:   "tester",
		Repo:    "prompt-data",
		Branch:  "main",
		Token:   "test-token",
	})
}

// set stores a file directly, bumping its revision.
func (f *fakeContents) set(path string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.files[path] = fakeFile{content: content, sha: fmt.Sprintf("sha-%d", f.seq)}
}

func (f *fakeContents) handle(w http.ResponseWriter, r *http.Request) {
	const prefix = "/repos/tester/prompt-data/contents/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, prefix)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		file, ok := f.files[path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"content": base64.StdEncoding.EncodeToString(file.content),
			"sha":     file.sha,
		})

	case http.MethodPut:
		if f.beforePut != nil {
			f.beforePut(f)
		}
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Content string `json:"content"`
			SHA     string `json:"sha"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		existing, exists := f.files[path]
		if exists && req.SHA != existing.sha {
			w.WriteHeader(http.StatusConflict)
			return
		}
		if !exists && req.SHA != "" {
			w.WriteHeader(http.StatusConflict)
			return
		}

		content, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.seq++
		f.files[path] = fakeFile{content: content, sha: fmt.Sprintf("sha-%d", f.seq)}
		if exists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusCreated)
		}

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestContentsClientGetPutRoundTrip(t *testing.T) {
	fake := newFakeContents(t)
	client := fake.client()
	ctx := context.Background()

	if err := client.Put(ctx, "docs/hello.json", []byte(`{"a":1}`), "", "create"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	file, err := client.Get(ctx, "docs/hello.json")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(file.Content) != `{"a":1}` {
		t.Errorf("Get() content = %s", file.Content)
	}
	if file.SHA == "" {
		t.Error("Get() returned empty revision token")
	}

	// Update with the current token succeeds.
	if err := client.Put(ctx, "docs/hello.json", []byte(`{"a":2}`), file.SHA, "update"); err != nil {
		t.Fatalf("Put() with fresh token error = %v", err)
	}
}

func TestContentsClientGetMissing(t *testing.T) {
	fake := newFakeContents(t)
	_, err := fake.client().Get(context.Background(), "missing.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestContentsClientStaleTokenConflict(t *testing.T) {
	fake := newFakeContents(t)
	client := fake.client()
	ctx := context.Background()

	fake.set("doc.json", []byte("v1"))
	file, err := client.Get(ctx, "doc.json")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	// Someone else writes first.
	fake.set("doc.json", []byte("v2"))

	err = client.Put(ctx, "doc.json", []byte("v3"), file.SHA, "late write")
	if !errors.Is(err, ErrRevisionConflict) {
		t.Errorf("Put() with stale token error = %v, want ErrRevisionConflict", err)
	}
}

func TestContentsClientMultilineBase64(t *testing.T) {
	// The real API wraps base64 content across lines.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoded := base64.StdEncoding.EncodeToString([]byte("hello world"))
		wrapped := encoded[:8] + "\n" + encoded[8:]
		_ = json.NewEncoder(w).Encode(map[string]string{"content": wrapped, "sha": "abc"})
	}))
	defer srv.Close()

	client := NewContentsClient(ContentsConfig{BaseURL: srv.URL, Owner: "o", Repo: "r"})
	file, err := client.Get(context.Background(), "f.txt")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(file.Content) != "hello world" {
		t.Errorf("Get() content = %q, want %q", file.Content, "hello world")
	}
}
