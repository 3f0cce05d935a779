// Package store persists prompt records and user accounts as whole JSON
// documents behind a GitHub-contents-style file API.
//
// Every document is read and written wholesale. The only concurrency control
// is the store's revision token (sha): a write carrying a stale token is
// rejected, and the higher-level stores re-fetch and retry a bounded number
// of times before surfacing a failure.
package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Contents API errors
var (
	// ErrNotFound is returned when the file does not exist on the branch.
	ErrNotFound = errors.New("store: file not found")

	// ErrRevisionConflict is returned when a write carries a revision token
	// that no longer matches the current document.
	ErrRevisionConflict = errors.New("store: revision conflict")
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

// defaultRequestTimeout bounds a single contents-API round trip.
const defaultRequestTimeout = 15 * time.Second

// File is one fetched document with its revision token.
type File struct {
	// Content is the decoded file content.
	Content []byte

	// SHA is the revision token authorizing the next update.
	SHA string
}

// ContentsConfig configures a ContentsClient.
type ContentsConfig struct {
	// BaseURL of the API. Empty uses DefaultBaseURL.
	BaseURL string

	// Owner and Repo identify the repository holding the documents.
	Owner string
	Repo  string

	// Branch is the ref read from and committed to.
	Branch string

	// Token is the access token sent as a bearer credential.
	Token string

	// Timeout bounds each request. Zero uses a default.
	Timeout time.Duration
}

// ContentsClient reads and writes single files through the generic
// "get file" / "put file with revision token" HTTP contract.
type ContentsClient struct {
	cfg  ContentsConfig
	http *http.Client
}

// NewContentsClient creates a ContentsClient from the given configuration.
func NewContentsClient(cfg ContentsConfig) *ContentsClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}
	return &ContentsClient{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// contentsURL builds the API URL for a file path.
func (c *ContentsClient) contentsURL(path string) string {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.cfg.BaseURL,
		url.PathEscape(c.cfg.Owner),
		url.PathEscape(c.cfg.Repo),
		path,
	)
	if c.cfg.Branch != "" {
		u += "?ref=" + url.QueryEscape(c.cfg.Branch)
	}
	return u
}

// Get fetches a file and its revision token. Returns ErrNotFound if the
// file does not exist on the branch.
func (c *ContentsClient) Get(ctx context.Context, path string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("store: build get request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("store: get %s: unexpected status %d", path, resp.StatusCode)
	}

	var body struct {
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("store: decode get response: %w", err)
	}

	// The API wraps base64 content across lines.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("store: decode file content: %w", err)
	}

	return &File{Content: raw, SHA: body.SHA}, nil
}

// Put writes a file. The sha must be the revision token from the preceding
// Get, or empty when creating a new file. A stale token yields
// ErrRevisionConflict.
func (c *ContentsClient) Put(ctx context.Context, path string, content []byte, sha, message string) error {
	body := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}
	if sha != "" {
		body["sha"] = sha
	}
	if c.cfg.Branch != "" {
		body["branch"] = c.cfg.Branch
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("store: encode put request: %w", err)
	}

	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.cfg.BaseURL,
		url.PathEscape(c.cfg.Owner),
		url.PathEscape(c.cfg.Repo),
		path,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("store: build put request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("store: put %s: %w", path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusConflict, http.StatusUnprocessableEntity:
		// 409 for a stale sha; 422 when no sha was sent but the file exists.
		// Both mean the document moved under us.
		return ErrRevisionConflict
	default:
		return fmt.Errorf("store: put %s: unexpected status %d", path, resp.StatusCode)
	}
}

func (c *ContentsClient) setHeaders(req *http.Request) {
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
}
