package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Prompt store errors
var (
	// ErrTooManyConflicts is returned when a mutation keeps losing the
	// revision race after the bounded number of attempts.
	ErrTooManyConflicts = errors.New("store: too many revision conflicts")

	// ErrRecordNotFound is returned when a delete target does not exist in
	// the freshly fetched document.
	ErrRecordNotFound = errors.New("store: record not found")
)

// DefaultMaxAttempts is the bounded retry count for the fetch-modify-write
// cycle. Contention is low (one document per user), so no backoff.
const DefaultMaxAttempts = 3

// PromptRecord is one favorited or manually entered result. Records are
// immutable once stored and carry a generated ID so deletion never depends
// on a positional index captured from a stale snapshot.
type PromptRecord struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"desc"`
	Generation  string    `json:"prompt"`
	CreatedAt   time.Time `json:"timestamp"`
}

// PromptStore persists each owner's records as one JSON array document.
type PromptStore struct {
	client      *ContentsClient
	pathPrefix  string
	maxAttempts int
	logger      *zap.Logger
}

// NewPromptStore creates a PromptStore writing documents under pathPrefix
// (one file per owner: "<prefix>/<owner>.json").
func NewPromptStore(client *ContentsClient, pathPrefix string, logger *zap.Logger) *PromptStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pathPrefix == "" {
		pathPrefix = "prompts"
	}
	return &PromptStore{
		client:      client,
		pathPrefix:  pathPrefix,
		maxAttempts: DefaultMaxAttempts,
		logger:      logger,
	}
}

func (s *PromptStore) docPath(owner string) string {
	return s.pathPrefix + "/" + owner + ".json"
}

// List fetches and decodes the owner's document. A missing or malformed
// document is an empty collection, never an error; only transport failures
// are reported.
func (s *PromptStore) List(ctx context.Context, owner string) ([]PromptRecord, error) {
	file, err := s.client.Get(ctx, s.docPath(owner))
	if errors.Is(err, ErrNotFound) {
		return []PromptRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeRecords(file.Content, s.logger, owner), nil
}

// Append stores a new record in the owner's document. A missing ID or
// timestamp is filled in before writing. Returns the stored record.
func (s *PromptStore) Append(ctx context.Context, owner string, record PromptRecord) (PromptRecord, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	err := s.update(ctx, owner, "add prompt "+record.ID, func(records []PromptRecord) ([]PromptRecord, error) {
		return append(records, record), nil
	})
	if err != nil {
		return PromptRecord{}, err
	}
	return record, nil
}

// DeleteByID removes the record with the given ID. The match runs against
// the freshly fetched document inside the retry cycle, so a concurrent
// append can never shift the delete target.
func (s *PromptStore) DeleteByID(ctx context.Context, owner, id string) error {
	return s.update(ctx, owner, "delete prompt "+id, func(records []PromptRecord) ([]PromptRecord, error) {
		out := records[:0]
		found := false
		for _, r := range records {
			if r.ID == id {
				found = true
				continue
			}
			out = append(out, r)
		}
		if !found {
			return nil, ErrRecordNotFound
		}
		return out, nil
	})
}

// DeleteAt removes the record at the given position. The index is resolved
// against the freshly fetched list, not a caller snapshot; prefer DeleteByID
// where an ID is available.
func (s *PromptStore) DeleteAt(ctx context.Context, owner string, index int) error {
	return s.update(ctx, owner, fmt.Sprintf("delete prompt at %d", index), func(records []PromptRecord) ([]PromptRecord, error) {
		if index < 0 || index >= len(records) {
			return nil, ErrRecordNotFound
		}
		return append(records[:index], records[index+1:]...), nil
	})
}

// update runs one bounded-retry fetch-modify-write cycle. The mutation is
// re-applied to a fresh fetch on every attempt; a revision conflict on the
// write triggers the next attempt.
func (s *PromptStore) update(ctx context.Context, owner, message string, mutate func([]PromptRecord) ([]PromptRecord, error)) error {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		file, err := s.client.Get(ctx, s.docPath(owner))
		var records []PromptRecord
		var sha string
		switch {
		case errors.Is(err, ErrNotFound):
			records = []PromptRecord{}
		case err != nil:
			return err
		default:
			sha = file.SHA
			records = decodeRecords(file.Content, s.logger, owner)
		}

		mutated, err := mutate(records)
		if err != nil {
			return err
		}

		payload, err := json.MarshalIndent(mutated, "", "  ")
		if err != nil {
			return fmt.Errorf("store: encode prompt document: %w", err)
		}

		err = s.client.Put(ctx, s.docPath(owner), payload, sha, message)
		if errors.Is(err, ErrRevisionConflict) {
			s.logger.Warn("prompt document moved during update, retrying",
				zap.String("owner", owner),
				zap.Int("attempt", attempt),
			)
			continue
		}
		return err
	}
	return ErrTooManyConflicts
}

// decodeRecords treats malformed stored documents as empty rather than
// failing: the document is repaired by the next successful write.
func decodeRecords(content []byte, logger *zap.Logger, owner string) []PromptRecord {
	var records []PromptRecord
	if err := json.Unmarshal(content, &records); err != nil {
		logger.Warn("malformed prompt document treated as empty",
			zap.String("owner", owner),
			zap.Error(err),
		)
		return []PromptRecord{}
	}
	return records
}
