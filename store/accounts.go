package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Account store errors
var (
	// ErrUserExists is returned when registering a username already present
	// in the account map. Distinguishable from I/O failures so the UI can
	// tell the user to pick another name.
	ErrUserExists = errors.New("store: username already exists")

	// ErrInvalidUsername is returned for usernames outside the allowed
	// format, before any network call.
	ErrInvalidUsername = errors.New("store: invalid username")

	// ErrEmptyPassword is returned for an empty registration password.
	ErrEmptyPassword = errors.New("store: password cannot be empty")
)

// usernamePattern is the allowed account name format.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// bcryptCost is the hashing cost factor. bcrypt embeds a random per-user
// salt in every hash.
const bcryptCost = 12

// AccountStore keeps the shared username -> password-hash map as a single
// JSON object document.
type AccountStore struct {
	client      *ContentsClient
	path        string
	maxAttempts int
	logger      *zap.Logger
}

// NewAccountStore creates an AccountStore persisting to the given document
// path ("users.json" when empty).
func NewAccountStore(client *ContentsClient, path string, logger *zap.Logger) *AccountStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		path = "users.json"
	}
	return &AccountStore{
		client:      client,
		path:        path,
		maxAttempts: DefaultMaxAttempts,
		logger:      logger,
	}
}

// Register creates a new account. Uniqueness is re-checked against a fresh
// fetch immediately before every write attempt, so losing a revision race
// to a concurrent registration of the same name still fails with
// ErrUserExists rather than silently overwriting.
func (s *AccountStore) Register(ctx context.Context, username, password string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	if password == "" {
		return ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("store: hash password: %w", err)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		accounts, sha, err := s.fetch(ctx)
		if err != nil {
			return err
		}
		if _, exists := accounts[username]; exists {
			return ErrUserExists
		}

		accounts[username] = string(hash)
		payload, err := json.MarshalIndent(accounts, "", "  ")
		if err != nil {
			return fmt.Errorf("store: encode account document: %w", err)
		}

		err = s.client.Put(ctx, s.path, payload, sha, "register "+username)
		if errors.Is(err, ErrRevisionConflict) {
			s.logger.Warn("account document moved during registration, retrying",
				zap.String("username", username),
				zap.Int("attempt", attempt),
			)
			continue
		}
		return err
	}
	return ErrTooManyConflicts
}

// Verify reports whether the username exists and the password matches its
// stored hash. A missing account document verifies nobody.
func (s *AccountStore) Verify(ctx context.Context, username, password string) (bool, error) {
	if !usernamePattern.MatchString(username) || password == "" {
		return false, nil
	}

	accounts, _, err := s.fetch(ctx)
	if err != nil {
		return false, err
	}

	hash, exists := accounts[username]
	if !exists {
		return false, nil
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}

// fetch loads the account map and its revision token. Missing document is
// an empty map with no token; malformed content is treated as empty and
// repaired by the next write.
func (s *AccountStore) fetch(ctx context.Context) (map[string]string, string, error) {
	file, err := s.client.Get(ctx, s.path)
	if errors.Is(err, ErrNotFound) {
		return map[string]string{}, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	accounts := map[string]string{}
	if err := json.Unmarshal(file.Content, &accounts); err != nil {
		s.logger.Warn("malformed account document treated as empty", zap.Error(err))
		return map[string]string{}, file.SHA, nil
	}
	return accounts, file.SHA, nil
}
