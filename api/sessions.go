package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketSessions = []byte("sessions")

// SessionStore keeps the session token between runs, one per server URL.
// Without a state directory it keeps the token in memory only.
type SessionStore struct {
	db  *bolt.DB
	key []byte

	mu  sync.Mutex
	mem string
}

// OpenSessionStore opens the session database in stateDir.
func OpenSessionStore(stateDir, serverURL string) (*SessionStore, error) {
	key := []byte(hashServerURL(serverURL))
	if stateDir == "" {
		return &SessionStore{key: key}, nil
	}

	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(stateDir, "cinestream.db"), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SessionStore{db: db, key: key}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// Load returns the stored token, or "" when signed out.
func (s *SessionStore) Load() (string, error) {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.mem, nil
	}

	var token string
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketSessions).Get(s.key); v != nil {
			token = string(v)
		}
		return nil
	})
	return token, err
}

// Save stores token.
func (s *SessionStore) Save(token string) error {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.mem = token
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Put(s.key, []byte(token))
	})
}

// Clear removes the stored token.
func (s *SessionStore) Clear() error {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.mem = ""
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete(s.key)
	})
}

// Close closes the database.
func (s *SessionStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
