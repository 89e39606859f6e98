// Package localstore is a small key-value store holding the session state
// that the browser UI used to keep in localStorage. Values are JSON-encoded;
// a value that no longer parses is deleted, not repaired.
package localstore

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Logical keys, names preserved from the web client
const (
	KeyUser          = "munc-user"
	KeyNotifications = "munc-notifications"
)

var bucketName = []byte("state")

// Store wraps a bbolt database file
type Store struct {
	db     *bolt.DB
	logger *zap.Logger
}

// Open opens (or creates) the store file at path
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create state bucket: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Get decodes the value stored under key into v. It returns false when the
// key is absent. A value that fails to decode is treated as corrupt: the key
// is deleted and Get reports the key as absent.
func (s *Store) Get(key string, v interface{}) (bool, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucketName).Get([]byte(key)); b != nil {
			raw = append(raw, b...)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to read key %s: %w", key, err)
	}

	if raw == nil {
		return false, nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn("Deleting corrupt entry",
			zap.String("key", key),
			zap.Error(err),
		)
		if delErr := s.Delete(key); delErr != nil {
			return false, fmt.Errorf("failed to delete corrupt key %s: %w", key, delErr)
		}
		return false, nil
	}

	return true, nil
}

// Put JSON-encodes v and stores it under key
func (s *Store) Put(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %s: %w", key, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}

	return nil
}

// Delete removes key from the store. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database file
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the store file
func (s *Store) Path() string {
	return s.db.Path()
}
