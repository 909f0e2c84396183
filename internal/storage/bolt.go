// Package storage persists shell state that outlives a process.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"go.etcd.io/bbolt"
)

const (
	// HistoryKey is the fixed key the command history is stored under.
	HistoryKey = "terminal-history"

	dbDirPerm  = 0o700
	dbFilePerm = 0o600
)

var (
	stateBucket = []byte("state")

	ErrOpenDatabase = errors.New("state database is already open by another process")
)

// DB is a small key/value store backed by a single bbolt file. Values are
// JSON documents.
type DB struct {
	bolt *bbolt.DB
}

// Open opens (or creates) the database file at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), dbDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create directory for state database: %w", err)
	}

	db, err := bbolt.Open(path, dbFilePerm, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		if errors.Is(err, bbolt.ErrTimeout) {
			return nil, ErrOpenDatabase
		}
		return nil, fmt.Errorf("failed to open state database %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(stateBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize state database: %w", err)
	}

	return &DB{bolt: db}, nil
}

// Close releases the database file.
func (db *DB) Close() error {
	return db.bolt.Close()
}

// Get decodes the value stored at key into v. found is false when the key
// does not exist.
func (db *DB) Get(key string, v any) (found bool, err error) {
	err = db.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(stateBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, v)
	})
	return found, err
}

// Put encodes v and stores it at key.
func (db *DB) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(stateBucket).Put([]byte(key), data)
	})
}

// HistoryStore stores the command history under a fixed key.
type HistoryStore struct {
	db  *DB
	key string
}

// NewHistoryStore returns a history store using HistoryKey.
func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db, key: HistoryKey}
}

func (s *HistoryStore) Load() ([]string, error) {
	var entries []string
	if _, err := s.db.Get(s.key, &entries); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return entries, nil
}

func (s *HistoryStore) Save(entries []string) error {
	if entries == nil {
		entries = []string{}
	}
	if err := s.db.Put(s.key, entries); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}
