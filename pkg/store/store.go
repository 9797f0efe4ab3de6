package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a sqlite database of JSON documents, one table per Go type.
// Writes are serialised through WriteMu.
type Store struct {
	Path    string
	DB      *sql.DB
	WriteMu sync.Mutex
}

func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	return &Store{Path: path, DB: db}, nil
}

func (s *Store) Close() error {
	s.WriteMu.Lock()
	defer s.WriteMu.Unlock()
	return s.DB.Close()
}

// Table is a key/value view of one table. Values are stored as JSON next
// to the time they were last written.
type Table[T any] struct {
	s    *Store
	Name string
}

// GetTable creates the table for T if needed. The table is named after the
// type, lowercased with underscores removed.
func GetTable[T any](s *Store) (*Table[T], error) {
	name := reflect.TypeOf((*T)(nil)).Elem().Name()
	name = strings.ToLower(strings.ReplaceAll(name, "_", ""))

	s.WriteMu.Lock()
	defer s.WriteMu.Unlock()
	_, err := s.DB.Exec(`CREATE TABLE IF NOT EXISTS ` + name + ` (
		key     TEXT PRIMARY KEY,
		value   JSON NOT NULL,
		updated INTEGER NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("creating table %s: %w", name, err)
	}
	return &Table[T]{s: s, Name: name}, nil
}

func (t *Table[T]) Set(key string, value T) error {
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s %q: %w", t.Name, key, err)
	}

	t.s.WriteMu.Lock()
	defer t.s.WriteMu.Unlock()
	_, err = t.s.DB.Exec(`INSERT INTO `+t.Name+` (key, value, updated) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated = excluded.updated`,
		key, doc, time.Now().Unix())
	return err
}

// Get returns sql.ErrNoRows when nothing is stored under key.
func (t *Table[T]) Get(key string) (T, error) {
	var value T
	var doc []byte
	if err := t.s.DB.QueryRow(`SELECT value FROM `+t.Name+` WHERE key = ?`, key).Scan(&doc); err != nil {
		return value, err
	}
	if err := json.Unmarshal(doc, &value); err != nil {
		return value, fmt.Errorf("%s %q: %w", t.Name, key, err)
	}
	return value, nil
}

func (t *Table[T]) Del(key string) error {
	t.s.WriteMu.Lock()
	defer t.s.WriteMu.Unlock()
	_, err := t.s.DB.Exec(`DELETE FROM `+t.Name+` WHERE key = ?`, key)
	return err
}

// All returns every value ordered by key.
func (t *Table[T]) All() ([]T, error) {
	rows, err := t.s.DB.Query(`SELECT key, value FROM ` + t.Name + ` ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []T{}
	for rows.Next() {
		var key string
		var doc []byte
		if err := rows.Scan(&key, &doc); err != nil {
			return nil, err
		}
		var value T
		if err := json.Unmarshal(doc, &value); err != nil {
			return nil, fmt.Errorf("%s %q: %w", t.Name, key, err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}
