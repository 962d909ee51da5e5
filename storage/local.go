package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// TokenKey is the only key the front end ever persists.
const TokenKey = "token"

// OpenLocalStorage opens the key/value store under the config dir, creating
// it on first use.
func OpenLocalStorage() (*sql.DB, error) {
	if _, err := ensureConfigDir(); err != nil {
		return nil, err
	}
	path, err := LocalStorePath()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := ensureLocalStorageSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureLocalStorageSchema(db *sql.DB) error {
	createTable := `
CREATE TABLE IF NOT EXISTS local_storage (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`

	if _, err := db.Exec(createTable); err != nil {
		return fmt.Errorf("create local_storage table: %w", err)
	}
	return nil
}

func GetItem(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow("SELECT value FROM local_storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

func SetItem(db *sql.DB, key, value string) error {
	query := `
INSERT INTO local_storage (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;`

	if _, err := db.Exec(query, key, value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func RemoveItem(db *sql.DB, key string) error {
	if _, err := db.Exec("DELETE FROM local_storage WHERE key = ?", key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// TokenStore keeps the bearer token in local storage. It satisfies
// session.Store.
type TokenStore struct {
	db *sql.DB
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) Load() (string, error) {
	token, _, err := GetItem(s.db, TokenKey)
	return token, err
}

func (s *TokenStore) Save(token string) error {
	return SetItem(s.db, TokenKey, token)
}

func (s *TokenStore) Delete() error {
	return RemoveItem(s.db, TokenKey)
}
