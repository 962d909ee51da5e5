package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "venue")
	SetDataDir(dir)
	t.Cleanup(func() { SetDataDir("") })
	return dir
}

func TestTokenStoreRoundTrip(t *testing.T) {
	dir := useTempDir(t)

	db, err := OpenLocalStorage()
	require.NoError(t, err)
	defer db.Close()

	path, err := LocalStorePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "local.db"), path)

	store := NewTokenStore(db)
	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("first"))
	require.NoError(t, store.Save("second"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM local_storage").Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, store.Delete())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenSurvivesReopen(t *testing.T) {
	useTempDir(t)

	db, err := OpenLocalStorage()
	require.NoError(t, err)
	require.NoError(t, NewTokenStore(db).Save("persisted"))
	require.NoError(t, db.Close())

	db, err = OpenLocalStorage()
	require.NoError(t, err)
	defer db.Close()
	token, err := NewTokenStore(db).Load()
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

func TestGetItemPropagatesErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM local_storage").
		WithArgs(TokenKey).
		WillReturnError(errors.New("disk I/O error"))

	_, err = NewTokenStore(db).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read token")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetItemUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO local_storage").
		WithArgs(TokenKey, "abc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM local_storage").
		WithArgs(TokenKey).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewTokenStore(db)
	require.NoError(t, store.Save("abc"))
	require.NoError(t, store.Delete())
	assert.NoError(t, mock.ExpectationsWereMet())
}
