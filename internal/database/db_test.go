package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreatesDatabaseAndParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.db")

	db, err := New(Config{Path: path, Name: "test"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, path, db.Path())
	assert.Equal(t, "test", db.Name())

	_, err = db.Conn().Exec("CREATE TABLE t (x INTEGER)")
	require.NoError(t, err)
	_, err = db.Conn().Exec("INSERT INTO t (x) VALUES (1)")
	require.NoError(t, err)

	var x int
	require.NoError(t, db.Conn().QueryRow("SELECT x FROM t").Scan(&x))
	assert.Equal(t, 1, x)
}

func TestNew_QueueProfile(t *testing.T) {
	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), "queue.db"),
		Profile: ProfileQueue,
		Name:    "queue",
	})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Conn().Exec("CREATE TABLE t (x INTEGER)")
	assert.NoError(t, err)
}
