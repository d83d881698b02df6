package pid_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/vernier/internal/errors"
	"codeberg.org/mutker/vernier/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "vernier.pid")

	require.NoError(t, pid.Write(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	require.NoError(t, pid.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Removing again is fine
	assert.NoError(t, pid.Remove(path))
}

func TestWriteOwnPIDTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vernier.pid")
	require.NoError(t, pid.Write(path))
	assert.NoError(t, pid.Write(path))
}

func TestWriteDetectsRunningProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vernier.pid")
	// The parent of the test binary is alive for the duration of the test
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())), 0o600))

	err := pid.Write(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestWriteOverwritesGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vernier.pid")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o600))

	require.NoError(t, pid.Write(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("/var/lib/vernier", "vernier.pid"), pid.PathFor("/var/lib/vernier/journal.db"))
}
