// Package pid guards against two pickers sharing one journal.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/vernier/internal/errors"
)

const (
	fileName = "vernier.pid"
)

// DefaultPath is the lock file used when no journal directory is configured.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), fileName)
}

// PathFor places the lock next to the given journal database.
func PathFor(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), fileName)
}

// Write writes the current process ID to path. A stale file left by a dead
// process is overwritten.
func Write(path string) error {
	errFactory := errors.New()

	if _, err := os.Stat(path); err == nil {
		// PID file exists, check if the process is running
		bytes, err := os.ReadFile(path)
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}

		if pid, err := strconv.Atoi(strings.TrimSpace(string(bytes))); err == nil && pid != os.Getpid() {
			process, err := os.FindProcess(pid)
			if err != nil {
				return errFactory.Wrap(errors.ErrInternal, err)
			}

			if err := process.Signal(syscall.Signal(0)); err == nil {
				return errFactory.WithData(errors.ErrAlreadyRunning, pid)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file.
func Remove(path string) error {
	errFactory := errors.New()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}
