// Package lockfile provides a single-instance guard for the bot process.
//
// Two BookForge processes sharing one bot token would each receive and
// answer every interaction, so startup takes an exclusive flock on a lock
// file. The kernel drops the lock automatically if the process dies without
// releasing it.
package lockfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

// LockFileName is the name of the lock file created in the runtime directory.
const LockFileName = "bookforge.lock"

// Lock is an acquired single-instance lock.
type Lock struct {
	file     *os.File
	path     string
	acquired bool
}

// Acquire takes the exclusive instance lock in the given directory. It fails
// immediately, without blocking, when another instance holds it.
func Acquire(dir string) (*Lock, error) {
	lockPath := filepath.Join(dir, LockFileName)
	slog.Debug("Acquiring instance lock", "lock_path", lockPath)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory %s: %w", dir, err)
	}
	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", lockPath, err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		slog.Error("Instance lock held by another process", "lock_path", lockPath, "error", err)
		return nil, fmt.Errorf("another BookForge instance is already running (lock file %s): %w", lockPath, err)
	}

	if _, err := fmt.Fprintf(file, "pid=%d\n", os.Getpid()); err != nil {
		syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		file.Close()
		return nil, fmt.Errorf("writing lock file %s: %w", lockPath, err)
	}

	slog.Info("Instance lock acquired", "lock_path", lockPath, "pid", os.Getpid())
	return &Lock{file: file, path: lockPath, acquired: true}, nil
}

// Release drops the lock and removes the lock file. Safe to call twice.
func (l *Lock) Release() error {
	if !l.acquired || l.file == nil {
		return nil
	}
	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		slog.Error("Failed to release flock", "error", err, "lock_path", l.path)
	}
	if err := l.file.Close(); err != nil {
		slog.Error("Failed to close lock file", "error", err, "lock_path", l.path)
	}
	if err := os.Remove(l.path); err != nil {
		slog.Warn("Failed to remove lock file", "error", err, "lock_path", l.path)
	}
	l.acquired = false
	l.file = nil
	slog.Info("Instance lock released", "lock_path", l.path)
	return nil
}
