// Package filelock provides file locking and atomic write operations for safe
// concurrent file access across multiple goroutines and processes. Export
// targets are written through this package so that concurrent quicksearch
// invocations never interleave or truncate each other's output files.
package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// ErrLockTimeout is returned when a lock cannot be acquired within the
// allotted time.
var ErrLockTimeout = errors.New("timed out waiting for file lock")

// lockRetryInterval is the pause between acquisition attempts in
// LockWithTimeout.
const lockRetryInterval = 10 * time.Millisecond

// LockMetrics captures how a lock acquisition went.
type LockMetrics struct {
	Attempts int           // Number of acquisition attempts made
	Waited   time.Duration // Total time spent waiting for the lock
	TimedOut bool          // Whether the acquisition gave up
}

// MonitorFunc receives metrics each time a lock acquisition completes.
type MonitorFunc func(path string, metrics LockMetrics)

// FileLock wraps a flock file lock for coordinating access to files.
type FileLock struct {
	flock *flock.Flock
	path  string

	mu      sync.Mutex
	monitor MonitorFunc
	last    LockMetrics
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created at the specified path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// SetMonitor registers a callback invoked after each lock acquisition
// completes, successful or not. Pass nil to remove the monitor.
func (fl *FileLock) SetMonitor(fn MonitorFunc) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	fl.monitor = fn
}

// LastMetrics returns the metrics recorded by the most recent acquisition.
func (fl *FileLock) LastMetrics() LockMetrics {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.last
}

// record stores metrics and notifies the monitor if one is registered.
func (fl *FileLock) record(metrics LockMetrics) {
	fl.mu.Lock()
	fl.last = metrics
	monitor := fl.monitor
	fl.mu.Unlock()

	if monitor != nil {
		monitor(fl.path, metrics)
	}
}

// Lock acquires an exclusive lock on the file, blocking until the lock is available.
// Returns an error if the lock cannot be acquired.
func (fl *FileLock) Lock() error {
	start := time.Now()
	err := fl.flock.Lock()
	fl.record(LockMetrics{
		Attempts: 1,
		Waited:   time.Since(start),
		TimedOut: false,
	})
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// LockWithTimeout attempts to acquire an exclusive lock, retrying until the
// timeout elapses. Returns ErrLockTimeout (wrapped) when the lock could not
// be acquired in time.
func (fl *FileLock) LockWithTimeout(timeout time.Duration) error {
	start := time.Now()
	deadline := start.Add(timeout)
	attempts := 0

	for {
		attempts++
		acquired, err := fl.flock.TryLock()
		if err != nil {
			fl.record(LockMetrics{Attempts: attempts, Waited: time.Since(start)})
			return fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
		}
		if acquired {
			fl.record(LockMetrics{Attempts: attempts, Waited: time.Since(start)})
			return nil
		}
		if time.Now().After(deadline) {
			fl.record(LockMetrics{Attempts: attempts, Waited: time.Since(start), TimedOut: true})
			return fmt.Errorf("lock on %s: %w", fl.path, ErrLockTimeout)
		}
		time.Sleep(lockRetryInterval)
	}
}

// TryLock attempts to acquire an exclusive lock on the file without blocking.
// Returns true if the lock was acquired, false if the lock is held by another process.
// Returns an error if the lock operation fails.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
// Returns an error if the unlock operation fails.
func (fl *FileLock) Unlock() error {
	err := fl.flock.Unlock()
	if err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// AtomicWrite writes data to a file atomically using a temp file and rename strategy.
// This ensures that readers never see partial writes, even if the write is interrupted.
//
// The process:
// 1. Create a temporary file in the same directory as the target
// 2. Write content to the temporary file
// 3. Rename the temporary file to the target path (atomic operation)
//
// If the operation fails at any point, the original file (if it exists) remains unchanged.
func AtomicWrite(path string, data []byte) error {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Create temporary file in same directory as target
	// This ensures the temp file is on the same filesystem, making rename atomic
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Ensure temp file is cleaned up on error
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	// Write data to temp file
	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	// Sync to ensure data is written to disk
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	// Close temp file
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Set correct permissions (0644 = rw-r--r--)
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	// Atomic rename: this is the key operation that makes the write atomic
	// On Unix systems, rename is atomic within the same filesystem
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	// Success - prevent cleanup of temp file since it's now renamed
	tempFile = nil

	return nil
}

// LockAndWrite acquires a lock, performs an atomic write, and releases the lock.
// This is a convenience function for the common pattern of locking before writing.
//
// The lock path is derived by appending ".lock" to the target path, and the
// lock file is removed again once the write completes.
// Example: writing to "results.json" uses lock file "results.json.lock"
func LockAndWrite(path string, data []byte) error {
	lockPath := path + ".lock"
	lock := NewFileLock(lockPath)

	// Acquire lock
	if err := lock.Lock(); err != nil {
		return err
	}
	defer func() {
		lock.Unlock()
		// Best effort: a concurrent writer may have removed it already
		os.Remove(lockPath)
	}()

	// Perform atomic write while holding lock
	return AtomicWrite(path, data)
}
