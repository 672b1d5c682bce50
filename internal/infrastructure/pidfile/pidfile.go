package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// HeldError reports that a live process already holds the lock
type HeldError struct {
	Path string
	PID  int
}

func (e *HeldError) Error() string {
	return fmt.Sprintf("%s is held by running process %d", e.Path, e.PID)
}

// Lock keeps one bot per simulation seat: whoever writes its PID into the
// file first owns the seat until Release. Files naming a dead process or
// holding garbage are taken over.
type Lock struct {
	path string
	held bool
}

// New creates a lock backed by path
func New(path string) *Lock {
	return &Lock{path: path}
}

// Path returns the lock file location
func (l *Lock) Path() string {
	return l.path
}

// Acquire claims the lock for the current process
func (l *Lock) Acquire() error {
	if pid, ok := readPID(l.path); ok && pid != os.Getpid() && alive(pid) {
		return &HeldError{Path: l.path, PID: pid}
	}
	data := []byte(strconv.Itoa(os.Getpid()) + "\n")
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	l.held = true
	return nil
}

// Release removes the file if this lock wrote it
func (l *Lock) Release() error {
	if !l.held {
		return nil
	}
	l.held = false
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove pid file: %w", err)
	}
	return nil
}

func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// alive probes pid with signal 0, which checks existence without delivery
func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
