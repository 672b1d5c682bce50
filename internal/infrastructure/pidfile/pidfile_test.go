package pidfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/pidfile"
)

func TestLock_AcquireWritesPID(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "rtsbot.pid")
	lock := pidfile.New(path)

	// Act
	require.NoError(t, lock.Acquire())

	// Assert
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid())+"\n", string(data))

	require.NoError(t, lock.Release())
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLock_RejectsLiveHolder(t *testing.T) {
	// Arrange: the parent process is alive and is not us
	path := filepath.Join(t.TempDir(), "rtsbot.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())), 0o644))

	// Act
	err := pidfile.New(path).Acquire()

	// Assert
	var held *pidfile.HeldError
	require.ErrorAs(t, err, &held)
	assert.Equal(t, os.Getppid(), held.PID)
}

func TestLock_TakesOverGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtsbot.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o644))

	lock := pidfile.New(path)

	require.NoError(t, lock.Acquire())
	require.NoError(t, lock.Release())
}

func TestLock_ReleaseWithoutAcquireKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtsbot.pid")
	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0o644))

	require.NoError(t, pidfile.New(path).Release())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
