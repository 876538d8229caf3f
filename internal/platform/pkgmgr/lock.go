package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Locker serializes package manager invocations.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// HostLock is an in-process mutex combined with flock(2) on a lock file.
// The mutex orders goroutines; the file lock excludes other processes.
type HostLock struct {
	path string
	poll time.Duration

	// mu is a one-slot semaphore so waiting honors ctx.
	mu chan struct{}
}

// NewHostLock returns a lock backed by the file at path.
func NewHostLock(path string) *HostLock {
	return &HostLock{
		path: path,
		poll: 100 * time.Millisecond,
		mu:   make(chan struct{}, 1),
	}
}

// Path returns the lock file location.
func (l *HostLock) Path() string {
	return l.path
}

// Lock blocks until both the in-process and the host lock are held, or
// ctx is done. The returned function releases both.
func (l *HostLock) Lock(ctx context.Context) (func(), error) {
	select {
	case l.mu <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for package lock: %w", ctx.Err())
	}

	f, err := l.acquireFile(ctx)
	if err != nil {
		<-l.mu
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
			_ = f.Close()
			<-l.mu
		})
	}, nil
}

func (l *HostLock) acquireFile(ctx context.Context) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	// #nosec G304 - lock path comes from validated configuration
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file %s: %w", l.path, err)
	}

	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			_ = f.Close()
			return nil, fmt.Errorf("failed to lock %s: %w", l.path, err)
		}

		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, fmt.Errorf("waiting for package lock %s: %w", l.path, ctx.Err())
		case <-ticker.C:
		}
	}
}

// MutexLock is an in-process only Locker, for tests and dry runs.
type MutexLock struct {
	mu sync.Mutex
}

// Lock acquires the mutex. It does not observe ctx.
func (m *MutexLock) Lock(_ context.Context) (func(), error) {
	m.mu.Lock()
	return m.mu.Unlock, nil
}
