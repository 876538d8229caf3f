package async

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
)

// BackgroundTask describes a process whose output goes to a log file.
type BackgroundTask struct {
	Name    string
	Command string
	Args    []string
	Dir     string
	Env     []string // appended to the current environment
	LogFile string
}

// Validate checks that the task can be launched.
func (t BackgroundTask) Validate() error {
	if t.Command == "" {
		return fmt.Errorf("task %q: command is required", t.Name)
	}
	if t.LogFile == "" {
		return fmt.Errorf("task %q: log file is required", t.Name)
	}
	return nil
}

// Handle tracks a started background process.
type Handle struct {
	name string
	pid  int
	done chan struct{}
	err  error
}

// Name returns the task name.
func (h *Handle) Name() string { return h.name }

// PID returns the operating system process ID.
func (h *Handle) PID() int { return h.pid }

// Done is closed once the process has exited and its log file is closed.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err returns the exit error. It is only meaningful after Done is closed.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Wait blocks until the process exits or ctx is done.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ProcessLauncher starts background tasks as detached OS processes.
type ProcessLauncher struct {
	mu      sync.Mutex
	started []*Handle
}

// NewProcessLauncher returns a launcher for detached processes.
func NewProcessLauncher() *ProcessLauncher {
	return &ProcessLauncher{}
}

// Start opens the task's log file, truncating it, and starts the process
// in a new session with stdout and stderr both writing to that file. It
// returns as soon as the process is running.
func (l *ProcessLauncher) Start(task BackgroundTask) (*Handle, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	// #nosec G304 - log path comes from validated configuration
	logFile, err := os.OpenFile(task.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file for %s: %w", task.Name, err)
	}

	// Not CommandContext: the process must outlive the launcher.
	// #nosec G204 - command comes from validated configuration
	cmd := exec.Command(task.Command, task.Args...)
	cmd.Dir = task.Dir
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if len(task.Env) > 0 {
		cmd.Env = append(os.Environ(), task.Env...)
	}

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("failed to start %s: %w", task.Name, err)
	}

	h := &Handle{
		name: task.Name,
		pid:  cmd.Process.Pid,
		done: make(chan struct{}),
	}

	go func() {
		waitErr := cmd.Wait()
		closeErr := logFile.Close()
		h.err = errors.Join(waitErr, closeErr)
		close(h.done)
	}()

	l.mu.Lock()
	l.started = append(l.started, h)
	l.mu.Unlock()

	return h, nil
}

// Started returns the handles of every task started so far.
func (l *ProcessLauncher) Started() []*Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Handle, len(l.started))
	copy(out, l.started)
	return out
}
