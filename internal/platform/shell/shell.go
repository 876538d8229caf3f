// Package shell runs host commands for the platform adapters.
//
// Installers, the git client and the command-based metadata source all go
// through [Runner] so tests can substitute a recording fake.
package shell

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command is a single host command invocation.
type Command struct {
	Name string
	Args []string
	Env  []string // appended to the current environment
	Dir  string
}

// String renders the command the way it would be typed in a shell.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes commands and returns their combined output.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes cmd and waits for it. On failure the returned error carries
// the trimmed command output.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	// #nosec G204 - command names come from validated configuration
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	output, err := c.CombinedOutput()
	if err != nil {
		return output, &ExitError{Command: cmd.String(), Output: strings.TrimSpace(string(output)), Err: err}
	}
	return output, nil
}

// ExitError is returned when a command fails to start or exits non-zero.
type ExitError struct {
	Command string
	Output  string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v\nOutput: %s", e.Command, e.Err, e.Output)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
