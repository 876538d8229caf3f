// Package git fetches the helper repository.
package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/imamik/nodeinit/internal/logging"
	"github.com/imamik/nodeinit/internal/platform/shell"
	"github.com/imamik/nodeinit/internal/util/retry"
)

// ErrDestinationNotEmpty is returned when the clone target already has content.
var ErrDestinationNotEmpty = errors.New("clone destination exists and is not empty")

// Client clones repositories with the git binary.
type Client struct {
	runner  shell.Runner
	binary  string
	retries int
}

// Option configures a Client.
type Option func(*Client)

// WithBinary overrides the git executable.
func WithBinary(path string) Option {
	return func(c *Client) {
		c.binary = path
	}
}

// WithRetries retries failed clones. The default is none.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.retries = n
	}
}

// NewClient returns a git client running commands through runner.
func NewClient(runner shell.Runner, opts ...Option) *Client {
	c := &Client{runner: runner, binary: "git"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clone clones url into dest. dest must not exist or be an empty
// directory. A failed clone is not cleaned up.
func (c *Client) Clone(ctx context.Context, url, dest string) error {
	if err := checkDestination(dest); err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	logger.Info("cloning repository", "url", url, "dest", dest)

	return retry.Do(ctx, func(ctx context.Context) error {
		_, err := c.runner.Run(ctx, shell.Command{
			Name: c.binary,
			Args: []string{"clone", "--quiet", url, dest},
			Env:  []string{"GIT_TERMINAL_PROMPT=0"},
		})
		if err != nil {
			return fmt.Errorf("git clone %s failed: %w", url, err)
		}
		return nil
	},
		retry.WithMaxRetries(c.retries),
		retry.WithInitialDelay(2*time.Second),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Info("clone failed, retrying", "attempt", attempt, "delay", delay, "error", err.Error())
		}),
	)
}

func checkDestination(dest string) error {
	entries, err := os.ReadDir(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", dest, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s", ErrDestinationNotEmpty, dest)
	}
	return nil
}
