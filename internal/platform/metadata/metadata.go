package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/imamik/nodeinit/internal/config"
	"github.com/imamik/nodeinit/internal/logging"
	"github.com/imamik/nodeinit/internal/platform/shell"
	"github.com/imamik/nodeinit/internal/util/retry"
)

// Source returns the value of a named instance attribute.
type Source interface {
	Attribute(ctx context.Context, name string) (string, error)
}

// ErrUnexpectedStatus is returned for metadata responses other than 200 and 404.
var ErrUnexpectedStatus = errors.New("unexpected metadata status")

const attributesPath = "/computeMetadata/v1/instance/attributes/"

// maxValueSize bounds attribute bodies; role values are a few bytes.
const maxValueSize = 64 << 10

// Client reads attributes from the GCE metadata server.
type Client struct {
	endpoint   string
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(m *Client) {
		m.httpClient = c
	}
}

// WithRetries enables retrying transient failures. The default is none.
func WithRetries(n int, initialDelay time.Duration) ClientOption {
	return func(m *Client) {
		m.retries = n
		m.retryDelay = initialDelay
	}
}

// NewClient returns a client for the metadata server at endpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{},
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attribute fetches an instance attribute. A 404 yields "" and no error.
func (c *Client) Attribute(ctx context.Context, name string) (string, error) {
	logger := logging.FromContext(ctx)
	var value string

	err := retry.Do(ctx, func(ctx context.Context) error {
		v, err := c.fetch(ctx, name)
		if err != nil {
			return err
		}
		value = v
		return nil
	},
		retry.WithMaxRetries(c.retries),
		retry.WithInitialDelay(c.retryDelay),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Info("metadata query failed, retrying", "attribute", name, "attempt", attempt, "delay", delay, "error", err.Error())
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to read metadata attribute %s: %w", name, err)
	}
	return value, nil
}

func (c *Client) fetch(ctx context.Context, name string) (string, error) {
	u := c.endpoint + attributesPath + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", retry.Fatal(err)
	}
	req.Header.Set("Metadata-Flavor", "Google")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxValueSize))
		if err != nil {
			return "", fmt.Errorf("failed to read metadata response: %w", err)
		}
		return strings.TrimSpace(string(body)), nil
	case resp.StatusCode == http.StatusNotFound:
		return "", nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", retry.Fatal(fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status))
	default:
		return "", fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
}

// CommandSource reads attributes with the image's metadata helper binary,
// invoked as `<command> attributes/<name>`.
type CommandSource struct {
	runner  shell.Runner
	command string
}

// NewCommandSource returns a Source that runs command through runner.
func NewCommandSource(runner shell.Runner, command string) *CommandSource {
	return &CommandSource{runner: runner, command: command}
}

// Attribute runs the helper and returns its trimmed output.
func (s *CommandSource) Attribute(ctx context.Context, name string) (string, error) {
	out, err := s.runner.Run(ctx, shell.Command{Name: s.command, Args: []string{"attributes/" + name}})
	if err != nil {
		return "", fmt.Errorf("failed to read metadata attribute %s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Static is a Source that returns the same value for every attribute.
type Static string

// Attribute returns the static value.
func (s Static) Attribute(_ context.Context, _ string) (string, error) {
	return string(s), nil
}

// NewSource builds the Source described by cfg.
func NewSource(cfg config.MetadataConfig, runner shell.Runner) (Source, error) {
	switch cfg.Source {
	case config.MetadataSourceHTTP:
		return NewClient(cfg.Endpoint,
			WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			WithRetries(cfg.Retries, time.Second),
		), nil
	case config.MetadataSourceCommand:
		return NewCommandSource(runner, cfg.Command), nil
	default:
		return nil, fmt.Errorf("unsupported metadata source %q", cfg.Source)
	}
}
