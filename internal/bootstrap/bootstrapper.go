package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/imamik/nodeinit/internal/config"
	"github.com/imamik/nodeinit/internal/logging"
	"github.com/imamik/nodeinit/internal/util/async"
)

// Installer installs a package set. Implementations must serialize calls
// on the host package manager lock.
type Installer interface {
	Install(ctx context.Context, set config.PackageSet) error
}

// RoleSource reads an instance metadata attribute.
type RoleSource interface {
	Attribute(ctx context.Context, name string) (string, error)
}

// Fetcher clones a repository.
type Fetcher interface {
	Clone(ctx context.Context, url, dest string) error
}

// Launcher starts a background task without waiting for it.
type Launcher interface {
	Start(task async.BackgroundTask) (*async.Handle, error)
}

// Observer receives step outcomes. metrics.Recorder implements it.
type Observer interface {
	ObserveStep(step string, d time.Duration, err error)
	SetLeader(leader bool)
	TaskLaunched(name string)
}

// Deps are the external systems the bootstrap drives.
type Deps struct {
	Installer Installer
	Roles     RoleSource
	Fetcher   Fetcher
	Launcher  Launcher
}

// Bootstrapper runs the node initialization sequence.
type Bootstrapper struct {
	cfg      *config.Config
	deps     Deps
	observer Observer
	timeouts config.Timeouts
	workDir  string
	dryRun   bool
	now      func() time.Time
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithObserver reports step outcomes to o.
func WithObserver(o Observer) Option {
	return func(b *Bootstrapper) {
		b.observer = o
	}
}

// WithTimeouts bounds steps. Zero durations leave a step unbounded.
func WithTimeouts(t config.Timeouts) Option {
	return func(b *Bootstrapper) {
		b.timeouts = t
	}
}

// WithWorkDir resolves relative log file paths against dir instead of
// the process working directory.
func WithWorkDir(dir string) Option {
	return func(b *Bootstrapper) {
		b.workDir = dir
	}
}

// WithDryRun logs side-effecting steps instead of running them. Role
// detection still queries metadata.
func WithDryRun(dryRun bool) Option {
	return func(b *Bootstrapper) {
		b.dryRun = dryRun
	}
}

// New returns a Bootstrapper for cfg. All deps are required.
func New(cfg *config.Config, deps Deps, opts ...Option) (*Bootstrapper, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if deps.Installer == nil || deps.Roles == nil || deps.Fetcher == nil || deps.Launcher == nil {
		return nil, errors.New("installer, role source, fetcher and launcher are required")
	}

	b := &Bootstrapper{
		cfg:      cfg,
		deps:     deps,
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// LaunchedTask describes a background task that was started. Its handle
// is deliberately not kept.
type LaunchedTask struct {
	Name    string
	LogFile string
	PID     int
}

// Result summarizes a run.
type Result struct {
	Role        Role
	Leader      bool
	LeaderSetup bool
	Launched    []LaunchedTask
	Duration    time.Duration
}

// Run installs the shared dependencies, detects the role and, on the
// leader, runs the leader setup. The first foreground failure stops the
// sequence and is returned as a *StepError; the partial Result is still
// returned.
func (b *Bootstrapper) Run(ctx context.Context) (*Result, error) {
	logger := logging.FromContext(ctx)
	start := b.now()
	res := &Result{}
	defer func() { res.Duration = b.now().Sub(start) }()

	logger.Info("Phase 1/3: installing shared dependencies")
	if err := b.InstallSharedDependencies(ctx); err != nil {
		return res, err
	}

	logger.Info("Phase 2/3: detecting node role")
	role, err := b.DetectRole(ctx)
	if err != nil {
		return res, err
	}
	res.Role = role
	res.Leader = role.IsLeader(b.cfg.Metadata.LeaderRole)
	b.observer.SetLeader(res.Leader)

	if !res.Leader {
		logger.Info("node is not the leader, skipping leader setup", "role", role.String())
		return res, nil
	}

	logger.Info("Phase 3/3: running leader setup", "role", role.String())
	res.LeaderSetup = true
	launched, err := b.RunLeaderSetup(ctx, role)
	res.Launched = launched
	if err != nil {
		return res, err
	}

	logger.Info("bootstrap complete, background tasks left running", "tasks", len(launched))
	return res, nil
}

type nopObserver struct{}

func (nopObserver) ObserveStep(string, time.Duration, error) {}
func (nopObserver) SetLeader(bool)                           {}
func (nopObserver) TaskLaunched(string)                      {}
