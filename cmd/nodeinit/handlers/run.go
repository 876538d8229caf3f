package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/nodeinit/internal/bootstrap"
	"github.com/imamik/nodeinit/internal/logging"
	"github.com/imamik/nodeinit/internal/metrics"
)

// RunOptions are the flags of the run command.
type RunOptions struct {
	ConfigPath string
	// Role replaces metadata lookup when non-nil. An empty string is a
	// valid, non-leader role.
	Role        *string
	DryRun      bool
	MetricsFile string
}

// Run performs the node bootstrap:
//  1. installs the shared packages on every node
//  2. reads the node role from instance metadata
//  3. on the leader, clones the helper repository, links it, installs the
//     leader packages and starts the init scripts in the background
//
// It returns once the background scripts have been started. Their outcome
// is only visible in their log files.
func Run(ctx context.Context, opts RunOptions) error {
	ctx, cfg, err := setup(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	runner := newRunner()
	roles, err := roleSource(cfg, runner, opts.Role)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	b, err := bootstrap.New(cfg, bootstrap.Deps{
		Installer: newInstaller(cfg, runner),
		Roles:     roles,
		Fetcher:   newFetcher(runner),
		Launcher:  newLauncher(),
	},
		bootstrap.WithObserver(recorder),
		bootstrap.WithTimeouts(*loadTimeouts()),
		bootstrap.WithDryRun(opts.DryRun),
	)
	if err != nil {
		return fmt.Errorf("failed to create bootstrapper: %w", err)
	}

	if opts.DryRun {
		logger.Info("dry run: no packages, files or processes will be touched")
	}

	res, runErr := b.Run(ctx)

	metricsFile := opts.MetricsFile
	if metricsFile == "" {
		metricsFile = cfg.Metrics.TextfilePath
	}
	if metricsFile != "" && !opts.DryRun {
		if err := recorder.WriteTextfile(metricsFile, now()); err != nil {
			logger.Error(err, "failed to write metrics", "path", metricsFile)
		}
	}

	if runErr != nil {
		return fmt.Errorf("bootstrap failed: %w", runErr)
	}

	for _, task := range res.Launched {
		logger.Info("background task running", "task", task.Name, "pid", task.PID, "log", task.LogFile)
	}
	logger.Info("bootstrap finished", "role", res.Role.String(), "leader", res.Leader, "duration", res.Duration.Round(time.Millisecond))
	return nil
}
