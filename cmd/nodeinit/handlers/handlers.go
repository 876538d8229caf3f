// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/imamik/nodeinit/internal/bootstrap"
	"github.com/imamik/nodeinit/internal/config"
	"github.com/imamik/nodeinit/internal/logging"
	"github.com/imamik/nodeinit/internal/platform/git"
	"github.com/imamik/nodeinit/internal/platform/metadata"
	"github.com/imamik/nodeinit/internal/platform/pkgmgr"
	"github.com/imamik/nodeinit/internal/platform/s3"
	"github.com/imamik/nodeinit/internal/platform/shell"
	"github.com/imamik/nodeinit/internal/util/async"
)

// logUploader is the part of the S3 client used by ship-logs.
type logUploader interface {
	EnsureBucket(ctx context.Context, bucket string) error
	UploadFile(ctx context.Context, bucket, key, path string) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig resolves the configuration file.
	loadConfig = config.Load

	// loadTimeouts reads step timeouts from the environment.
	loadTimeouts = config.LoadTimeouts

	// newRunner creates the command runner shared by the adapters.
	newRunner = func() shell.Runner {
		return shell.NewExecRunner()
	}

	// newRoleSource creates the metadata source for role detection.
	newRoleSource = func(cfg config.MetadataConfig, runner shell.Runner) (bootstrap.RoleSource, error) {
		return metadata.NewSource(cfg, runner)
	}

	// newInstaller creates the package installer guarded by the host lock.
	newInstaller = func(cfg *config.Config, runner shell.Runner) bootstrap.Installer {
		return pkgmgr.NewInstaller(runner, pkgmgr.NewHostLock(cfg.Packages.LockFile))
	}

	// newFetcher creates the repository fetcher.
	newFetcher = func(runner shell.Runner) bootstrap.Fetcher {
		return git.NewClient(runner)
	}

	// newLauncher creates the background task launcher.
	newLauncher = func() bootstrap.Launcher {
		return async.NewProcessLauncher()
	}

	// newUploader creates the S3 client for ship-logs.
	newUploader = func(ctx context.Context, cfg config.ShippingConfig) (logUploader, error) {
		return s3.NewClient(ctx, cfg.Endpoint, cfg.Region, cfg.AccessKey, cfg.SecretKey, cfg.PathStyle)
	}

	// hostname returns the node name used in shipped object keys.
	hostname = os.Hostname

	// now is the clock for metrics timestamps.
	now = time.Now

	// stdout receives command output.
	stdout io.Writer = os.Stdout

	// logOutput receives log lines.
	logOutput io.Writer = os.Stderr
)

// setup loads the configuration and attaches a logger built from it to ctx.
func setup(ctx context.Context, configPath string) (context.Context, *config.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(logOutput, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logging.IntoContext(ctx, logger.WithName("nodeinit")), cfg, nil
}

// roleSource returns the override when set and the configured metadata
// source otherwise.
func roleSource(cfg *config.Config, runner shell.Runner, override *string) (bootstrap.RoleSource, error) {
	if override != nil {
		return metadata.Static(*override), nil
	}
	src, err := newRoleSource(cfg.Metadata, runner)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata source: %w", err)
	}
	return src, nil
}
