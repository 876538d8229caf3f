package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/imamik/nodeinit/internal/logging"
	"github.com/imamik/nodeinit/internal/util/async"
	"github.com/imamik/nodeinit/internal/util/naming"
)

// step runs fn as a named step: it applies the step timeout, reports to
// the observer and wraps failures in a StepError. In dry-run mode a
// mutating step is logged and skipped.
func (b *Bootstrapper) step(ctx context.Context, name string, timeout time.Duration, mutating bool, fn func(context.Context) error) error {
	logger := logging.FromContext(ctx).WithValues("step", name)

	if mutating && b.dryRun {
		logger.Info("dry run: skipping step")
		return nil
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := b.now()
	err := fn(logging.IntoContext(ctx, logger))
	b.observer.ObserveStep(name, b.now().Sub(start), err)

	if err != nil {
		return &StepError{Step: name, Err: err}
	}
	logger.V(1).Info("step finished", "duration", b.now().Sub(start).Round(time.Millisecond))
	return nil
}

// InstallSharedDependencies installs the packages every node needs. A
// failed install is fatal.
func (b *Bootstrapper) InstallSharedDependencies(ctx context.Context) error {
	return b.step(ctx, StepSharedInstall, b.timeouts.SharedInstall, true, func(ctx context.Context) error {
		return b.deps.Installer.Install(ctx, b.cfg.Packages.Shared)
	})
}

// DetectRole reads the role attribute once. An unset attribute is the
// empty Role; any query failure is returned without retry unless the
// role source was configured to retry.
func (b *Bootstrapper) DetectRole(ctx context.Context) (Role, error) {
	var role Role
	err := b.step(ctx, StepRoleDetection, b.timeouts.RoleDetection, false, func(ctx context.Context) error {
		v, err := b.deps.Roles.Attribute(ctx, b.cfg.Metadata.Attribute)
		if err != nil {
			return err
		}
		role = Role(v)
		logging.FromContext(ctx).Info("detected node role", "attribute", b.cfg.Metadata.Attribute, "role", role.String())
		return nil
	})
	return role, err
}

// RunLeaderSetup performs the leader-only steps in order and returns the
// background tasks it started. It refuses to run for a non-leader role.
func (b *Bootstrapper) RunLeaderSetup(ctx context.Context, role Role) ([]LaunchedTask, error) {
	if !role.IsLeader(b.cfg.Metadata.LeaderRole) {
		return nil, fmt.Errorf("%w: role %s", ErrNotLeader, role)
	}
	l := b.cfg.Leader

	if err := b.step(ctx, StepRepoFetch, b.timeouts.RepoFetch, true, func(ctx context.Context) error {
		return b.deps.Fetcher.Clone(ctx, l.RepoURL, l.CloneDir)
	}); err != nil {
		return nil, err
	}

	if err := b.step(ctx, StepLink, 0, true, func(ctx context.Context) error {
		return createLink(ctx, l.LinkDir, l.LinkPath(), l.LinkTarget())
	}); err != nil {
		return nil, err
	}

	if err := b.step(ctx, StepPermissions, 0, true, func(ctx context.Context) error {
		for _, s := range l.Scripts {
			if err := makeExecutable(l.ScriptPath(s)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Must complete before anything else touches the package manager.
	if err := b.step(ctx, StepLeaderInstall, b.timeouts.LeaderInstall, true, func(ctx context.Context) error {
		return b.deps.Installer.Install(ctx, b.cfg.Packages.Leader)
	}); err != nil {
		return nil, err
	}

	var launched []LaunchedTask
	err := b.step(ctx, StepLaunch, 0, true, func(ctx context.Context) error {
		var errs []error
		for _, s := range l.Scripts {
			task := async.BackgroundTask{
				Name:    naming.TaskName(s.Name),
				Command: l.ScriptPath(s),
				Dir:     b.workDir,
				LogFile: b.resolveLog(s.LogFile),
			}

			handle, err := b.deps.Launcher.Start(task)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			launched = append(launched, LaunchedTask{Name: task.Name, LogFile: task.LogFile, PID: handle.PID()})
			b.observer.TaskLaunched(task.Name)
			logging.FromContext(ctx).Info("started background task", "task", task.Name, "pid", handle.PID(), "log", task.LogFile)

			// Not awaited: completion and exit status are only visible in the log file.
			_ = handle
		}
		return errors.Join(errs...)
	})
	return launched, err
}

func (b *Bootstrapper) resolveLog(path string) string {
	if filepath.IsAbs(path) || b.workDir == "" {
		return path
	}
	return filepath.Join(b.workDir, path)
}

// createLink creates dir and a symlink at linkPath pointing to target. An
// existing entry at linkPath is an error.
func createLink(ctx context.Context, dir, linkPath, target string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if _, err := os.Lstat(linkPath); err == nil {
		return fmt.Errorf("%w: %s", ErrLinkExists, linkPath)
	}

	if err := os.Symlink(target, linkPath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrLinkExists, linkPath)
		}
		return fmt.Errorf("failed to link %s -> %s: %w", linkPath, target, err)
	}

	logging.FromContext(ctx).Info("created link", "link", linkPath, "target", target)
	return nil
}

// makeExecutable adds execute permission for user, group and others.
func makeExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat script: %w", err)
	}
	if err := os.Chmod(path, info.Mode().Perm()|0o111); err != nil {
		return fmt.Errorf("failed to make %s executable: %w", path, err)
	}
	return nil
}
