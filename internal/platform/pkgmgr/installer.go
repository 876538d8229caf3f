package pkgmgr

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/nodeinit/internal/config"
	"github.com/imamik/nodeinit/internal/logging"
	"github.com/imamik/nodeinit/internal/platform/shell"
)

// Installer installs package sets while holding a shared lock.
type Installer struct {
	runner shell.Runner
	lock   Locker
}

// NewInstaller returns an installer that runs commands through runner and
// serializes on lock.
func NewInstaller(runner shell.Runner, lock Locker) *Installer {
	return &Installer{runner: runner, lock: lock}
}

// Install runs the package manager for set. An empty name list is a no-op
// and does not take the lock.
func (i *Installer) Install(ctx context.Context, set config.PackageSet) error {
	if len(set.Names) == 0 {
		return nil
	}

	cmd, err := BuildCommand(set)
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx).WithValues("manager", set.Manager)

	unlock, err := i.lock.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	logger.Info("installing packages", "packages", set.Names)
	start := time.Now()

	if _, err := i.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("%s install failed: %w", set.Manager, err)
	}

	logger.V(1).Info("packages installed", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// BuildCommand returns the installer command for set.
func BuildCommand(set config.PackageSet) (shell.Command, error) {
	switch set.Manager {
	case config.ManagerPip:
		args := append([]string{"install"}, set.ExtraArgs...)
		return shell.Command{
			Name: binaryOr(set.Binary, "pip"),
			Args: append(args, set.Names...),
		}, nil
	case config.ManagerApt:
		args := append([]string{"install", "-y"}, set.ExtraArgs...)
		return shell.Command{
			Name: binaryOr(set.Binary, "apt-get"),
			Args: append(args, set.Names...),
			Env:  []string{"DEBIAN_FRONTEND=noninteractive"},
		}, nil
	default:
		return shell.Command{}, fmt.Errorf("unsupported package manager %q", set.Manager)
	}
}

func binaryOr(binary, fallback string) string {
	if binary != "" {
		return binary
	}
	return fallback
}
