package pkgmgr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/nodeinit/internal/config"
	"github.com/imamik/nodeinit/internal/platform/shell"
)

// trackingRunner records commands and the peak number running at once.
type trackingRunner struct {
	mu       sync.Mutex
	commands []shell.Command
	current  atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
	err      error
}

func (r *trackingRunner) Run(_ context.Context, cmd shell.Command) ([]byte, error) {
	c := r.current.Add(1)
	for {
		old := r.peak.Load()
		if c <= old || r.peak.CompareAndSwap(old, c) {
			break
		}
	}
	time.Sleep(r.delay)
	r.current.Add(-1)

	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()
	return nil, r.err
}

func TestBuildCommand(t *testing.T) {
	t.Parallel()

	t.Run("pip", func(t *testing.T) {
		t.Parallel()
		cmd, err := BuildCommand(config.PackageSet{Manager: "pip", Names: []string{"numpy"}})
		require.NoError(t, err)
		assert.Equal(t, "pip", cmd.Name)
		assert.Equal(t, []string{"install", "numpy"}, cmd.Args)
		assert.Empty(t, cmd.Env)
	})

	t.Run("pip with binary and extra args", func(t *testing.T) {
		t.Parallel()
		cmd, err := BuildCommand(config.PackageSet{
			Manager:   "pip",
			Binary:    "/opt/conda/bin/pip",
			ExtraArgs: []string{"--no-cache-dir"},
			Names:     []string{"numpy", "scipy"},
		})
		require.NoError(t, err)
		assert.Equal(t, "/opt/conda/bin/pip", cmd.Name)
		assert.Equal(t, []string{"install", "--no-cache-dir", "numpy", "scipy"}, cmd.Args)
	})

	t.Run("apt", func(t *testing.T) {
		t.Parallel()
		cmd, err := BuildCommand(config.PackageSet{Manager: "apt", Names: []string{"libssl-dev"}})
		require.NoError(t, err)
		assert.Equal(t, "apt-get", cmd.Name)
		assert.Equal(t, []string{"install", "-y", "libssl-dev"}, cmd.Args)
		assert.Contains(t, cmd.Env, "DEBIAN_FRONTEND=noninteractive")
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		_, err := BuildCommand(config.PackageSet{Manager: "yum", Names: []string{"x"}})
		assert.Error(t, err)
	})
}

func TestInstaller_EmptySetIsNoop(t *testing.T) {
	t.Parallel()
	runner := &trackingRunner{}
	inst := NewInstaller(runner, &MutexLock{})

	require.NoError(t, inst.Install(context.Background(), config.PackageSet{Manager: "pip"}))
	assert.Empty(t, runner.commands)
}

func TestInstaller_WrapsFailure(t *testing.T) {
	t.Parallel()
	cause := errors.New("exit status 1")
	inst := NewInstaller(&trackingRunner{err: cause}, &MutexLock{})

	err := inst.Install(context.Background(), config.DefaultSharedPackages())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "pip install failed")
}

func TestInstaller_NeverOverlaps(t *testing.T) {
	t.Parallel()
	runner := &trackingRunner{delay: 20 * time.Millisecond}
	inst := NewInstaller(runner, &MutexLock{})

	var wg sync.WaitGroup
	for _, set := range []config.PackageSet{
		config.DefaultSharedPackages(),
		config.DefaultLeaderPackages(),
		config.DefaultSharedPackages(),
		config.DefaultLeaderPackages(),
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, inst.Install(context.Background(), set))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), runner.peak.Load(), "installs must be serialized")
	assert.Len(t, runner.commands, 4)
}

func TestInstaller_HostLockSerializesSeparateInstallers(t *testing.T) {
	t.Parallel()
	path := t.TempDir() + "/pkg.lock"
	runner := &trackingRunner{delay: 20 * time.Millisecond}

	// Two installers with their own HostLock on the same file behave like
	// two processes on one host.
	a := NewInstaller(runner, NewHostLock(path))
	b := NewInstaller(runner, NewHostLock(path))

	var wg sync.WaitGroup
	for _, inst := range []*Installer{a, b, a, b} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, inst.Install(context.Background(), config.DefaultLeaderPackages()))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), runner.peak.Load())
}

func TestInstaller_LockTimeout(t *testing.T) {
	t.Parallel()
	path := t.TempDir() + "/pkg.lock"
	held := NewHostLock(path)
	unlock, err := held.Lock(context.Background())
	require.NoError(t, err)
	defer unlock()

	runner := &trackingRunner{}
	inst := NewInstaller(runner, NewHostLock(path))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err = inst.Install(ctx, config.DefaultSharedPackages())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, runner.commands, "installer must not run without the lock")
}
