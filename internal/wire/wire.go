// Package wire provides dependency injection for devkit.
// It creates singleton services with lazy initialization.
package wire

import (
	"bufio"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/devkit/internal/adapters/cli"
	"github.com/example/devkit/internal/adapters/docker"
	"github.com/example/devkit/internal/adapters/filesystem"
	"github.com/example/devkit/internal/adapters/gitconfig"
	"github.com/example/devkit/internal/adapters/selector"
	"github.com/example/devkit/internal/adapters/sqlstore"
	"github.com/example/devkit/internal/adapters/ssh"
	"github.com/example/devkit/internal/app"
	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/ports/primary"
	"github.com/example/devkit/internal/process"
)

var (
	cfg    *config.Config
	logger = zap.NewNop()
	stdin  = bufio.NewReader(os.Stdin)

	// nuke stack; needs docker and the database
	containers  *docker.Adapter
	store       *sqlstore.Store
	nukeService primary.NukeService
	nukeErr     error
	nukeOnce    sync.Once

	// local stack; ssh, git and files only
	remoteService    primary.RemoteService
	sshConfigService primary.SSHConfigService
	identityService  primary.IdentityService
	localOnce        sync.Once

	dockerOnce sync.Once
	dockerErr  error
)

// Configure installs the resolved configuration and logger.
// It must run before any service is requested.
func Configure(c *config.Config, l *zap.Logger) {
	cfg = c
	if l != nil {
		logger = l
	}
}

// Config returns the configuration installed by Configure.
func Config() *config.Config {
	return cfg
}

// Logger returns the shared logger.
func Logger() *zap.Logger {
	return logger
}

// Containers returns the singleton docker adapter.
func Containers() (*docker.Adapter, error) {
	dockerOnce.Do(func() {
		containers, dockerErr = docker.NewFromEnv()
	})
	return containers, dockerErr
}

// NukeService returns the singleton NukeService instance.
func NukeService() (primary.NukeService, error) {
	nukeOnce.Do(initNuke)
	return nukeService, nukeErr
}

// NukeAdapter returns a new NukeAdapter writing to out.
// Each call creates a new adapter (adapters are stateless translators).
func NukeAdapter(out io.Writer) (*cliadapter.NukeAdapter, error) {
	svc, err := NukeService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewNukeAdapter(svc, out), nil
}

// RemoteService returns the singleton RemoteService instance.
func RemoteService() primary.RemoteService {
	localOnce.Do(initLocal)
	return remoteService
}

// SSHConfigService returns the singleton SSHConfigService instance.
func SSHConfigService() primary.SSHConfigService {
	localOnce.Do(initLocal)
	return sshConfigService
}

// IdentityService returns the singleton IdentityService instance.
func IdentityService() primary.IdentityService {
	localOnce.Do(initLocal)
	return identityService
}

// Close releases connections opened by the nuke stack.
func Close() {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Debug("failed to close database", zap.Error(err))
		}
	}
	if containers != nil {
		if err := containers.Close(); err != nil {
			logger.Debug("failed to close docker client", zap.Error(err))
		}
	}
	_ = logger.Sync()
}

// initNuke builds the nuke workflow and its adapters.
// This is called once via sync.Once.
func initNuke() {
	engine, err := Containers()
	if err != nil {
		nukeErr = err
		return
	}

	store, err = sqlstore.Open(cfg.DB)
	if err != nil {
		nukeErr = err
		return
	}

	// fzf draws on the terminal through stderr
	fzf := &process.DefaultManager{Stderr: os.Stderr}
	sel := selector.New(fzf, os.Stdin, stdin, os.Stderr)
	prompter := cliadapter.NewTerminalPrompter(stdin, os.Stdout)

	executor := app.NewEffectExecutor(store, engine, logger)
	nukeService = app.NewNukeService(cfg.Nuke, engine, store, sel, prompter, executor, logger)
}

// initLocal builds the services that only touch ssh, git and local files.
// This is called once via sync.Once.
func initLocal() {
	runner := ssh.NewRunner(process.NewDefaultManager())
	git := gitconfig.NewAdapter()
	workspace := filesystem.NewWorkspaceAdapter()

	remoteService = app.NewRemoteService(cfg, runner, git, workspace, logger)
	sshConfigService = app.NewSSHConfigService(cfg.SSH, workspace, logger)
	identityService = app.NewIdentityService(cfg.Git, git)
}
