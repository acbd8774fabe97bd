// Package dependencies resolves injected collaborators or builds the default ones.
package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/relkit/internal/cargo"
	"github.com/temirov/relkit/internal/execshell"
	"github.com/temirov/relkit/internal/gitrepo"
	"github.com/temirov/relkit/internal/repos/filesystem"
	"github.com/temirov/relkit/internal/repos/shared"
	"github.com/temirov/relkit/internal/ui"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	return NewShellExecutor(logger, humanReadableLogging)
}

// ResolveCargoExecutor returns the provided executor or constructs a shell-backed default.
func ResolveCargoExecutor(existing shared.CargoExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.CargoExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	return NewShellExecutor(logger, humanReadableLogging)
}

// ResolveKeygenExecutor returns the provided executor or constructs a shell-backed default.
func ResolveKeygenExecutor(existing shared.KeygenExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.KeygenExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	return NewShellExecutor(logger, humanReadableLogging)
}

// ResolveGitRepositoryManager returns the provided repository manager or constructs one from the executor.
func ResolveGitRepositoryManager(existing shared.GitRepositoryManager, executor shared.GitExecutor) (shared.GitRepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}

// ResolveCargoClient builds a cargo client around the executor.
func ResolveCargoClient(executor shared.CargoExecutor) (*cargo.Client, error) {
	return cargo.NewClient(executor)
}

// NewShellExecutor builds an os/exec backed executor. With human-readable
// logging the per-command lines go to the console observer and the
// executor's own structured entries are suppressed.
func NewShellExecutor(logger *zap.Logger, humanReadableLogging bool) (*execshell.ShellExecutor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !humanReadableLogging {
		return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	}
	return execshell.NewShellExecutor(
		zap.NewNop(),
		execshell.NewOSCommandRunner(),
		execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)),
	)
}
