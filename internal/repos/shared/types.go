package shared

import (
	"context"
	"io/fs"

	"github.com/temirov/relkit/internal/execshell"
)

const (
	// OriginRemoteNameConstant identifies the default remote branches are pushed to.
	OriginRemoteNameConstant = "origin"
)

// FileSystem exposes filesystem operations required by manifest and key services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
	MkdirAll(path string, permissions fs.FileMode) error
	ReadDir(path string) ([]fs.DirEntry, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CargoExecutor runs cargo subcommands.
type CargoExecutor interface {
	ExecuteCargo(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// KeygenExecutor runs solana-keygen subcommands.
type KeygenExecutor interface {
	ExecuteKeygen(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitRepositoryManager exposes repository-level git operations.
type GitRepositoryManager interface {
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	ListBranches(executionContext context.Context, repositoryPath string) ([]string, error)
	BranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error)
	ResolveRevision(executionContext context.Context, repositoryPath string, reference string) (string, error)
	CreateBranch(executionContext context.Context, repositoryPath string, branchName string, startPoint string) error
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
	StagePaths(executionContext context.Context, repositoryPath string, paths []string) error
	Commit(executionContext context.Context, repositoryPath string, message string) error
	MergeBranch(executionContext context.Context, repositoryPath string, sourceBranch string) error
	PushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
}
