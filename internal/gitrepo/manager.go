package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/relkit/internal/execshell"
	"github.com/temirov/relkit/internal/repos/shared"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	requiredValueMessageConstant                = "value required"
	detachedHeadMessageConstant                 = "repository is in a detached HEAD state"
	noPathsMessageConstant                      = "at least one path is required"
	invalidInputErrorTemplateConstant           = "%s: %s"
	operationErrorTemplateConstant              = "%s: %v"
	repositoryPathFieldNameConstant             = "repository path"
	branchNameFieldNameConstant                 = "branch name"
	startPointFieldNameConstant                 = "start point"
	referenceFieldNameConstant                  = "reference"
	commitMessageFieldNameConstant              = "commit message"
	remoteNameFieldNameConstant                 = "remote name"
	pathsFieldNameConstant                      = "paths"
	gitStatusSubcommandConstant                 = "status"
	gitPorcelainFlagConstant                    = "--porcelain"
	gitUntrackedFilesNoFlagConstant             = "--untracked-files=no"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitAbbrevRefFlagConstant                    = "--abbrev-ref"
	gitVerifyFlagConstant                       = "--verify"
	gitQuietFlagConstant                        = "--quiet"
	gitHeadReferenceConstant                    = "HEAD"
	gitForEachRefSubcommandConstant             = "for-each-ref"
	gitShortRefnameFormatConstant               = "--format=%(refname:short)"
	gitLocalHeadsNamespaceConstant              = "refs/heads/"
	gitBranchSubcommandConstant                 = "branch"
	gitCheckoutSubcommandConstant               = "checkout"
	gitAddSubcommandConstant                    = "add"
	gitPathSeparatorArgumentConstant            = "--"
	gitCommitSubcommandConstant                 = "commit"
	gitMessageFlagConstant                      = "-m"
	gitMergeSubcommandConstant                  = "merge"
	gitNoEditFlagConstant                       = "--no-edit"
	gitPushSubcommandConstant                   = "push"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	commitSuffixConstant                        = "^{commit}"
	operationStatusConstant                     = "git status"
	operationCurrentBranchConstant              = "git rev-parse --abbrev-ref HEAD"
	operationListBranchesConstant               = "git for-each-ref refs/heads"
	operationResolveRevisionConstant            = "git rev-parse --verify"
	operationCreateBranchConstant               = "git branch"
	operationCheckoutConstant                   = "git checkout"
	operationAddConstant                        = "git add"
	operationCommitConstant                     = "git commit"
	operationMergeConstant                      = "git merge"
	operationPushConstant                       = "git push"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrDetachedHead indicates HEAD does not point at a branch.
var ErrDetachedHead = errors.New(detachedHeadMessageConstant)

// InvalidInputError reports a missing or malformed argument.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps a failed git invocation with the operation it served.
type OperationError struct {
	Operation string
	Cause     error
}

// Error describes the failed operation.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying executor error.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// RepositoryManager performs repository-level git operations.
type RepositoryManager struct {
	executor shared.GitExecutor
}

var _ shared.GitRepositoryManager = (*RepositoryManager)(nil)

// NewRepositoryManager constructs a RepositoryManager around the executor.
func NewRepositoryManager(executor shared.GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CheckCleanWorktree reports whether tracked files carry no staged or unstaged
// changes. Untracked files are ignored.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	trimmedRepositoryPath, pathError := requireValue(repositoryPath, repositoryPathFieldNameConstant)
	if pathError != nil {
		return false, pathError
	}
	result, executionError := manager.executeGit(executionContext, trimmedRepositoryPath, gitStatusSubcommandConstant, gitPorcelainFlagConstant, gitUntrackedFilesNoFlagConstant)
	if executionError != nil {
		return false, OperationError{Operation: operationStatusConstant, Cause: executionError}
	}
	return len(strings.TrimSpace(result.StandardOutput)) == 0, nil
}

// GetCurrentBranch returns the checked-out branch name or ErrDetachedHead.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	trimmedRepositoryPath, pathError := requireValue(repositoryPath, repositoryPathFieldNameConstant)
	if pathError != nil {
		return "", pathError
	}
	result, executionError := manager.executeGit(executionContext, trimmedRepositoryPath, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if executionError != nil {
		return "", OperationError{Operation: operationCurrentBranchConstant, Cause: executionError}
	}
	branchName := strings.TrimSpace(result.StandardOutput)
	if len(branchName) == 0 || branchName == gitHeadReferenceConstant {
		return "", ErrDetachedHead
	}
	return branchName, nil
}

// ListBranches returns local branch names in the order git reports them.
func (manager *RepositoryManager) ListBranches(executionContext context.Context, repositoryPath string) ([]string, error) {
	trimmedRepositoryPath, pathError := requireValue(repositoryPath, repositoryPathFieldNameConstant)
	if pathError != nil {
		return nil, pathError
	}
	result, executionError := manager.executeGit(executionContext, trimmedRepositoryPath, gitForEachRefSubcommandConstant, gitShortRefnameFormatConstant, gitLocalHeadsNamespaceConstant)
	if executionError != nil {
		return nil, OperationError{Operation: operationListBranchesConstant, Cause: executionError}
	}
	branches := make([]string, 0)
	for _, line := range strings.Split(result.StandardOutput, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) > 0 {
			branches = append(branches, trimmedLine)
		}
	}
	return branches, nil
}

// BranchExists reports whether a local branch with the exact name exists.
func (manager *RepositoryManager) BranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	trimmedBranchName, branchError := requireValue(branchName, branchNameFieldNameConstant)
	if branchError != nil {
		return false, branchError
	}
	branches, listError := manager.ListBranches(executionContext, repositoryPath)
	if listError != nil {
		return false, listError
	}
	for _, existingBranch := range branches {
		if existingBranch == trimmedBranchName {
			return true, nil
		}
	}
	return false, nil
}

// ResolveRevision returns the commit id the reference points at.
func (manager *RepositoryManager) ResolveRevision(executionContext context.Context, repositoryPath string, reference string) (string, error) {
	trimmedRepositoryPath, pathError := requireValue(repositoryPath, repositoryPathFieldNameConstant)
	if pathError != nil {
		return "", pathError
	}
	trimmedReference, referenceError := requireValue(reference, referenceFieldNameConstant)
	if referenceError != nil {
		return "", referenceError
	}
	result, executionError := manager.executeGit(executionContext, trimmedRepositoryPath, gitRevParseSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, trimmedReference+commitSuffixConstant)
	if executionError != nil {
		return "", OperationError{Operation: operationResolveRevisionConstant, Cause: executionError}
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// CreateBranch creates branchName at startPoint without switching to it.
func (manager *RepositoryManager) CreateBranch(executionContext context.Context, repositoryPath string, branchName string, startPoint string) error {
	trimmedRepositoryPath, pathError := requireValue(repositoryPath, repositoryPathFieldNameConstant)
	if pathError != nil {
		return pathError
	}
	trimmedBranchName, branchError := requireValue(branchName, branchNameFieldNameConstant)
	if branchError != nil {
		return branchError
	}
	trimmedStartPoint, startPointError := requireValue(startPoint, startPointFieldNameConstant)
	if startPointError != nil {
		return startPointError
	}
	if _, executionError := manager.executeGit(executionContext, trimmedRepositoryPath, gitBranchSubcommandConstant, trimmedBranchName, trimmedStartPoint); executionError != nil {
		return OperationError{Operation: operationCreateBranchConstant, Cause: executionError}
	}
	return nil
}

// CheckoutBranch switches the working tree to branchName.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	trimmedRepositoryPath, pathError := requireValue(repositoryPath, repositoryPathFieldNameConstant)
	if pathError != nil {
		return pathError
	}
	trimmedBranchName, branchError := requireValue(branchName, branchNameFieldNameConstant)
	if branchError != nil {
		return branchError
	}
	if _, executionError := manager.executeGit(executionContext, trimmedRepositoryPath, gitCheckoutSubcommandConstant, trimmedBranchName); executionError != nil {
		return OperationError{Operation: operationCheckoutConstant, Cause: executionError}
	}
	return nil
}

// StagePaths adds the listed paths to the index.
func (manager *RepositoryManager) StagePaths(executionContext context.Context, repositoryPath string, paths []string) error {
	trimmedRepositoryPath, pathError := requireValue(repositoryPath, repositoryPathFieldNameConstant)
	if pathError != nil {
		return pathError
	}
	arguments := []string{gitAddSubcommandConstant, gitPathSeparatorArgumentConstant}
	for _, candidatePath := range paths {
		if trimmedPath := strings.TrimSpace(candidatePath); len(trimmedPath) > 0 {
			arguments = append(arguments, trimmedPath)
		}
	}
	if len(arguments) == 2 {
		return InvalidInputError{FieldName: pathsFieldNameConstant, Message: noPathsMessageConstant}
	}
	if _, executionError := manager.executeGit(executionContext, trimmedRepositoryPath, arguments...); executionError != nil {
		return OperationError{Operation: operationAddConstant, Cause: executionError}
	}
	return nil
}

// Commit records the staged changes with message.
func (manager *RepositoryManager) Commit(executionContext context.Context, repositoryPath string, message string) error {
	trimmedRepositoryPath, pathError := requireValue(repositoryPath, repositoryPathFieldNameConstant)
	if pathError != nil {
		return pathError
	}
	trimmedMessage, messageError := requireValue(message, commitMessageFieldNameConstant)
	if messageError != nil {
		return messageError
	}
	if _, executionError := manager.executeGit(executionContext, trimmedRepositoryPath, gitCommitSubcommandConstant, gitMessageFlagConstant, trimmedMessage); executionError != nil {
		return OperationError{Operation: operationCommitConstant, Cause: executionError}
	}
	return nil
}

// MergeBranch merges sourceBranch into the current branch using git's default
// merge strategy and commit message.
func (manager *RepositoryManager) MergeBranch(executionContext context.Context, repositoryPath string, sourceBranch string) error {
	trimmedRepositoryPath, pathError := requireValue(repositoryPath, repositoryPathFieldNameConstant)
	if pathError != nil {
		return pathError
	}
	trimmedSourceBranch, branchError := requireValue(sourceBranch, branchNameFieldNameConstant)
	if branchError != nil {
		return branchError
	}
	if _, executionError := manager.executeGit(executionContext, trimmedRepositoryPath, gitMergeSubcommandConstant, gitNoEditFlagConstant, trimmedSourceBranch); executionError != nil {
		return OperationError{Operation: operationMergeConstant, Cause: executionError}
	}
	return nil
}

// PushBranch publishes branchName to remoteName.
func (manager *RepositoryManager) PushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	trimmedRepositoryPath, pathError := requireValue(repositoryPath, repositoryPathFieldNameConstant)
	if pathError != nil {
		return pathError
	}
	trimmedRemoteName, remoteError := requireValue(remoteName, remoteNameFieldNameConstant)
	if remoteError != nil {
		return remoteError
	}
	trimmedBranchName, branchError := requireValue(branchName, branchNameFieldNameConstant)
	if branchError != nil {
		return branchError
	}
	if _, executionError := manager.executeGit(executionContext, trimmedRepositoryPath, gitPushSubcommandConstant, trimmedRemoteName, trimmedBranchName); executionError != nil {
		return OperationError{Operation: operationPushConstant, Cause: executionError}
	}
	return nil
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant},
	})
}

func requireValue(value string, fieldName string) (string, error) {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return "", InvalidInputError{FieldName: fieldName, Message: requiredValueMessageConstant}
	}
	return trimmedValue, nil
}
