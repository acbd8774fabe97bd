package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/relkit/internal/manifest"
	"github.com/temirov/relkit/internal/repos/shared"
	pathutils "github.com/temirov/relkit/internal/utils/path"
)

const (
	// BranchPlaceholderConstant is replaced by the target branch name in constraint and commit templates.
	BranchPlaceholderConstant = "{branch}"

	repositoryManagerMissingMessageConstant = "repository manager not configured"
	manifestStoreMissingMessageConstant     = "manifest store not configured"
	lockfileGeneratorMissingMessageConstant = "lockfile generator not configured"
	notOnBaseBranchMessageConstant          = "repository is not on the base branch"
	worktreeNotCleanMessageConstant         = "repository worktree is not clean"
	branchesRequiredMessageConstant         = "at least one target branch must be provided"
	modulesRequiredMessageConstant          = "at least one module must be provided"
	valueRequiredTemplateConstant           = "%s must not be empty"
	targetIsBaseBranchTemplateConstant      = "target branch %q is the base branch"
	pushRemoteRequiredMessageConstant       = "push remote must be provided when push is enabled"
	notOnBaseBranchTemplateConstant         = "%w: on %q, expected %q"
	currentBranchErrorTemplateConstant      = "failed to determine current branch: %w"
	cleanVerificationErrorTemplateConstant  = "failed to verify clean worktree: %w"
	branchLookupErrorTemplateConstant       = "failed to look up branch %q: %w"
	createBranchErrorTemplateConstant       = "failed to create branch %q: %w"
	checkoutBranchErrorTemplateConstant     = "failed to checkout branch %q: %w"
	pinModulesErrorTemplateConstant         = "failed to pin modules on branch %q: %w"
	lockfileErrorTemplateConstant           = "failed to regenerate lockfile on branch %q: %w"
	stageErrorTemplateConstant              = "failed to stage manifest and lockfile on branch %q: %w"
	commitErrorTemplateConstant             = "failed to commit branch %q: %w"
	pushErrorTemplateConstant               = "failed to push branch %q: %w"
	mergeErrorTemplateConstant              = "failed to merge %q into %q: %w"
	revisionErrorTemplateConstant           = "failed to resolve revision of %q: %w"
	restoreBaseErrorTemplateConstant        = "failed to return to base branch %q: %w"
	constraintTemplateFieldNameConstant     = "constraint template"
	commitMessageTemplateFieldNameConstant  = "commit message template"
	manifestPathFieldNameConstant           = "manifest path"
	lockfilePathFieldNameConstant           = "lockfile path"
	headReferenceConstant                   = "HEAD"
	logFieldRepositoryConstant              = "repository"
	logFieldBranchConstant                  = "branch"
	logFieldBaseBranchConstant              = "base_branch"
	logFieldConstraintConstant              = "constraint"
	logFieldOutcomeConstant                 = "outcome"
	logFieldRevisionConstant                = "revision"
	logFieldRemoteConstant                  = "remote"
)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrManifestStoreNotConfigured indicates the manifest store dependency was missing.
var ErrManifestStoreNotConfigured = errors.New(manifestStoreMissingMessageConstant)

// ErrLockfileGeneratorNotConfigured indicates the lockfile generator dependency was missing.
var ErrLockfileGeneratorNotConfigured = errors.New(lockfileGeneratorMissingMessageConstant)

// ErrNotOnBaseBranch indicates the run started on a branch other than the base branch.
var ErrNotOnBaseBranch = errors.New(notOnBaseBranchMessageConstant)

// ErrWorktreeNotClean indicates the repository contains uncommitted changes.
var ErrWorktreeNotClean = errors.New(worktreeNotCleanMessageConstant)

// ErrBranchesRequired indicates an empty target branch list.
var ErrBranchesRequired = errors.New(branchesRequiredMessageConstant)

// ErrModulesRequired indicates an empty module list.
var ErrModulesRequired = errors.New(modulesRequiredMessageConstant)

// ErrPushRemoteRequired indicates push was enabled without a remote.
var ErrPushRemoteRequired = errors.New(pushRemoteRequiredMessageConstant)

// ManifestStore loads and saves manifest documents.
type ManifestStore interface {
	Load(manifestPath string) (*manifest.Document, error)
	Save(manifestPath string, document *manifest.Document) error
}

// LockfileGenerator regenerates the lockfile belonging to a manifest.
type LockfileGenerator interface {
	GenerateLockfile(executionContext context.Context, manifestPath string) error
}

// Dependencies enumerates external collaborators required for branch synchronization.
type Dependencies struct {
	RepositoryManager shared.GitRepositoryManager
	ManifestStore     ManifestStore
	LockfileGenerator LockfileGenerator
	Logger            *zap.Logger
}

// PushOptions controls publishing of newly created branches.
type PushOptions struct {
	Enabled bool
	Remote  string
}

// Options configures a synchronization run.
type Options struct {
	RepositoryPath        string
	BaseBranch            string
	Branches              []string
	Modules               []string
	ConstraintTemplate    string
	ManifestPath          string
	LockfilePath          string
	CommitMessageTemplate string
	RequireClean          bool
	Push                  PushOptions
	DryRun                bool
}

// Outcome names what happened to a target branch.
type Outcome string

// Branch outcomes.
const (
	OutcomeCreated     Outcome = "created"
	OutcomeUpdated     Outcome = "updated"
	OutcomeUnchanged   Outcome = "unchanged"
	OutcomeWouldCreate Outcome = "would-create"
	OutcomeWouldMerge  Outcome = "would-merge"
)

// BranchResult reports the outcome for one target branch.
type BranchResult struct {
	Branch     string
	Outcome    Outcome
	Constraint string
	Revision   string
	Pushed     bool
}

// Result captures the observable outcomes of a synchronization run.
type Result struct {
	RepositoryPath string
	BaseBranch     string
	Branches       []BranchResult
}

// Service creates and updates release branches through git, the manifest store, and cargo.
type Service struct {
	repositoryManager shared.GitRepositoryManager
	manifestStore     ManifestStore
	lockfileGenerator LockfileGenerator
	logger            *zap.Logger
	pathResolver      *pathutils.Resolver
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.ManifestStore == nil {
		return nil, ErrManifestStoreNotConfigured
	}
	if dependencies.LockfileGenerator == nil {
		return nil, ErrLockfileGeneratorNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repositoryManager: dependencies.RepositoryManager,
		manifestStore:     dependencies.ManifestStore,
		lockfileGenerator: dependencies.LockfileGenerator,
		logger:            logger,
		pathResolver:      pathutils.NewResolver(),
	}, nil
}

type normalizedOptions struct {
	repositoryPath        string
	baseBranch            string
	branches              []string
	modules               []string
	constraintTemplate    string
	manifestPath          string
	lockfilePath          string
	commitMessageTemplate string
	requireClean          bool
	push                  PushOptions
	dryRun                bool
}

// Synchronize processes every target branch in order and returns to the base branch.
// Failures abort immediately and leave the repository on the branch being processed.
func (service *Service) Synchronize(executionContext context.Context, options Options) (Result, error) {
	normalized, validationError := service.normalizeOptions(options)
	if validationError != nil {
		return Result{}, validationError
	}

	result := Result{RepositoryPath: normalized.repositoryPath, BaseBranch: normalized.baseBranch}

	currentBranch, currentBranchError := service.repositoryManager.GetCurrentBranch(executionContext, normalized.repositoryPath)
	if currentBranchError != nil {
		return result, fmt.Errorf(currentBranchErrorTemplateConstant, currentBranchError)
	}
	if currentBranch != normalized.baseBranch {
		return result, fmt.Errorf(notOnBaseBranchTemplateConstant, ErrNotOnBaseBranch, currentBranch, normalized.baseBranch)
	}

	if normalized.requireClean {
		clean, cleanError := service.repositoryManager.CheckCleanWorktree(executionContext, normalized.repositoryPath)
		if cleanError != nil {
			return result, fmt.Errorf(cleanVerificationErrorTemplateConstant, cleanError)
		}
		if !clean {
			return result, ErrWorktreeNotClean
		}
	}

	for _, branchName := range normalized.branches {
		branchResult, branchError := service.synchronizeBranch(executionContext, normalized, branchName)
		if branchError != nil {
			return result, branchError
		}
		result.Branches = append(result.Branches, branchResult)
		service.logger.Info("Processed release branch",
			zap.String(logFieldRepositoryConstant, normalized.repositoryPath),
			zap.String(logFieldBranchConstant, branchResult.Branch),
			zap.String(logFieldOutcomeConstant, string(branchResult.Outcome)),
			zap.String(logFieldRevisionConstant, branchResult.Revision),
		)
	}

	if normalized.dryRun {
		return result, nil
	}

	if checkoutError := service.repositoryManager.CheckoutBranch(executionContext, normalized.repositoryPath, normalized.baseBranch); checkoutError != nil {
		return result, fmt.Errorf(restoreBaseErrorTemplateConstant, normalized.baseBranch, checkoutError)
	}
	return result, nil
}

func (service *Service) synchronizeBranch(executionContext context.Context, options normalizedOptions, branchName string) (BranchResult, error) {
	exists, lookupError := service.repositoryManager.BranchExists(executionContext, options.repositoryPath, branchName)
	if lookupError != nil {
		return BranchResult{}, fmt.Errorf(branchLookupErrorTemplateConstant, branchName, lookupError)
	}

	if options.dryRun {
		if exists {
			return BranchResult{Branch: branchName, Outcome: OutcomeWouldMerge}, nil
		}
		return BranchResult{
			Branch:     branchName,
			Outcome:    OutcomeWouldCreate,
			Constraint: instantiateTemplate(options.constraintTemplate, branchName),
		}, nil
	}

	if exists {
		return service.updateBranch(executionContext, options, branchName)
	}
	return service.createBranch(executionContext, options, branchName)
}

func (service *Service) createBranch(executionContext context.Context, options normalizedOptions, branchName string) (BranchResult, error) {
	repositoryPath := options.repositoryPath
	constraint := instantiateTemplate(options.constraintTemplate, branchName)

	service.logger.Debug("Creating release branch",
		zap.String(logFieldBranchConstant, branchName),
		zap.String(logFieldBaseBranchConstant, options.baseBranch),
		zap.String(logFieldConstraintConstant, constraint),
	)

	if createError := service.repositoryManager.CreateBranch(executionContext, repositoryPath, branchName, options.baseBranch); createError != nil {
		return BranchResult{}, fmt.Errorf(createBranchErrorTemplateConstant, branchName, createError)
	}
	if checkoutError := service.repositoryManager.CheckoutBranch(executionContext, repositoryPath, branchName); checkoutError != nil {
		return BranchResult{}, fmt.Errorf(checkoutBranchErrorTemplateConstant, branchName, checkoutError)
	}

	manifestPath := service.pathResolver.Resolve(repositoryPath, options.manifestPath)
	document, loadError := service.manifestStore.Load(manifestPath)
	if loadError != nil {
		return BranchResult{}, fmt.Errorf(pinModulesErrorTemplateConstant, branchName, loadError)
	}
	if pinError := document.Pin(options.modules, constraint); pinError != nil {
		return BranchResult{}, fmt.Errorf(pinModulesErrorTemplateConstant, branchName, pinError)
	}
	if saveError := service.manifestStore.Save(manifestPath, document); saveError != nil {
		return BranchResult{}, fmt.Errorf(pinModulesErrorTemplateConstant, branchName, saveError)
	}

	if lockfileError := service.lockfileGenerator.GenerateLockfile(executionContext, manifestPath); lockfileError != nil {
		return BranchResult{}, fmt.Errorf(lockfileErrorTemplateConstant, branchName, lockfileError)
	}

	if stageError := service.repositoryManager.StagePaths(executionContext, repositoryPath, []string{options.manifestPath, options.lockfilePath}); stageError != nil {
		return BranchResult{}, fmt.Errorf(stageErrorTemplateConstant, branchName, stageError)
	}
	commitMessage := instantiateTemplate(options.commitMessageTemplate, branchName)
	if commitError := service.repositoryManager.Commit(executionContext, repositoryPath, commitMessage); commitError != nil {
		return BranchResult{}, fmt.Errorf(commitErrorTemplateConstant, branchName, commitError)
	}

	revision, revisionError := service.repositoryManager.ResolveRevision(executionContext, repositoryPath, headReferenceConstant)
	if revisionError != nil {
		return BranchResult{}, fmt.Errorf(revisionErrorTemplateConstant, branchName, revisionError)
	}

	branchResult := BranchResult{Branch: branchName, Outcome: OutcomeCreated, Constraint: constraint, Revision: revision}
	if options.push.Enabled {
		if pushError := service.repositoryManager.PushBranch(executionContext, repositoryPath, options.push.Remote, branchName); pushError != nil {
			return BranchResult{}, fmt.Errorf(pushErrorTemplateConstant, branchName, pushError)
		}
		branchResult.Pushed = true
		service.logger.Debug("Published release branch",
			zap.String(logFieldBranchConstant, branchName),
			zap.String(logFieldRemoteConstant, options.push.Remote),
		)
	}
	return branchResult, nil
}

func (service *Service) updateBranch(executionContext context.Context, options normalizedOptions, branchName string) (BranchResult, error) {
	repositoryPath := options.repositoryPath

	if checkoutError := service.repositoryManager.CheckoutBranch(executionContext, repositoryPath, branchName); checkoutError != nil {
		return BranchResult{}, fmt.Errorf(checkoutBranchErrorTemplateConstant, branchName, checkoutError)
	}

	revisionBefore, beforeError := service.repositoryManager.ResolveRevision(executionContext, repositoryPath, headReferenceConstant)
	if beforeError != nil {
		return BranchResult{}, fmt.Errorf(revisionErrorTemplateConstant, branchName, beforeError)
	}
	if mergeError := service.repositoryManager.MergeBranch(executionContext, repositoryPath, options.baseBranch); mergeError != nil {
		return BranchResult{}, fmt.Errorf(mergeErrorTemplateConstant, options.baseBranch, branchName, mergeError)
	}
	revisionAfter, afterError := service.repositoryManager.ResolveRevision(executionContext, repositoryPath, headReferenceConstant)
	if afterError != nil {
		return BranchResult{}, fmt.Errorf(revisionErrorTemplateConstant, branchName, afterError)
	}

	outcome := OutcomeUpdated
	if revisionBefore == revisionAfter {
		outcome = OutcomeUnchanged
	}
	return BranchResult{Branch: branchName, Outcome: outcome, Revision: revisionAfter}, nil
}

func (service *Service) normalizeOptions(options Options) (normalizedOptions, error) {
	repositoryPath, repositoryError := shared.NewRepositoryPath(options.RepositoryPath)
	if repositoryError != nil {
		return normalizedOptions{}, repositoryError
	}
	baseBranch, baseBranchError := shared.NewBranchName(options.BaseBranch)
	if baseBranchError != nil {
		return normalizedOptions{}, baseBranchError
	}

	branches := make([]string, 0, len(options.Branches))
	seenBranches := make(map[string]struct{}, len(options.Branches))
	for _, rawBranch := range options.Branches {
		branchName, branchError := shared.NewBranchName(rawBranch)
		if branchError != nil {
			return normalizedOptions{}, branchError
		}
		if branchName == baseBranch {
			return normalizedOptions{}, shared.InvalidValueError{
				Field:   logFieldBranchConstant,
				Value:   branchName.String(),
				Message: fmt.Sprintf(targetIsBaseBranchTemplateConstant, branchName),
			}
		}
		if _, seen := seenBranches[branchName.String()]; seen {
			continue
		}
		seenBranches[branchName.String()] = struct{}{}
		branches = append(branches, branchName.String())
	}
	if len(branches) == 0 {
		return normalizedOptions{}, ErrBranchesRequired
	}

	modules := make([]string, 0, len(options.Modules))
	for _, rawModule := range options.Modules {
		moduleName, moduleError := shared.NewModuleName(rawModule)
		if moduleError != nil {
			return normalizedOptions{}, moduleError
		}
		modules = append(modules, moduleName.String())
	}
	if len(modules) == 0 {
		return normalizedOptions{}, ErrModulesRequired
	}

	requiredValues := []struct {
		fieldName string
		value     string
	}{
		{fieldName: constraintTemplateFieldNameConstant, value: options.ConstraintTemplate},
		{fieldName: commitMessageTemplateFieldNameConstant, value: options.CommitMessageTemplate},
		{fieldName: manifestPathFieldNameConstant, value: options.ManifestPath},
		{fieldName: lockfilePathFieldNameConstant, value: options.LockfilePath},
	}
	for _, requiredValue := range requiredValues {
		if len(strings.TrimSpace(requiredValue.value)) == 0 {
			return normalizedOptions{}, fmt.Errorf(valueRequiredTemplateConstant, requiredValue.fieldName)
		}
	}

	push := PushOptions{Enabled: options.Push.Enabled, Remote: strings.TrimSpace(options.Push.Remote)}
	if push.Enabled && len(push.Remote) == 0 {
		return normalizedOptions{}, ErrPushRemoteRequired
	}

	return normalizedOptions{
		repositoryPath:        repositoryPath.String(),
		baseBranch:            baseBranch.String(),
		branches:              branches,
		modules:               modules,
		constraintTemplate:    strings.TrimSpace(options.ConstraintTemplate),
		manifestPath:          strings.TrimSpace(options.ManifestPath),
		lockfilePath:          strings.TrimSpace(options.LockfilePath),
		commitMessageTemplate: strings.TrimSpace(options.CommitMessageTemplate),
		requireClean:          options.RequireClean,
		push:                  push,
		dryRun:                options.DryRun,
	}, nil
}

func instantiateTemplate(template string, branchName string) string {
	return strings.ReplaceAll(template, BranchPlaceholderConstant, branchName)
}
