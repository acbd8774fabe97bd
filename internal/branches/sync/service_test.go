package sync_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	branchsync "github.com/temirov/relkit/internal/branches/sync"
	"github.com/temirov/relkit/internal/manifest"
	"github.com/temirov/relkit/internal/repos/shared"
)

const (
	testRepositoryPathConstant = "/workspace/programs"
	testBaseBranchConstant     = "main"
	testManifestConstant       = "[package]\nname = \"programs\"\n\n[dependencies]\nsolana-sdk = \"1.9\"\nserde = \"1\"\n"
)

type stubRepositoryManager struct {
	currentBranch    string
	currentBranchErr error
	clean            bool
	existingBranches map[string]bool
	revisions        map[string]string
	mergeAdvances    map[string]bool
	mergeErrors      map[string]error
	checkedOutBranch string
	operations       []string
	stagedPaths      [][]string
	commitMessages   []string
	pushedBranches   []string
	revisionCounter  int
}

func newStubRepositoryManager() *stubRepositoryManager {
	return &stubRepositoryManager{
		currentBranch:    testBaseBranchConstant,
		clean:            true,
		existingBranches: map[string]bool{},
		revisions:        map[string]string{},
		mergeAdvances:    map[string]bool{},
		mergeErrors:      map[string]error{},
		checkedOutBranch: testBaseBranchConstant,
	}
}

func (manager *stubRepositoryManager) record(operation string, values ...any) {
	manager.operations = append(manager.operations, fmt.Sprint(append([]any{operation}, values...)...))
}

func (manager *stubRepositoryManager) nextRevision() string {
	manager.revisionCounter++
	return fmt.Sprintf("rev%d", manager.revisionCounter)
}

func (manager *stubRepositoryManager) CheckCleanWorktree(context.Context, string) (bool, error) {
	manager.record("status")
	return manager.clean, nil
}

func (manager *stubRepositoryManager) GetCurrentBranch(context.Context, string) (string, error) {
	return manager.currentBranch, manager.currentBranchErr
}

func (manager *stubRepositoryManager) ListBranches(context.Context, string) ([]string, error) {
	branches := make([]string, 0, len(manager.existingBranches))
	for branchName := range manager.existingBranches {
		branches = append(branches, branchName)
	}
	return branches, nil
}

func (manager *stubRepositoryManager) BranchExists(_ context.Context, _ string, branchName string) (bool, error) {
	return manager.existingBranches[branchName], nil
}

func (manager *stubRepositoryManager) ResolveRevision(context.Context, string, string) (string, error) {
	revision, exists := manager.revisions[manager.checkedOutBranch]
	if !exists {
		revision = manager.nextRevision()
		manager.revisions[manager.checkedOutBranch] = revision
	}
	return revision, nil
}

func (manager *stubRepositoryManager) CreateBranch(_ context.Context, _ string, branchName string, startPoint string) error {
	manager.record("branch ", branchName, " ", startPoint)
	manager.existingBranches[branchName] = true
	return nil
}

func (manager *stubRepositoryManager) CheckoutBranch(_ context.Context, _ string, branchName string) error {
	manager.record("checkout ", branchName)
	manager.checkedOutBranch = branchName
	return nil
}

func (manager *stubRepositoryManager) StagePaths(_ context.Context, _ string, paths []string) error {
	manager.record("add")
	manager.stagedPaths = append(manager.stagedPaths, append([]string{}, paths...))
	return nil
}

func (manager *stubRepositoryManager) Commit(_ context.Context, _ string, message string) error {
	manager.record("commit")
	manager.commitMessages = append(manager.commitMessages, message)
	manager.revisions[manager.checkedOutBranch] = manager.nextRevision()
	return nil
}

func (manager *stubRepositoryManager) MergeBranch(_ context.Context, _ string, sourceBranch string) error {
	manager.record("merge ", sourceBranch, " into ", manager.checkedOutBranch)
	if mergeError := manager.mergeErrors[manager.checkedOutBranch]; mergeError != nil {
		return mergeError
	}
	if manager.mergeAdvances[manager.checkedOutBranch] {
		manager.revisions[manager.checkedOutBranch] = manager.nextRevision()
	}
	return nil
}

func (manager *stubRepositoryManager) PushBranch(_ context.Context, _ string, remoteName string, branchName string) error {
	manager.record("push ", remoteName, " ", branchName)
	manager.pushedBranches = append(manager.pushedBranches, branchName)
	return nil
}

type memoryManifestStore struct {
	contents   string
	loadedFrom []string
	saved      map[string]*manifest.Document
	saveOrder  []string
	owner      *stubRepositoryManager
}

func (store *memoryManifestStore) Load(manifestPath string) (*manifest.Document, error) {
	store.loadedFrom = append(store.loadedFrom, manifestPath)
	return manifest.Parse([]byte(store.contents))
}

func (store *memoryManifestStore) Save(manifestPath string, document *manifest.Document) error {
	if store.saved == nil {
		store.saved = map[string]*manifest.Document{}
	}
	branchName := store.owner.checkedOutBranch
	store.saved[branchName] = document
	store.saveOrder = append(store.saveOrder, branchName)
	return nil
}

type recordingLockfileGenerator struct {
	owner     *stubRepositoryManager
	failure   error
	generated []string
	manifests []string
}

func (generator *recordingLockfileGenerator) GenerateLockfile(_ context.Context, manifestPath string) error {
	generator.owner.record("generate-lockfile")
	generator.generated = append(generator.generated, generator.owner.checkedOutBranch)
	generator.manifests = append(generator.manifests, manifestPath)
	return generator.failure
}

type serviceFixture struct {
	manager   *stubRepositoryManager
	store     *memoryManifestStore
	generator *recordingLockfileGenerator
	service   *branchsync.Service
	logs      *observer.ObservedLogs
}

func newServiceFixture(testInstance *testing.T) serviceFixture {
	testInstance.Helper()
	manager := newStubRepositoryManager()
	store := &memoryManifestStore{contents: testManifestConstant, owner: manager}
	generator := &recordingLockfileGenerator{owner: manager}
	core, logs := observer.New(zapcore.DebugLevel)

	service, serviceError := branchsync.NewService(branchsync.Dependencies{
		RepositoryManager: manager,
		ManifestStore:     store,
		LockfileGenerator: generator,
		Logger:            zap.New(core),
	})
	require.NoError(testInstance, serviceError)
	return serviceFixture{manager: manager, store: store, generator: generator, service: service, logs: logs}
}

func defaultOptions(branches ...string) branchsync.Options {
	return branchsync.Options{
		RepositoryPath:        testRepositoryPathConstant,
		BaseBranch:            testBaseBranchConstant,
		Branches:              branches,
		Modules:               []string{"solana-sdk", "solana-program"},
		ConstraintTemplate:    "~{branch}",
		ManifestPath:          "Cargo.toml",
		LockfilePath:          "Cargo.lock",
		CommitMessageTemplate: "Create {branch} branch",
		RequireClean:          true,
	}
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	manager := newStubRepositoryManager()
	testCases := []struct {
		name          string
		dependencies  branchsync.Dependencies
		expectedError error
	}{
		{name: "missing_manager", dependencies: branchsync.Dependencies{}, expectedError: branchsync.ErrRepositoryManagerNotConfigured},
		{name: "missing_store", dependencies: branchsync.Dependencies{RepositoryManager: manager}, expectedError: branchsync.ErrManifestStoreNotConfigured},
		{
			name:          "missing_generator",
			dependencies:  branchsync.Dependencies{RepositoryManager: manager, ManifestStore: &memoryManifestStore{owner: manager}},
			expectedError: branchsync.ErrLockfileGeneratorNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			service, serviceError := branchsync.NewService(testCase.dependencies)
			require.Nil(testInstance, service)
			require.ErrorIs(testInstance, serviceError, testCase.expectedError)
		})
	}
}

func TestSynchronizeCreatesMissingBranches(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance)

	result, synchronizeError := fixture.service.Synchronize(context.Background(), defaultOptions("1.11", "1.13"))
	require.NoError(testInstance, synchronizeError)

	require.Len(testInstance, result.Branches, 2)
	for index, branchName := range []string{"1.11", "1.13"} {
		branchResult := result.Branches[index]
		require.Equal(testInstance, branchName, branchResult.Branch)
		require.Equal(testInstance, branchsync.OutcomeCreated, branchResult.Outcome)
		require.Equal(testInstance, "~"+branchName, branchResult.Constraint)
		require.False(testInstance, branchResult.Pushed)

		document := fixture.store.saved[branchName]
		require.NotNil(testInstance, document)
		for _, moduleName := range []string{"solana-sdk", "solana-program"} {
			constraint, found := document.Constraint(moduleName)
			require.True(testInstance, found)
			require.Equal(testInstance, "~"+branchName, constraint)
		}
		serdeConstraint, _ := document.Constraint("serde")
		require.Equal(testInstance, "1", serdeConstraint)
	}

	require.Equal(testInstance, []string{
		"status",
		"branch 1.11 main", "checkout 1.11", "generate-lockfile", "add", "commit",
		"branch 1.13 main", "checkout 1.13", "generate-lockfile", "add", "commit",
		"checkout main",
	}, fixture.manager.operations)
	require.Equal(testInstance, [][]string{{"Cargo.toml", "Cargo.lock"}, {"Cargo.toml", "Cargo.lock"}}, fixture.manager.stagedPaths)
	require.Equal(testInstance, []string{"Create 1.11 branch", "Create 1.13 branch"}, fixture.manager.commitMessages)
	require.Equal(testInstance, []string{"/workspace/programs/Cargo.toml", "/workspace/programs/Cargo.toml"}, fixture.store.loadedFrom)
	require.Equal(testInstance, []string{"/workspace/programs/Cargo.toml", "/workspace/programs/Cargo.toml"}, fixture.generator.manifests)
	require.Equal(testInstance, "main", fixture.manager.checkedOutBranch)
	require.Equal(testInstance, 2, fixture.logs.FilterMessage("Processed release branch").Len())
}

func TestSynchronizeRegeneratesLockfileForNestedManifest(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance)
	options := defaultOptions("1.16")
	options.ManifestPath = "crates/token/Cargo.toml"
	options.LockfilePath = "crates/token/Cargo.lock"

	_, synchronizeError := fixture.service.Synchronize(context.Background(), options)
	require.NoError(testInstance, synchronizeError)
	require.Equal(testInstance, []string{"/workspace/programs/crates/token/Cargo.toml"}, fixture.store.loadedFrom)
	require.Equal(testInstance, []string{"/workspace/programs/crates/token/Cargo.toml"}, fixture.generator.manifests)
	require.Equal(testInstance, [][]string{{"crates/token/Cargo.toml", "crates/token/Cargo.lock"}}, fixture.manager.stagedPaths)
}

func TestSynchronizeMergesExistingBranches(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance)
	fixture.manager.existingBranches["1.14"] = true
	fixture.manager.existingBranches["1.16"] = true
	fixture.manager.mergeAdvances["1.16"] = true

	result, synchronizeError := fixture.service.Synchronize(context.Background(), defaultOptions("1.14", "1.16"))
	require.NoError(testInstance, synchronizeError)

	require.Equal(testInstance, branchsync.OutcomeUnchanged, result.Branches[0].Outcome)
	require.Equal(testInstance, branchsync.OutcomeUpdated, result.Branches[1].Outcome)
	require.Empty(testInstance, fixture.store.saveOrder)
	require.Empty(testInstance, fixture.generator.generated)
	require.Empty(testInstance, fixture.manager.commitMessages)
	require.Equal(testInstance, []string{
		"status",
		"checkout 1.14", "merge main into 1.14",
		"checkout 1.16", "merge main into 1.16",
		"checkout main",
	}, fixture.manager.operations)
}

func TestSynchronizeRequiresBaseBranch(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance)
	fixture.manager.currentBranch = "1.14"

	result, synchronizeError := fixture.service.Synchronize(context.Background(), defaultOptions("1.11"))
	require.ErrorIs(testInstance, synchronizeError, branchsync.ErrNotOnBaseBranch)
	require.Empty(testInstance, result.Branches)
	require.Empty(testInstance, fixture.manager.operations)
}

func TestSynchronizeRejectsDirtyWorktree(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance)
	fixture.manager.clean = false

	_, synchronizeError := fixture.service.Synchronize(context.Background(), defaultOptions("1.11"))
	require.ErrorIs(testInstance, synchronizeError, branchsync.ErrWorktreeNotClean)

	options := defaultOptions("1.11")
	options.RequireClean = false
	_, permissiveError := fixture.service.Synchronize(context.Background(), options)
	require.NoError(testInstance, permissiveError)
}

func TestSynchronizeStopsOnMergeFailure(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance)
	conflict := errors.New("CONFLICT (content)")
	fixture.manager.existingBranches["1.11"] = true
	fixture.manager.mergeErrors["1.11"] = conflict

	result, synchronizeError := fixture.service.Synchronize(context.Background(), defaultOptions("1.11", "1.13"))
	require.ErrorIs(testInstance, synchronizeError, conflict)
	require.Empty(testInstance, result.Branches)
	require.Equal(testInstance, "1.11", fixture.manager.checkedOutBranch)
	require.False(testInstance, fixture.manager.existingBranches["1.13"])
}

func TestSynchronizeStopsOnLockfileFailure(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance)
	fixture.generator.failure = errors.New("cargo exited with code 101")

	_, synchronizeError := fixture.service.Synchronize(context.Background(), defaultOptions("1.11"))
	require.ErrorIs(testInstance, synchronizeError, fixture.generator.failure)
	require.Empty(testInstance, fixture.manager.commitMessages)
	require.Equal(testInstance, "1.11", fixture.manager.checkedOutBranch)
}

func TestSynchronizePushesCreatedBranchesWhenEnabled(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance)
	fixture.manager.existingBranches["1.13"] = true
	options := defaultOptions("1.11", "1.13")
	options.Push = branchsync.PushOptions{Enabled: true, Remote: shared.OriginRemoteNameConstant}

	result, synchronizeError := fixture.service.Synchronize(context.Background(), options)
	require.NoError(testInstance, synchronizeError)
	require.True(testInstance, result.Branches[0].Pushed)
	require.False(testInstance, result.Branches[1].Pushed)
	require.Equal(testInstance, []string{"1.11"}, fixture.manager.pushedBranches)
}

func TestSynchronizeDryRunDoesNotMutate(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance)
	fixture.manager.existingBranches["1.13"] = true
	options := defaultOptions("1.11", "1.13")
	options.DryRun = true

	result, synchronizeError := fixture.service.Synchronize(context.Background(), options)
	require.NoError(testInstance, synchronizeError)
	require.Equal(testInstance, []branchsync.BranchResult{
		{Branch: "1.11", Outcome: branchsync.OutcomeWouldCreate, Constraint: "~1.11"},
		{Branch: "1.13", Outcome: branchsync.OutcomeWouldMerge},
	}, result.Branches)
	require.Equal(testInstance, []string{"status"}, fixture.manager.operations)
}

func TestSynchronizeValidatesOptions(testInstance *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(options *branchsync.Options)
		expectedError error
	}{
		{name: "no_branches", mutate: func(options *branchsync.Options) { options.Branches = nil }, expectedError: branchsync.ErrBranchesRequired},
		{name: "no_modules", mutate: func(options *branchsync.Options) { options.Modules = []string{} }, expectedError: branchsync.ErrModulesRequired},
		{
			name:          "push_without_remote",
			mutate:        func(options *branchsync.Options) { options.Push = branchsync.PushOptions{Enabled: true} },
			expectedError: branchsync.ErrPushRemoteRequired,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newServiceFixture(testInstance)
			options := defaultOptions("1.11")
			testCase.mutate(&options)
			_, synchronizeError := fixture.service.Synchronize(context.Background(), options)
			require.ErrorIs(testInstance, synchronizeError, testCase.expectedError)
			require.Empty(testInstance, fixture.manager.operations)
		})
	}

	invalidValueCases := []struct {
		name   string
		mutate func(options *branchsync.Options)
	}{
		{name: "empty_repository", mutate: func(options *branchsync.Options) { options.RepositoryPath = "  " }},
		{name: "invalid_branch", mutate: func(options *branchsync.Options) { options.Branches = []string{"1..11"} }},
		{name: "target_is_base", mutate: func(options *branchsync.Options) { options.Branches = []string{"main"} }},
		{name: "invalid_module", mutate: func(options *branchsync.Options) { options.Modules = []string{"solana sdk"} }},
	}
	for _, testCase := range invalidValueCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newServiceFixture(testInstance)
			options := defaultOptions("1.11")
			testCase.mutate(&options)
			_, synchronizeError := fixture.service.Synchronize(context.Background(), options)
			var invalidValueError shared.InvalidValueError
			require.ErrorAs(testInstance, synchronizeError, &invalidValueError)
		})
	}

	fixture := newServiceFixture(testInstance)
	options := defaultOptions("1.11")
	options.ConstraintTemplate = " "
	_, templateError := fixture.service.Synchronize(context.Background(), options)
	require.EqualError(testInstance, templateError, "constraint template must not be empty")
}

func TestSynchronizeSkipsDuplicateBranches(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance)

	result, synchronizeError := fixture.service.Synchronize(context.Background(), defaultOptions("1.11", " 1.11 "))
	require.NoError(testInstance, synchronizeError)
	require.Len(testInstance, result.Branches, 1)
	require.Len(testInstance, fixture.manager.commitMessages, 1)
}
