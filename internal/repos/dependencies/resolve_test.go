package dependencies_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/relkit/internal/execshell"
	"github.com/temirov/relkit/internal/repos/dependencies"
	"github.com/temirov/relkit/internal/repos/filesystem"
)

type stubGitExecutor struct{}

func (stubGitExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func TestResolversPreferInjectedCollaborators(t *testing.T) {
	injected := stubGitExecutor{}

	gitExecutor, gitError := dependencies.ResolveGitExecutor(injected, zap.NewNop(), false)
	require.NoError(t, gitError)
	require.Equal(t, injected, gitExecutor)

	require.Equal(t, filesystem.OSFileSystem{}, dependencies.ResolveFileSystem(nil))
}

func TestResolversBuildShellExecutors(t *testing.T) {
	for _, humanReadable := range []bool{false, true} {
		cargoExecutor, cargoError := dependencies.ResolveCargoExecutor(nil, nil, humanReadable)
		require.NoError(t, cargoError)
		require.IsType(t, &execshell.ShellExecutor{}, cargoExecutor)

		keygenExecutor, keygenError := dependencies.ResolveKeygenExecutor(nil, zap.NewNop(), humanReadable)
		require.NoError(t, keygenError)
		require.IsType(t, &execshell.ShellExecutor{}, keygenExecutor)
	}

	manager, managerError := dependencies.ResolveGitRepositoryManager(nil, stubGitExecutor{})
	require.NoError(t, managerError)
	require.NotNil(t, manager)

	client, clientError := dependencies.ResolveCargoClient(nil)
	require.Error(t, clientError)
	require.Nil(t, client)
}
