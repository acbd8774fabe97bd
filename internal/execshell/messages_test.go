package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterDescribesSubcommands(t *testing.T) {
	formatter := CommandMessageFormatter{}
	testCases := []struct {
		name            string
		command         ShellCommand
		result          ExecutionResult
		stage           messageStage
		expectedMessage string
	}{
		{
			name:            "branch_creation_start",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"branch", "1.14", "main"}, WorkingDirectory: "/workspace/repo"}},
			stage:           messageStageStart,
			expectedMessage: "Creating branch 1.14 from main in /workspace/repo",
		},
		{
			name:            "checkout_success",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"checkout", "1.16"}, WorkingDirectory: "/workspace/repo"}},
			stage:           messageStageSuccess,
			expectedMessage: "/workspace/repo now on branch 1.16",
		},
		{
			name:            "add_start",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"add", "--", "Cargo.toml", "Cargo.lock"}, WorkingDirectory: "/workspace/repo"}},
			stage:           messageStageStart,
			expectedMessage: "Staging Cargo.toml, Cargo.lock in /workspace/repo",
		},
		{
			name:            "commit_start",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"commit", "-m", "Create 1.11 branch"}, WorkingDirectory: "/workspace/repo"}},
			stage:           messageStageStart,
			expectedMessage: "Creating commit in /workspace/repo with message \"Create 1.11 branch\"",
		},
		{
			name:            "merge_failure",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"merge", "--no-edit", "main"}, WorkingDirectory: "/workspace/repo"}},
			result:          ExecutionResult{ExitCode: 1, StandardError: "CONFLICT (content)"},
			stage:           messageStageFailure,
			expectedMessage: "Failed to merge main in /workspace/repo (exit code 1: CONFLICT (content))",
		},
		{
			name:            "push_start",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"push", "origin", "1.13"}, WorkingDirectory: "/workspace/repo"}},
			stage:           messageStageStart,
			expectedMessage: "Pushing 1.13 to origin from /workspace/repo",
		},
		{
			name:            "current_branch_success",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"rev-parse", "--abbrev-ref", "HEAD"}, WorkingDirectory: "/workspace/repo"}},
			result:          ExecutionResult{StandardOutput: "main\n"},
			stage:           messageStageSuccess,
			expectedMessage: "Current branch in /workspace/repo is main",
		},
		{
			name:            "current_branch_detached",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"rev-parse", "--abbrev-ref", "HEAD"}, WorkingDirectory: "/workspace/repo"}},
			result:          ExecutionResult{StandardOutput: "HEAD\n"},
			stage:           messageStageSuccess,
			expectedMessage: "/workspace/repo is in a detached HEAD state",
		},
		{
			name:            "list_branches_success",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"for-each-ref", "--format=%(refname:short)", "refs/heads/"}}},
			result:          ExecutionResult{StandardOutput: "main\n1.11\n\n"},
			stage:           messageStageSuccess,
			expectedMessage: "Listed 2 local branches in current directory",
		},
		{
			name:            "cargo_lockfile_start",
			command:         ShellCommand{Name: CommandCargo, Details: CommandDetails{Arguments: []string{"generate-lockfile"}, WorkingDirectory: "/workspace/repo"}},
			stage:           messageStageStart,
			expectedMessage: "Regenerating Cargo.lock in /workspace/repo",
		},
		{
			name:            "keygen_grind_start",
			command:         ShellCommand{Name: CommandKeygen, Details: CommandDetails{Arguments: []string{"grind", "--starts-with", "Kooo:1", "--starts-with", "Koo1:1"}, WorkingDirectory: "/workspace/keys"}},
			stage:           messageStageStart,
			expectedMessage: "Grinding 2 keypair prefixes in /workspace/keys",
		},
		{
			name:            "generic_fallback_failure",
			command:         ShellCommand{Name: CommandCargo, Details: CommandDetails{Arguments: []string{"build"}, WorkingDirectory: "/workspace/repo"}},
			result:          ExecutionResult{ExitCode: 101},
			stage:           messageStageFailure,
			expectedMessage: "cargo build (in /workspace/repo) failed with exit code 101",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			message := formatter.buildMessage(testCase.command, testCase.result, nil, testCase.stage)
			require.Equal(t, testCase.expectedMessage, message)
		})
	}
}

func TestBuildExecutionFailureMessageIncludesCause(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandKeygen, Details: CommandDetails{Arguments: []string{"grind"}}}

	message := formatter.BuildExecutionFailureMessage(command, errors.New("solana-keygen is not installed or not on PATH"))

	require.Equal(t, "Unable to grind keypair prefixes in current directory: solana-keygen is not installed or not on PATH", message)
}

func TestShouldLogStartMessageSkipsReadOnlyQueries(t *testing.T) {
	formatter := CommandMessageFormatter{}

	require.False(t, formatter.ShouldLogStartMessage(ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"status", "--porcelain"}}}))
	require.False(t, formatter.ShouldLogStartMessage(ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"rev-parse", "--verify", "main"}}}))
	require.True(t, formatter.ShouldLogStartMessage(ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"merge", "main"}}}))
	require.True(t, formatter.ShouldLogStartMessage(ShellCommand{Name: CommandCargo, Details: CommandDetails{Arguments: []string{"generate-lockfile"}}}))
}
