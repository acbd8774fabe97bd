// Package flags provides helpers for binding standardized execution flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
)

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Report planned operations without changing anything"
	// RequireCleanFlagName exposes the shared require-clean flag name.
	RequireCleanFlagName = "require-clean"
	// RequireCleanFlagUsage describes the shared require-clean flag purpose.
	RequireCleanFlagUsage = "Refuse to run when the worktree has uncommitted changes"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	DryRun       bool
	RequireClean bool
}

// ExecutionFlagValues receives parsed execution flag values.
type ExecutionFlagValues struct {
	DryRun       bool
	RequireClean bool
}

// ExecutionFlagDefinitions selects which execution flags a command exposes.
type ExecutionFlagDefinitions struct {
	DryRun       bool
	RequireClean bool
}

// BindExecutionFlags attaches the selected execution toggles to the command's local flags.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) *ExecutionFlagValues {
	values := &ExecutionFlagValues{DryRun: defaults.DryRun, RequireClean: defaults.RequireClean}
	if command == nil {
		return values
	}

	flagSet := command.Flags()
	if definitions.DryRun {
		AddToggleFlag(flagSet, &values.DryRun, DryRunFlagName, defaults.DryRun, DryRunFlagUsage)
	}
	if definitions.RequireClean {
		AddToggleFlag(flagSet, &values.RequireClean, RequireCleanFlagName, defaults.RequireClean, RequireCleanFlagUsage)
	}
	return values
}

// Changed reports whether the named flag was set on the command line.
func Changed(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}
	flag := command.Flags().Lookup(flagName)
	return flag != nil && flag.Changed
}
