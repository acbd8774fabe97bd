package sync

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/relkit/internal/manifest"
	"github.com/temirov/relkit/internal/repos/dependencies"
	"github.com/temirov/relkit/internal/repos/shared"
	"github.com/temirov/relkit/internal/utils"
	"github.com/temirov/relkit/internal/utils/flags"
	pathutils "github.com/temirov/relkit/internal/utils/path"
)

const (
	commandUseConstant                 = "branch-sync"
	commandShortDescriptionConstant    = "Create or update release branches with pinned dependencies"
	commandLongDescriptionConstant     = "branch-sync creates each missing release branch from the base branch with the configured modules pinned to a branch-derived constraint and a regenerated lockfile, and merges the base branch into release branches that already exist."
	repositoryFlagNameConstant         = "repository"
	repositoryFlagDescriptionConstant  = "Path to the repository working tree"
	baseBranchFlagNameConstant         = "base-branch"
	baseBranchFlagDescriptionConstant  = "Branch release branches are created from and merged with"
	branchFlagNameConstant             = "branch"
	branchFlagDescriptionConstant      = "Target release branch (repeatable; replaces the configured list)"
	pushFlagNameConstant               = "push"
	pushFlagDescriptionConstant        = "Push newly created branches to the remote"
	remoteFlagNameConstant             = "remote"
	remoteFlagDescriptionConstant      = "Remote newly created branches are pushed to"
	branchReportTemplateConstant       = "%s: %s\n"
	branchReportDetailTemplateConstant = "%s: %s (%s)\n"
	pushedReportSuffixConstant         = "pushed"
)

var outcomeLabels = map[Outcome]string{
	OutcomeCreated:     "CREATED",
	OutcomeUpdated:     "UPDATED",
	OutcomeUnchanged:   "UNCHANGED",
	OutcomeWouldCreate: "WOULD CREATE",
	OutcomeWouldMerge:  "WOULD MERGE",
}

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the branch-sync command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  shared.GitExecutor
	CargoExecutor                shared.CargoExecutor
	GitRepositoryManager         shared.GitRepositoryManager
	FileSystem                   shared.FileSystem
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the branch-sync command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(repositoryFlagNameConstant, "", repositoryFlagDescriptionConstant)
	command.Flags().String(baseBranchFlagNameConstant, "", baseBranchFlagDescriptionConstant)
	command.Flags().StringSlice(branchFlagNameConstant, nil, branchFlagDescriptionConstant)
	command.Flags().String(remoteFlagNameConstant, "", remoteFlagDescriptionConstant)
	var pushRequested bool
	flags.AddToggleFlag(command.Flags(), &pushRequested, pushFlagNameConstant, false, pushFlagDescriptionConstant)
	flags.BindExecutionFlags(command, flags.ExecutionDefaults{RequireClean: true}, flags.ExecutionFlagDefinitions{DryRun: true, RequireClean: true})

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration, flagError := builder.applyFlags(command, builder.resolveConfiguration())
	if flagError != nil {
		return flagError
	}

	workingDirectory, _ := utils.NewCommandContextAccessor().WorkingDirectory(command.Context())
	repositoryPath := pathutils.NewResolver().Resolve(workingDirectory, configuration.Repository)

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	gitExecutor, gitExecutorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if gitExecutorError != nil {
		return gitExecutorError
	}
	repositoryManager, managerError := dependencies.ResolveGitRepositoryManager(builder.GitRepositoryManager, gitExecutor)
	if managerError != nil {
		return managerError
	}
	cargoExecutor, cargoExecutorError := dependencies.ResolveCargoExecutor(builder.CargoExecutor, logger, humanReadableLogging)
	if cargoExecutorError != nil {
		return cargoExecutorError
	}
	cargoClient, cargoClientError := dependencies.ResolveCargoClient(cargoExecutor)
	if cargoClientError != nil {
		return cargoClientError
	}
	manifestStore, storeError := manifest.NewStore(dependencies.ResolveFileSystem(builder.FileSystem))
	if storeError != nil {
		return storeError
	}

	service, serviceError := NewService(Dependencies{
		RepositoryManager: repositoryManager,
		ManifestStore:     manifestStore,
		LockfileGenerator: cargoClient,
		Logger:            logger,
	})
	if serviceError != nil {
		return serviceError
	}

	result, synchronizeError := service.Synchronize(command.Context(), Options{
		RepositoryPath:        repositoryPath,
		BaseBranch:            configuration.BaseBranch,
		Branches:              configuration.Branches,
		Modules:               configuration.Modules,
		ConstraintTemplate:    configuration.ConstraintTemplate,
		ManifestPath:          configuration.Manifest,
		LockfilePath:          configuration.Lockfile,
		CommitMessageTemplate: configuration.CommitMessageTemplate,
		RequireClean:          configuration.RequireClean,
		Push:                  PushOptions{Enabled: configuration.Push.Enabled, Remote: configuration.Push.Remote},
		DryRun:                configuration.DryRun,
	})
	for _, branchResult := range result.Branches {
		writeBranchReport(command, branchResult)
	}
	return synchronizeError
}

func (builder *CommandBuilder) applyFlags(command *cobra.Command, configuration CommandConfiguration) (CommandConfiguration, error) {
	flagSet := command.Flags()

	stringOverrides := []struct {
		flagName string
		target   *string
	}{
		{flagName: repositoryFlagNameConstant, target: &configuration.Repository},
		{flagName: baseBranchFlagNameConstant, target: &configuration.BaseBranch},
		{flagName: remoteFlagNameConstant, target: &configuration.Push.Remote},
	}
	for _, override := range stringOverrides {
		if !flags.Changed(command, override.flagName) {
			continue
		}
		value, valueError := flagSet.GetString(override.flagName)
		if valueError != nil {
			return CommandConfiguration{}, valueError
		}
		*override.target = strings.TrimSpace(value)
	}

	if flags.Changed(command, branchFlagNameConstant) {
		branches, branchesError := flagSet.GetStringSlice(branchFlagNameConstant)
		if branchesError != nil {
			return CommandConfiguration{}, branchesError
		}
		configuration.Branches = sanitizeValues(branches)
	}

	toggleOverrides := []struct {
		flagName string
		target   *bool
	}{
		{flagName: pushFlagNameConstant, target: &configuration.Push.Enabled},
		{flagName: flags.DryRunFlagName, target: &configuration.DryRun},
		{flagName: flags.RequireCleanFlagName, target: &configuration.RequireClean},
	}
	for _, override := range toggleOverrides {
		if !flags.Changed(command, override.flagName) {
			continue
		}
		value, valueError := flagSet.GetBool(override.flagName)
		if valueError != nil {
			return CommandConfiguration{}, valueError
		}
		*override.target = value
	}

	return configuration, nil
}

func writeBranchReport(command *cobra.Command, branchResult BranchResult) {
	label := outcomeLabels[branchResult.Outcome]
	details := make([]string, 0, 2)
	if len(branchResult.Constraint) > 0 {
		details = append(details, branchResult.Constraint)
	}
	if branchResult.Pushed {
		details = append(details, pushedReportSuffixConstant)
	}
	if len(details) == 0 {
		fmt.Fprintf(command.OutOrStdout(), branchReportTemplateConstant, label, branchResult.Branch)
		return
	}
	fmt.Fprintf(command.OutOrStdout(), branchReportDetailTemplateConstant, label, branchResult.Branch, strings.Join(details, ", "))
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
