package keys

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/relkit/internal/repos/dependencies"
	"github.com/temirov/relkit/internal/repos/shared"
	"github.com/temirov/relkit/internal/utils"
	"github.com/temirov/relkit/internal/utils/flags"
	pathutils "github.com/temirov/relkit/internal/utils/path"
)

const (
	commandUseConstant               = "keys-grind"
	commandShortDescriptionConstant  = "Grind sharded vanity keypairs and print a Rust listing"
	commandLongDescriptionConstant   = "keys-grind runs solana-keygen grind once with one --starts-with prefix per shard, then prints a Rust constant that includes every generated key file ordered by shard index."
	directoryFlagNameConstant        = "directory"
	directoryFlagDescriptionConstant = "Directory the key files are generated in and read from"
	shardsFlagNameConstant           = "shards"
	shardsFlagDescriptionConstant    = "Number of shards (one key prefix per shard)"
	skipGrindFlagNameConstant        = "skip-grind"
	skipGrindFlagDescriptionConstant = "Render the listing from existing key files without running solana-keygen"
	outputFlagNameConstant           = "output"
	outputFlagDescriptionConstant    = "Write the listing to this file instead of standard output"
	shortfallFlagNameConstant        = "shortfall"
	shortfallFlagDescriptionConstant = "What to do when some shards have no key file"
	listingWrittenTemplateConstant   = "WROTE: %s (%d of %d shards)\n"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the keys-grind command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	KeygenExecutor               shared.KeygenExecutor
	FileSystem                   shared.FileSystem
	Progress                     ProgressIndicator
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the keys-grind command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(directoryFlagNameConstant, "", directoryFlagDescriptionConstant)
	command.Flags().Int(shardsFlagNameConstant, 0, shardsFlagDescriptionConstant)
	command.Flags().String(outputFlagNameConstant, "", outputFlagDescriptionConstant)
	command.Flags().String(shortfallFlagNameConstant, "", flags.FormatChoiceUsage(string(ShortfallWarn), SupportedShortfallPolicies(), shortfallFlagDescriptionConstant))
	var skipGrind bool
	flags.AddToggleFlag(command.Flags(), &skipGrind, skipGrindFlagNameConstant, false, skipGrindFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration, flagError := builder.applyFlags(command, builder.resolveConfiguration())
	if flagError != nil {
		return flagError
	}

	workingDirectory, _ := utils.NewCommandContextAccessor().WorkingDirectory(command.Context())
	resolver := pathutils.NewResolver()
	directory := resolver.Resolve(workingDirectory, configuration.Directory)
	outputPath := ""
	if len(configuration.Output) > 0 {
		outputPath = resolver.Resolve(workingDirectory, configuration.Output)
	}

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	executor, executorError := dependencies.ResolveKeygenExecutor(builder.KeygenExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	progress := builder.Progress
	if progress == nil && humanReadableLogging {
		progress = NewSpinnerProgress(command.ErrOrStderr())
	}

	service, serviceError := NewService(Dependencies{
		Executor:   executor,
		FileSystem: dependencies.ResolveFileSystem(builder.FileSystem),
		Logger:     logger,
		Progress:   progress,
	})
	if serviceError != nil {
		return serviceError
	}

	result, generateError := service.Generate(command.Context(), Options{
		Directory:        directory,
		ShardCount:       configuration.ShardCount,
		Encoding:         configuration.Encoding(),
		ExtraArguments:   configuration.ExtraArguments,
		Extension:        configuration.Extension,
		IncludeDirectory: configuration.IncludeDirectory,
		ConstantName:     configuration.ConstantName,
		KeyLength:        configuration.KeyLength,
		Shortfall:        ShortfallPolicy(configuration.Shortfall),
		SkipGrind:        configuration.SkipGrind,
		OutputPath:       outputPath,
	})
	if generateError != nil {
		return generateError
	}

	if len(result.OutputPath) > 0 {
		fmt.Fprintf(command.OutOrStdout(), listingWrittenTemplateConstant, result.OutputPath, len(result.Files), configuration.ShardCount)
		return nil
	}
	_, writeError := command.OutOrStdout().Write(result.Listing)
	return writeError
}

func (builder *CommandBuilder) applyFlags(command *cobra.Command, configuration CommandConfiguration) (CommandConfiguration, error) {
	flagSet := command.Flags()

	if flags.Changed(command, directoryFlagNameConstant) {
		directory, directoryError := flagSet.GetString(directoryFlagNameConstant)
		if directoryError != nil {
			return CommandConfiguration{}, directoryError
		}
		configuration.Directory = strings.TrimSpace(directory)
	}
	if flags.Changed(command, outputFlagNameConstant) {
		output, outputError := flagSet.GetString(outputFlagNameConstant)
		if outputError != nil {
			return CommandConfiguration{}, outputError
		}
		configuration.Output = strings.TrimSpace(output)
	}
	if flags.Changed(command, shardsFlagNameConstant) {
		shardCount, shardsError := flagSet.GetInt(shardsFlagNameConstant)
		if shardsError != nil {
			return CommandConfiguration{}, shardsError
		}
		configuration.ShardCount = shardCount
	}
	if flags.Changed(command, shortfallFlagNameConstant) {
		rawPolicy, policyFlagError := flagSet.GetString(shortfallFlagNameConstant)
		if policyFlagError != nil {
			return CommandConfiguration{}, policyFlagError
		}
		policy, choiceError := flags.ValidateChoice(shortfallFlagNameConstant, rawPolicy, SupportedShortfallPolicies())
		if choiceError != nil {
			return CommandConfiguration{}, choiceError
		}
		configuration.Shortfall = policy
	}
	if flags.Changed(command, skipGrindFlagNameConstant) {
		skipGrind, skipError := flagSet.GetBool(skipGrindFlagNameConstant)
		if skipError != nil {
			return CommandConfiguration{}, skipError
		}
		configuration.SkipGrind = skipGrind
	}
	return configuration, nil
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
