package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
	argumentSeparatorConstant               = "--"
)

const (
	gitRevParseSubcommandNameConstant   = "rev-parse"
	gitForEachRefSubcommandNameConstant = "for-each-ref"
	gitStatusSubcommandNameConstant     = "status"
	gitBranchSubcommandNameConstant     = "branch"
	gitCheckoutSubcommandNameConstant   = "checkout"
	gitAddSubcommandNameConstant        = "add"
	gitCommitSubcommandNameConstant     = "commit"
	gitMergeSubcommandNameConstant      = "merge"
	gitPushSubcommandNameConstant       = "push"
	gitAbbrevRefFlagConstant            = "--abbrev-ref"
	gitHeadReferenceConstant            = "HEAD"
	gitMessageFlagConstant              = "-m"
	cargoGenerateLockfileSubcommand     = "generate-lockfile"
	keygenGrindSubcommandNameConstant   = "grind"
	keygenStartsWithFlagConstant        = "--starts-with"
)

const (
	gitCurrentBranchStartTemplateConstant             = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant           = "Current branch in %s is %s"
	gitCurrentBranchDetachedSuccessTemplateConstant   = "%s is in a detached HEAD state"
	gitCurrentBranchFailureTemplateConstant           = "Failed to identify current branch in %s (exit code %d%s)"
	gitCurrentBranchExecutionFailureTemplateConstant  = "Unable to identify current branch in %s: %s"
	gitRevisionStartTemplateConstant                  = "Resolving %s in %s"
	gitRevisionSuccessTemplateConstant                = "%s in %s resolved to %s"
	gitRevisionFailureTemplateConstant                = "Failed to resolve %s in %s (exit code %d%s)"
	gitRevisionExecutionFailureTemplateConstant       = "Unable to resolve %s in %s: %s"
	gitListBranchesStartTemplateConstant              = "Listing local branches in %s"
	gitListBranchesSuccessTemplateConstant            = "Listed %d local branches in %s"
	gitListBranchesFailureTemplateConstant            = "Failed to list local branches in %s (exit code %d%s)"
	gitListBranchesExecutionFailureTemplateConstant   = "Unable to list local branches in %s: %s"
	gitStatusStartTemplateConstant                    = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant                  = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant                  = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant         = "Unable to review working tree status in %s: %s"
	gitBranchCreationStartTemplateConstant            = "Creating branch %s from %s in %s"
	gitBranchCreationSuccessTemplateConstant          = "Created branch %s from %s in %s"
	gitBranchCreationFailureTemplateConstant          = "Failed to create branch %s from %s in %s (exit code %d%s)"
	gitBranchCreationExecutionFailureTemplateConstant = "Unable to create branch %s from %s in %s: %s"
	gitCheckoutStartTemplateConstant                  = "Switching %s to branch %s"
	gitCheckoutSuccessTemplateConstant                = "%s now on branch %s"
	gitCheckoutFailureTemplateConstant                = "Failed to switch %s to branch %s (exit code %d%s)"
	gitCheckoutExecutionFailureTemplateConstant       = "Unable to switch %s to branch %s: %s"
	gitAddStartTemplateConstant                       = "Staging %s in %s"
	gitAddSuccessTemplateConstant                     = "Staged %s in %s"
	gitAddFailureTemplateConstant                     = "Failed to stage %s in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant            = "Unable to stage %s in %s: %s"
	gitCommitStartTemplateConstant                    = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant                  = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant                  = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant         = "Unable to create commit in %s with message %q: %s"
	gitMergeStartTemplateConstant                     = "Merging %s into the current branch of %s"
	gitMergeSuccessTemplateConstant                   = "Merged %s into the current branch of %s"
	gitMergeFailureTemplateConstant                   = "Failed to merge %s in %s (exit code %d%s)"
	gitMergeExecutionFailureTemplateConstant          = "Unable to merge %s in %s: %s"
	gitPushStartTemplateConstant                      = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant                    = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant                    = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant           = "Unable to push %s to %s from %s: %s"
	cargoLockfileStartTemplateConstant                = "Regenerating Cargo.lock in %s"
	cargoLockfileSuccessTemplateConstant              = "Regenerated Cargo.lock in %s"
	cargoLockfileFailureTemplateConstant              = "Failed to regenerate Cargo.lock in %s (exit code %d%s)"
	cargoLockfileExecutionFailureTemplateConstant     = "Unable to regenerate Cargo.lock in %s: %s"
	keygenGrindStartTemplateConstant                  = "Grinding %d keypair prefixes in %s"
	keygenGrindSuccessTemplateConstant                = "Ground %d keypair prefixes in %s"
	keygenGrindFailureTemplateConstant                = "Failed to grind %d keypair prefixes in %s (exit code %d%s)"
	keygenGrindExecutionFailureTemplateConstant       = "Unable to grind keypair prefixes in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage describes a command that exited with code zero.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage describes a command that exited with a non-zero code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage describes a command that could not be run.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

// ShouldLogStartMessage reports false for read-only git queries whose start is not worth announcing.
func (formatter CommandMessageFormatter) ShouldLogStartMessage(command ShellCommand) bool {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return true
	}
	switch strings.TrimSpace(command.Details.Arguments[0]) {
	case gitRevParseSubcommandNameConstant, gitForEachRefSubcommandNameConstant, gitStatusSubcommandNameConstant:
		return false
	default:
		return true
	}
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandCargo:
		return formatter.describeCargoMessage(command, result, failure, stage)
	case CommandKeygen:
		return formatter.describeKeygenMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	standardErrorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)
	failureDescription := formatter.describeFailure(failure)

	switch strings.TrimSpace(arguments[0]) {
	case gitRevParseSubcommandNameConstant:
		if containsArgument(arguments, gitAbbrevRefFlagConstant) {
			currentBranch := strings.TrimSpace(result.StandardOutput)
			if stage == messageStageSuccess && (len(currentBranch) == 0 || currentBranch == gitHeadReferenceConstant) {
				return fmt.Sprintf(gitCurrentBranchDetachedSuccessTemplateConstant, workingDirectory)
			}
			return formatter.selectMessage(stage,
				fmt.Sprintf(gitCurrentBranchStartTemplateConstant, workingDirectory),
				fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, workingDirectory, currentBranch),
				fmt.Sprintf(gitCurrentBranchFailureTemplateConstant, workingDirectory, result.ExitCode, standardErrorSuffix),
				fmt.Sprintf(gitCurrentBranchExecutionFailureTemplateConstant, workingDirectory, failureDescription),
			)
		}
		reference := formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:]))
		return formatter.selectMessage(stage,
			fmt.Sprintf(gitRevisionStartTemplateConstant, reference, workingDirectory),
			fmt.Sprintf(gitRevisionSuccessTemplateConstant, reference, workingDirectory, formatter.ensureValue(strings.TrimSpace(result.StandardOutput))),
			fmt.Sprintf(gitRevisionFailureTemplateConstant, reference, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitRevisionExecutionFailureTemplateConstant, reference, workingDirectory, failureDescription),
		)
	case gitForEachRefSubcommandNameConstant:
		return formatter.selectMessage(stage,
			fmt.Sprintf(gitListBranchesStartTemplateConstant, workingDirectory),
			fmt.Sprintf(gitListBranchesSuccessTemplateConstant, countNonEmptyLines(result.StandardOutput), workingDirectory),
			fmt.Sprintf(gitListBranchesFailureTemplateConstant, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitListBranchesExecutionFailureTemplateConstant, workingDirectory, failureDescription),
		)
	case gitStatusSubcommandNameConstant:
		return formatter.selectMessage(stage,
			fmt.Sprintf(gitStatusStartTemplateConstant, workingDirectory),
			fmt.Sprintf(gitStatusSuccessTemplateConstant, workingDirectory),
			fmt.Sprintf(gitStatusFailureTemplateConstant, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitStatusExecutionFailureTemplateConstant, workingDirectory, failureDescription),
		)
	case gitBranchSubcommandNameConstant:
		positional := formatter.nonFlagArguments(arguments[1:])
		branchName := formatter.ensureValue(formatter.argumentAtIndex(positional, 0))
		startPoint := formatter.ensureValue(formatter.argumentAtIndex(positional, 1))
		return formatter.selectMessage(stage,
			fmt.Sprintf(gitBranchCreationStartTemplateConstant, branchName, startPoint, workingDirectory),
			fmt.Sprintf(gitBranchCreationSuccessTemplateConstant, branchName, startPoint, workingDirectory),
			fmt.Sprintf(gitBranchCreationFailureTemplateConstant, branchName, startPoint, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitBranchCreationExecutionFailureTemplateConstant, branchName, startPoint, workingDirectory, failureDescription),
		)
	case gitCheckoutSubcommandNameConstant:
		branchName := formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:]))
		return formatter.selectMessage(stage,
			fmt.Sprintf(gitCheckoutStartTemplateConstant, workingDirectory, branchName),
			fmt.Sprintf(gitCheckoutSuccessTemplateConstant, workingDirectory, branchName),
			fmt.Sprintf(gitCheckoutFailureTemplateConstant, workingDirectory, branchName, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitCheckoutExecutionFailureTemplateConstant, workingDirectory, branchName, failureDescription),
		)
	case gitAddSubcommandNameConstant:
		pathsLabel := formatter.ensureValue(strings.Join(formatter.nonFlagArguments(arguments[1:]), ", "))
		return formatter.selectMessage(stage,
			fmt.Sprintf(gitAddStartTemplateConstant, pathsLabel, workingDirectory),
			fmt.Sprintf(gitAddSuccessTemplateConstant, pathsLabel, workingDirectory),
			fmt.Sprintf(gitAddFailureTemplateConstant, pathsLabel, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitAddExecutionFailureTemplateConstant, pathsLabel, workingDirectory, failureDescription),
		)
	case gitCommitSubcommandNameConstant:
		commitMessage := formatter.ensureValue(findFlagValue(arguments, gitMessageFlagConstant))
		return formatter.selectMessage(stage,
			fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage),
			fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage),
			fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, failureDescription),
		)
	case gitMergeSubcommandNameConstant:
		sourceBranch := formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:]))
		return formatter.selectMessage(stage,
			fmt.Sprintf(gitMergeStartTemplateConstant, sourceBranch, workingDirectory),
			fmt.Sprintf(gitMergeSuccessTemplateConstant, sourceBranch, workingDirectory),
			fmt.Sprintf(gitMergeFailureTemplateConstant, sourceBranch, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitMergeExecutionFailureTemplateConstant, sourceBranch, workingDirectory, failureDescription),
		)
	case gitPushSubcommandNameConstant:
		positional := formatter.nonFlagArguments(arguments[1:])
		remoteName := formatter.ensureValue(formatter.argumentAtIndex(positional, 0))
		references := formatter.ensureValue(strings.Join(positional[min(1, len(positional)):], ", "))
		return formatter.selectMessage(stage,
			fmt.Sprintf(gitPushStartTemplateConstant, references, remoteName, workingDirectory),
			fmt.Sprintf(gitPushSuccessTemplateConstant, references, remoteName, workingDirectory),
			fmt.Sprintf(gitPushFailureTemplateConstant, references, remoteName, workingDirectory, result.ExitCode, standardErrorSuffix),
			fmt.Sprintf(gitPushExecutionFailureTemplateConstant, references, remoteName, workingDirectory, failureDescription),
		)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeCargoMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 || strings.TrimSpace(arguments[0]) != cargoGenerateLockfileSubcommand {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	workingDirectory := formatter.describeWorkingDirectory(command)
	return formatter.selectMessage(stage,
		fmt.Sprintf(cargoLockfileStartTemplateConstant, workingDirectory),
		fmt.Sprintf(cargoLockfileSuccessTemplateConstant, workingDirectory),
		fmt.Sprintf(cargoLockfileFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError)),
		fmt.Sprintf(cargoLockfileExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure)),
	)
}

func (formatter CommandMessageFormatter) describeKeygenMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 || strings.TrimSpace(arguments[0]) != keygenGrindSubcommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	workingDirectory := formatter.describeWorkingDirectory(command)
	constraintCount := countFlagOccurrences(arguments, keygenStartsWithFlagConstant)
	return formatter.selectMessage(stage,
		fmt.Sprintf(keygenGrindStartTemplateConstant, constraintCount, workingDirectory),
		fmt.Sprintf(keygenGrindSuccessTemplateConstant, constraintCount, workingDirectory),
		fmt.Sprintf(keygenGrindFailureTemplateConstant, constraintCount, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError)),
		fmt.Sprintf(keygenGrindExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure)),
	)
}

func (formatter CommandMessageFormatter) selectMessage(stage messageStage, started string, succeeded string, failed string, executionFailed string) string {
	switch stage {
	case messageStageStart:
		return started
	case messageStageSuccess:
		return succeeded
	case messageStageFailure:
		return failed
	default:
		return executionFailed
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := describeCommandLabel(command) + formatter.formatWorkingDirectorySuffix(command)
	return formatter.selectMessage(stage,
		fmt.Sprintf(genericStartTemplateConstant, commandLabel),
		fmt.Sprintf(genericSuccessTemplateConstant, commandLabel),
		fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError)),
		fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure)),
	)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) nonFlagArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || trimmed == argumentSeparatorConstant || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		positional = append(positional, trimmed)
	}
	return positional
}

func (formatter CommandMessageFormatter) lastNonFlagArgument(arguments []string) string {
	positional := formatter.nonFlagArguments(arguments)
	if len(positional) == 0 {
		return emptyStringConstant
	}
	return positional[len(positional)-1]
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return arguments[index]
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index+1 < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}

func countFlagOccurrences(arguments []string, flag string) int {
	occurrences := 0
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == flag {
			occurrences++
		}
	}
	return occurrences
}

func countNonEmptyLines(output string) int {
	lineCount := 0
	for _, line := range strings.Split(output, "\n") {
		if len(strings.TrimSpace(line)) > 0 {
			lineCount++
		}
	}
	return lineCount
}
