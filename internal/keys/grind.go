package keys

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/relkit/internal/execshell"
	"github.com/temirov/relkit/internal/repos/shared"
)

const (
	grindSubcommandConstant      = "grind"
	startsWithFlagConstant       = "--starts-with"
	keygenExecutorMissingMessage = "solana-keygen executor not configured"
	grindFailureTemplateConstant = "failed to grind %d keypair prefixes in %s: %w"
)

// ErrKeygenExecutorNotConfigured indicates the grinder was constructed without an executor.
var ErrKeygenExecutorNotConfigured = errors.New(keygenExecutorMissingMessage)

// BuildGrindArguments returns the solana-keygen arguments requesting exactly
// one key per shard prefix, followed by the extra arguments verbatim.
func BuildGrindArguments(encoding Encoding, shardCount int, extraArguments []string) ([]string, error) {
	if validationError := encoding.Validate(shardCount); validationError != nil {
		return nil, validationError
	}

	arguments := make([]string, 0, 1+2*shardCount+len(extraArguments))
	arguments = append(arguments, grindSubcommandConstant)
	for shardIndex := 0; shardIndex < shardCount; shardIndex++ {
		pattern, patternError := encoding.PrefixPattern(shardIndex)
		if patternError != nil {
			return nil, patternError
		}
		arguments = append(arguments, startsWithFlagConstant, pattern)
	}
	for _, extraArgument := range extraArguments {
		if trimmed := strings.TrimSpace(extraArgument); len(trimmed) > 0 {
			arguments = append(arguments, trimmed)
		}
	}
	return arguments, nil
}

// Grinder runs a single solana-keygen grind invocation covering every shard.
type Grinder struct {
	executor shared.KeygenExecutor
}

// NewGrinder constructs a Grinder.
func NewGrinder(executor shared.KeygenExecutor) (*Grinder, error) {
	if executor == nil {
		return nil, ErrKeygenExecutorNotConfigured
	}
	return &Grinder{executor: executor}, nil
}

// Grind runs solana-keygen in directory so the key files land there.
func (grinder *Grinder) Grind(executionContext context.Context, directory string, arguments []string) error {
	_, executionError := grinder.executor.ExecuteKeygen(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: directory,
	})
	if executionError != nil {
		return fmt.Errorf(grindFailureTemplateConstant, countPrefixes(arguments), directory, executionError)
	}
	return nil
}

func countPrefixes(arguments []string) int {
	count := 0
	for _, argument := range arguments {
		if argument == startsWithFlagConstant {
			count++
		}
	}
	return count
}
