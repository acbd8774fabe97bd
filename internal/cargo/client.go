// Package cargo drives the cargo dependency tool.
package cargo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/relkit/internal/execshell"
	"github.com/temirov/relkit/internal/repos/shared"
)

const (
	executorMissingMessageConstant        = "cargo executor not configured"
	manifestPathRequiredMessageConstant   = "manifest path must be provided"
	generateLockfileSubcommandConstant    = "generate-lockfile"
	manifestPathFlagConstant              = "--manifest-path"
	generateLockfileErrorTemplateConstant = "failed to regenerate lockfile for %s: %w"
)

// ErrExecutorNotConfigured indicates the client was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrManifestPathRequired indicates an empty manifest path.
var ErrManifestPathRequired = errors.New(manifestPathRequiredMessageConstant)

// Client issues cargo commands through a shared.CargoExecutor.
type Client struct {
	executor shared.CargoExecutor
}

// NewClient constructs a Client.
func NewClient(executor shared.CargoExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// GenerateLockfile runs cargo generate-lockfile for the manifest at
// manifestPath. Cargo runs in the manifest's directory, so a crate nested
// below the repository root resolves its own workspace.
func (client *Client) GenerateLockfile(executionContext context.Context, manifestPath string) error {
	trimmedManifestPath := strings.TrimSpace(manifestPath)
	if len(trimmedManifestPath) == 0 {
		return ErrManifestPathRequired
	}
	_, executionError := client.executor.ExecuteCargo(executionContext, execshell.CommandDetails{
		Arguments:        []string{generateLockfileSubcommandConstant, manifestPathFlagConstant, trimmedManifestPath},
		WorkingDirectory: filepath.Dir(trimmedManifestPath),
	})
	if executionError != nil {
		return fmt.Errorf(generateLockfileErrorTemplateConstant, trimmedManifestPath, executionError)
	}
	return nil
}
