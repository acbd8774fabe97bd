package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/relkit/internal/utils"
)

func TestCommandContextAccessorRoundTripsValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/etc/relkit/config.yaml")
	executionContext = accessor.WithWorkingDirectory(executionContext, "/workspace/programs")

	configurationFilePath, configurationAvailable := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, configurationAvailable)
	require.Equal(testInstance, "/etc/relkit/config.yaml", configurationFilePath)

	workingDirectory, workingDirectoryAvailable := accessor.WorkingDirectory(executionContext)
	require.True(testInstance, workingDirectoryAvailable)
	require.Equal(testInstance, "/workspace/programs", workingDirectory)
}

func TestCommandContextAccessorReportsMissingValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, configurationAvailable := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, configurationAvailable)

	var missingContext context.Context
	_, workingDirectoryAvailable := accessor.WorkingDirectory(missingContext)
	require.False(testInstance, workingDirectoryAvailable)
}
