package utils_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/relkit/internal/utils"
)

const testLogMessageConstant = "logger_factory_test_message"

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
	}{
		{name: "debug_structured", requestedLogLevel: utils.LogLevelDebug, requestedLogFormat: utils.LogFormatStructured, expectStructuredLog: true},
		{name: "info_structured", requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormatStructured, expectStructuredLog: true},
		{name: "info_console", requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormatConsole},
		{name: "unsupported_level", requestedLogLevel: utils.LogLevel("verbose"), requestedLogFormat: utils.LogFormatStructured, expectError: true},
		{name: "unsupported_format", requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormat("xml"), expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			loggerFactory := utils.NewLoggerFactoryWithOutput(outputBuffer)

			logger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)
			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)
				return
			}
			require.NoError(testInstance, creationError)

			logger.Info(testLogMessageConstant, zap.String("branch", "1.16"))
			require.NoError(testInstance, logger.Sync())

			trimmedOutput := bytes.TrimSpace(outputBuffer.Bytes())
			require.Contains(testInstance, string(trimmedOutput), testLogMessageConstant)
			require.Equal(testInstance, testCase.expectStructuredLog, json.Valid(trimmedOutput))
		})
	}
}

func TestConsoleLoggerOmitsCaller(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	logger, creationError := utils.NewLoggerFactoryWithOutput(outputBuffer).CreateLogger(utils.LogLevelInfo, utils.LogFormatConsole)
	require.NoError(testInstance, creationError)

	logger.Warn(testLogMessageConstant)
	require.Contains(testInstance, outputBuffer.String(), "WARN")
	require.NotContains(testInstance, outputBuffer.String(), "logger_factory_test.go")
}

func TestStructuredLoggerRecordsCaller(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	logger, creationError := utils.NewLoggerFactoryWithOutput(outputBuffer).CreateLogger(utils.LogLevelInfo, utils.LogFormatStructured)
	require.NoError(testInstance, creationError)

	logger.Info(testLogMessageConstant)
	var entry map[string]any
	require.NoError(testInstance, json.Unmarshal(bytes.TrimSpace(outputBuffer.Bytes()), &entry))
	require.Equal(testInstance, "info", entry["level"])
	require.Contains(testInstance, entry["caller"], "logger_factory_test.go")
}

func TestLoggerFactoryNormalizesRequestedValues(testInstance *testing.T) {
	logger, creationError := utils.NewLoggerFactoryWithOutput(&bytes.Buffer{}).CreateLogger(utils.LogLevel(" WARN "), utils.LogFormat("Console"))
	require.NoError(testInstance, creationError)
	require.False(testInstance, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(testInstance, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestSupportedLoggingValuesMatchFactory(testInstance *testing.T) {
	loggerFactory := utils.NewLoggerFactoryWithOutput(&bytes.Buffer{})
	for _, logLevel := range utils.SupportedLogLevels() {
		for _, logFormat := range utils.SupportedLogFormats() {
			logger, creationError := loggerFactory.CreateLogger(utils.LogLevel(logLevel), utils.LogFormat(logFormat))
			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)
		}
	}
}
