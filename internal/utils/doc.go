// Package utils exposes reusable helpers consumed by multiple commands.
//
// ConfigurationLoader layers embedded defaults, an optional config file, and
// RELKIT_* environment variables through Viper. LoggerFactory builds the zap
// loggers selected by common.log_level and common.log_format.
package utils
