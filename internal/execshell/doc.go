// Package execshell runs the external tools relkit depends on.
//
// ShellExecutor wraps a CommandRunner with structured logging and typed
// errors, OSCommandRunner is the os/exec backed runner, and
// CommandMessageFormatter describes git, cargo, and solana-keygen invocations
// in plain language for the logs. Services depend on the narrow Execute*
// methods so tests can substitute recording fakes.
package execshell
