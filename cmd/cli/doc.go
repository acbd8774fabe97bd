// Package cli builds the relkit root command and registers the branch-sync
// and keys-grind subcommands against a shared configuration and logger.
package cli
