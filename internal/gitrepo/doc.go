// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// RepositoryManager translates the branch, staging, commit, merge, and push
// steps used by branch synchronization into git invocations issued through a
// shared.GitExecutor with terminal prompts disabled.
package gitrepo
