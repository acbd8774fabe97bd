// Package sync creates and maintains release branches of a Cargo workspace.
//
// For every configured target branch the Service either creates the branch
// from the base branch, pinning a fixed module set in the manifest to a
// constraint derived from the branch name and regenerating the lockfile in a
// single commit, or merges the base branch into the existing branch. The
// repository is returned to the base branch when every branch succeeded.
package sync
