// Package testsupport provides fixtures shared by package tests.
package testsupport

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const (
	gitExecutableName         = "git"
	fixtureBaseBranchName     = "main"
	fixtureUserEmail          = "test@example.com"
	fixtureUserName           = "Test"
	fixtureInitialCommitTitle = "initial commit"
)

// RequireGit skips the test when git is not on PATH.
func RequireGit(testInstance testing.TB) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(gitExecutableName); lookupError != nil {
		testInstance.Skip("git is not installed")
	}
}

// CreateRepository initializes a repository on branch main whose first commit
// contains the provided files, and returns its path.
func CreateRepository(testInstance testing.TB, files map[string]string) string {
	testInstance.Helper()
	RequireGit(testInstance)

	repositoryPath := filepath.Join(testInstance.TempDir(), "repository")
	RunGit(testInstance, filepath.Dir(repositoryPath), "init", "-b", fixtureBaseBranchName, repositoryPath)
	RunGit(testInstance, repositoryPath, "config", "user.email", fixtureUserEmail)
	RunGit(testInstance, repositoryPath, "config", "user.name", fixtureUserName)
	RunGit(testInstance, repositoryPath, "config", "commit.gpgsign", "false")

	if len(files) == 0 {
		files = map[string]string{"README.md": "# test\n"}
	}
	WriteFiles(testInstance, repositoryPath, files)
	RunGit(testInstance, repositoryPath, "add", ".")
	RunGit(testInstance, repositoryPath, "commit", "-m", fixtureInitialCommitTitle)
	return repositoryPath
}

// CreateBareRemote clones repositoryPath into a bare repository, registers it
// as origin, and returns the bare path.
func CreateBareRemote(testInstance testing.TB, repositoryPath string) string {
	testInstance.Helper()
	barePath := filepath.Join(testInstance.TempDir(), "origin.git")
	RunGit(testInstance, filepath.Dir(barePath), "clone", "--bare", repositoryPath, barePath)
	RunGit(testInstance, repositoryPath, "remote", "add", "origin", barePath)
	return barePath
}

// WriteFiles writes relative paths under root, creating parent directories.
func WriteFiles(testInstance testing.TB, root string, files map[string]string) {
	testInstance.Helper()
	for relativePath, contents := range files {
		absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
		if mkdirError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); mkdirError != nil {
			testInstance.Fatal(mkdirError)
		}
		if writeError := os.WriteFile(absolutePath, []byte(contents), 0o644); writeError != nil {
			testInstance.Fatal(writeError)
		}
	}
}

// CommitFiles writes files and commits them on the current branch.
func CommitFiles(testInstance testing.TB, repositoryPath string, message string, files map[string]string) {
	testInstance.Helper()
	WriteFiles(testInstance, repositoryPath, files)
	RunGit(testInstance, repositoryPath, "add", ".")
	RunGit(testInstance, repositoryPath, "commit", "-m", message)
}

// RunGit runs git in directory and returns trimmed standard output, failing the test on error.
func RunGit(testInstance testing.TB, directory string, arguments ...string) string {
	testInstance.Helper()
	command := exec.Command(gitExecutableName, arguments...)
	command.Dir = directory
	command.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GIT_CONFIG_NOSYSTEM=1")
	output, runError := command.CombinedOutput()
	if runError != nil {
		testInstance.Fatalf("git %s failed: %v\n%s", strings.Join(arguments, " "), runError, output)
	}
	return strings.TrimSpace(string(output))
}
