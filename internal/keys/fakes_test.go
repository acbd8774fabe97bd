package keys_test

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/temirov/relkit/internal/execshell"
)

type memoryDirEntry struct {
	name      string
	directory bool
}

func (entry memoryDirEntry) Name() string { return entry.name }

func (entry memoryDirEntry) IsDir() bool { return entry.directory }

func (entry memoryDirEntry) Type() fs.FileMode {
	if entry.directory {
		return fs.ModeDir
	}
	return 0
}

func (entry memoryDirEntry) Info() (fs.FileInfo, error) { return memoryFileInfo{entry: entry}, nil }

type memoryFileInfo struct {
	entry memoryDirEntry
}

func (info memoryFileInfo) Name() string       { return info.entry.name }
func (info memoryFileInfo) Size() int64        { return 0 }
func (info memoryFileInfo) Mode() fs.FileMode  { return info.entry.Type() }
func (info memoryFileInfo) ModTime() time.Time { return time.Time{} }
func (info memoryFileInfo) IsDir() bool        { return info.entry.directory }
func (info memoryFileInfo) Sys() any           { return nil }

// memoryFileSystem keeps directory listings in insertion order so tests control the order entries are discovered in.
type memoryFileSystem struct {
	listings    map[string][]memoryDirEntry
	written     map[string][]byte
	directories []string
}

func newMemoryFileSystem() *memoryFileSystem {
	return &memoryFileSystem{listings: map[string][]memoryDirEntry{}, written: map[string][]byte{}}
}

func (fileSystem *memoryFileSystem) addFiles(directory string, names ...string) {
	for _, name := range names {
		fileSystem.listings[directory] = append(fileSystem.listings[directory], memoryDirEntry{name: name})
	}
}

func (fileSystem *memoryFileSystem) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func (fileSystem *memoryFileSystem) Abs(path string) (string, error) {
	return filepath.Clean(path), nil
}

func (fileSystem *memoryFileSystem) MkdirAll(path string, _ fs.FileMode) error {
	fileSystem.directories = append(fileSystem.directories, path)
	return nil
}

func (fileSystem *memoryFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	listing, exists := fileSystem.listings[path]
	if !exists {
		return nil, fs.ErrNotExist
	}
	entries := make([]fs.DirEntry, 0, len(listing))
	for _, entry := range listing {
		entries = append(entries, entry)
	}
	return entries, nil
}

func (fileSystem *memoryFileSystem) ReadFile(path string) ([]byte, error) {
	contents, exists := fileSystem.written[path]
	if !exists {
		return nil, fs.ErrNotExist
	}
	return contents, nil
}

func (fileSystem *memoryFileSystem) WriteFile(path string, data []byte, _ fs.FileMode) error {
	fileSystem.written[path] = append([]byte{}, data...)
	return nil
}

// grindingExecutor records invocations and materializes key files for the requested shards.
type grindingExecutor struct {
	fileSystem  *memoryFileSystem
	produce     []string
	invocations []execshell.CommandDetails
	failure     error
}

func (executor *grindingExecutor) ExecuteKeygen(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.invocations = append(executor.invocations, details)
	if executor.failure != nil {
		return execshell.ExecutionResult{}, executor.failure
	}
	executor.fileSystem.addFiles(details.WorkingDirectory, executor.produce...)
	return execshell.ExecutionResult{}, nil
}

type recordingProgress struct {
	events []string
}

func (progress *recordingProgress) Start(message string) {
	progress.events = append(progress.events, "start "+message)
}

func (progress *recordingProgress) Stop() {
	progress.events = append(progress.events, "stop")
}
