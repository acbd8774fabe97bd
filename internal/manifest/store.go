package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/temirov/relkit/internal/repos/shared"
)

const (
	manifestPathRequiredMessageConstant = "manifest path must be provided"
	readErrorTemplateConstant           = "failed to read manifest %s: %w"
	parseErrorTemplateConstant          = "failed to parse manifest %s: %w"
	writeErrorTemplateConstant          = "failed to write manifest %s: %w"
	defaultManifestPermissions          = fs.FileMode(0o644)
)

// ErrFileSystemNotConfigured indicates the store was constructed without a file system.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrManifestPathRequired indicates an empty manifest path.
var ErrManifestPathRequired = errors.New(manifestPathRequiredMessageConstant)

// Store loads and saves manifests through a shared.FileSystem.
type Store struct {
	fileSystem shared.FileSystem
}

// NewStore constructs a Store.
func NewStore(fileSystem shared.FileSystem) (*Store, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &Store{fileSystem: fileSystem}, nil
}

// Load reads and decodes the manifest at manifestPath.
func (store *Store) Load(manifestPath string) (*Document, error) {
	trimmedPath := strings.TrimSpace(manifestPath)
	if len(trimmedPath) == 0 {
		return nil, ErrManifestPathRequired
	}
	contents, readError := store.fileSystem.ReadFile(trimmedPath)
	if readError != nil {
		return nil, fmt.Errorf(readErrorTemplateConstant, trimmedPath, readError)
	}
	document, parseError := Parse(contents)
	if parseError != nil {
		return nil, fmt.Errorf(parseErrorTemplateConstant, trimmedPath, parseError)
	}
	return document, nil
}

// Save encodes document and replaces the file at manifestPath, keeping its
// permissions when the file already exists.
func (store *Store) Save(manifestPath string, document *Document) error {
	trimmedPath := strings.TrimSpace(manifestPath)
	if len(trimmedPath) == 0 {
		return ErrManifestPathRequired
	}
	contents, encodeError := document.Encode()
	if encodeError != nil {
		return encodeError
	}

	permissions := defaultManifestPermissions
	if info, statError := store.fileSystem.Stat(trimmedPath); statError == nil {
		permissions = info.Mode().Perm()
	}
	if writeError := store.fileSystem.WriteFile(trimmedPath, contents, permissions); writeError != nil {
		return fmt.Errorf(writeErrorTemplateConstant, trimmedPath, writeError)
	}
	return nil
}
