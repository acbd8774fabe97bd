package keys

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/relkit/internal/repos/shared"
)

const (
	fileSystemMissingMessageConstant = "file system not configured"
	listDirectoryErrorTemplate       = "failed to list key directory %s: %w"
	duplicateShardTemplateConstant   = "key files %s and %s both encode shard %d"
	logFieldFileConstant             = "file"
	logFieldShardConstant            = "shard"
	logFieldDirectoryConstant        = "directory"
)

// ErrFileSystemNotConfigured indicates a missing file system dependency.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// KeyFile is a generated keypair file and the shard index decoded from its name.
type KeyFile struct {
	Index int
	Name  string
}

// DuplicateShardError reports two key files that decode to the same shard.
type DuplicateShardError struct {
	Index      int
	FirstName  string
	SecondName string
}

// Error describes the collision.
func (duplicateError DuplicateShardError) Error() string {
	return fmt.Sprintf(duplicateShardTemplateConstant, duplicateError.FirstName, duplicateError.SecondName, duplicateError.Index)
}

// ScanOptions selects which directory entries count as key files.
type ScanOptions struct {
	Directory  string
	Extension  string
	Encoding   Encoding
	ShardCount int
}

// Scanner discovers key files and orders them by shard index.
type Scanner struct {
	fileSystem shared.FileSystem
	logger     *zap.Logger
}

// NewScanner constructs a Scanner.
func NewScanner(fileSystem shared.FileSystem, logger *zap.Logger) (*Scanner, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{fileSystem: fileSystem, logger: logger}, nil
}

// Scan lists the directory and returns key files sorted by ascending shard
// index regardless of directory order. Files whose names do not decode to an
// index below the shard count are skipped with a warning.
func (scanner *Scanner) Scan(options ScanOptions) ([]KeyFile, error) {
	entries, listError := scanner.fileSystem.ReadDir(options.Directory)
	if listError != nil {
		return nil, fmt.Errorf(listDirectoryErrorTemplate, options.Directory, listError)
	}

	filesByIndex := make(map[int]string, len(entries))
	keyFiles := make([]KeyFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), options.Extension) {
			continue
		}
		fileName := entry.Name()

		shardIndex, decoded := options.Encoding.DecodeFileName(fileName)
		if !decoded {
			scanner.logger.Warn("Skipping key file without a shard prefix",
				zap.String(logFieldDirectoryConstant, options.Directory),
				zap.String(logFieldFileConstant, fileName),
			)
			continue
		}
		if rangeError := checkIndexRange(shardIndex, options.ShardCount); rangeError != nil {
			scanner.logger.Warn("Skipping key file outside the shard range",
				zap.String(logFieldDirectoryConstant, options.Directory),
				zap.String(logFieldFileConstant, fileName),
				zap.Int(logFieldShardConstant, shardIndex),
			)
			continue
		}
		if existingName, duplicate := filesByIndex[shardIndex]; duplicate {
			firstName, secondName := existingName, fileName
			if secondName < firstName {
				firstName, secondName = secondName, firstName
			}
			return nil, DuplicateShardError{Index: shardIndex, FirstName: firstName, SecondName: secondName}
		}

		filesByIndex[shardIndex] = fileName
		keyFiles = append(keyFiles, KeyFile{Index: shardIndex, Name: fileName})
	}

	sort.Slice(keyFiles, func(left int, right int) bool {
		return keyFiles[left].Index < keyFiles[right].Index
	})
	return keyFiles, nil
}
