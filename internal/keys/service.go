package keys

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/relkit/internal/repos/shared"
)

const (
	directoryRequiredMessageConstant    = "key directory must be provided"
	extensionRequiredMessageConstant    = "key file extension must be provided"
	constantNameRequiredMessageConstant = "constant name must be provided"
	keyLengthInvalidTemplateConstant    = "key length must be positive, got %d"
	prepareDirectoryErrorTemplate       = "failed to prepare key directory %s: %w"
	writeListingErrorTemplate           = "failed to write listing %s: %w"
	grindProgressTemplateConstant       = "Grinding %d keypair prefixes"
	defaultListingPermissions           = fs.FileMode(0o644)
	defaultDirectoryPermissions         = fs.FileMode(0o755)
	logFieldShardCountConstant          = "shard_count"
	logFieldFoundCountConstant          = "found"
	logFieldMissingConstant             = "missing"
	logFieldOutputConstant              = "output"
)

// ErrDirectoryRequired indicates an empty key directory.
var ErrDirectoryRequired = errors.New(directoryRequiredMessageConstant)

// ErrExtensionRequired indicates an empty key file extension.
var ErrExtensionRequired = errors.New(extensionRequiredMessageConstant)

// ErrConstantNameRequired indicates an empty Rust constant name.
var ErrConstantNameRequired = errors.New(constantNameRequiredMessageConstant)

// ProgressIndicator shows activity while the grind runs.
type ProgressIndicator interface {
	Start(message string)
	Stop()
}

type noopProgressIndicator struct{}

func (noopProgressIndicator) Start(string) {}

func (noopProgressIndicator) Stop() {}

// Dependencies enumerates external collaborators required for key generation.
type Dependencies struct {
	Executor   shared.KeygenExecutor
	FileSystem shared.FileSystem
	Logger     *zap.Logger
	Progress   ProgressIndicator
}

// Options configures a key batch run.
type Options struct {
	Directory        string
	ShardCount       int
	Encoding         Encoding
	ExtraArguments   []string
	Extension        string
	IncludeDirectory string
	ConstantName     string
	KeyLength        int
	Shortfall        ShortfallPolicy
	SkipGrind        bool
	OutputPath       string
}

// Result captures the files found and the rendered listing.
type Result struct {
	Files          []KeyFile
	MissingIndices []int
	Listing        []byte
	OutputPath     string
}

// Service grinds keypairs and renders the listing.
type Service struct {
	grinder    *Grinder
	scanner    *Scanner
	fileSystem shared.FileSystem
	logger     *zap.Logger
	progress   ProgressIndicator
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	grinder, grinderError := NewGrinder(dependencies.Executor)
	if grinderError != nil {
		return nil, grinderError
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	scanner, scannerError := NewScanner(dependencies.FileSystem, logger)
	if scannerError != nil {
		return nil, scannerError
	}
	progress := dependencies.Progress
	if progress == nil {
		progress = noopProgressIndicator{}
	}
	return &Service{
		grinder:    grinder,
		scanner:    scanner,
		fileSystem: dependencies.FileSystem,
		logger:     logger,
		progress:   progress,
	}, nil
}

// Generate runs the grind (unless skipped), scans the directory, applies the
// shortfall policy, and renders the listing. With an output path the listing
// is also written there.
func (service *Service) Generate(executionContext context.Context, options Options) (Result, error) {
	normalized, validationError := normalizeOptions(options)
	if validationError != nil {
		return Result{}, validationError
	}

	if !normalized.SkipGrind {
		if grindError := service.grind(executionContext, normalized); grindError != nil {
			return Result{}, grindError
		}
	}

	files, scanError := service.scanner.Scan(ScanOptions{
		Directory:  normalized.Directory,
		Extension:  normalized.Extension,
		Encoding:   normalized.Encoding,
		ShardCount: normalized.ShardCount,
	})
	if scanError != nil {
		return Result{}, scanError
	}

	result := Result{Files: files, MissingIndices: missingShards(files, normalized.ShardCount)}
	if len(result.MissingIndices) > 0 {
		shortfallError := ShardShortfallError{
			ShardCount:     normalized.ShardCount,
			FoundCount:     len(files),
			MissingIndices: result.MissingIndices,
		}
		switch normalized.Shortfall {
		case ShortfallError:
			return result, shortfallError
		case ShortfallWarn:
			service.logger.Warn("Key batch is incomplete",
				zap.String(logFieldDirectoryConstant, normalized.Directory),
				zap.Int(logFieldShardCountConstant, normalized.ShardCount),
				zap.Int(logFieldFoundCountConstant, len(files)),
				zap.String(logFieldMissingConstant, formatMissingIndices(result.MissingIndices)),
			)
		}
	}

	result.Listing = RenderListing(ListingOptions{
		ConstantName:     normalized.ConstantName,
		KeyLength:        normalized.KeyLength,
		ShardCount:       normalized.ShardCount,
		IncludeDirectory: normalized.IncludeDirectory,
	}, files)

	if len(normalized.OutputPath) > 0 {
		if writeError := service.fileSystem.WriteFile(normalized.OutputPath, result.Listing, defaultListingPermissions); writeError != nil {
			return result, fmt.Errorf(writeListingErrorTemplate, normalized.OutputPath, writeError)
		}
		result.OutputPath = normalized.OutputPath
		service.logger.Debug("Wrote key listing", zap.String(logFieldOutputConstant, normalized.OutputPath))
	}
	return result, nil
}

func (service *Service) grind(executionContext context.Context, options Options) error {
	arguments, argumentsError := BuildGrindArguments(options.Encoding, options.ShardCount, options.ExtraArguments)
	if argumentsError != nil {
		return argumentsError
	}
	if mkdirError := service.fileSystem.MkdirAll(options.Directory, defaultDirectoryPermissions); mkdirError != nil {
		return fmt.Errorf(prepareDirectoryErrorTemplate, options.Directory, mkdirError)
	}

	service.progress.Start(fmt.Sprintf(grindProgressTemplateConstant, options.ShardCount))
	defer service.progress.Stop()
	return service.grinder.Grind(executionContext, options.Directory, arguments)
}

func normalizeOptions(options Options) (Options, error) {
	normalized := options
	normalized.Directory = strings.TrimSpace(options.Directory)
	normalized.Extension = strings.TrimSpace(options.Extension)
	normalized.IncludeDirectory = strings.TrimSpace(options.IncludeDirectory)
	normalized.ConstantName = strings.TrimSpace(options.ConstantName)
	normalized.OutputPath = strings.TrimSpace(options.OutputPath)

	if len(normalized.Directory) == 0 {
		return Options{}, ErrDirectoryRequired
	}
	if len(normalized.Extension) == 0 {
		return Options{}, ErrExtensionRequired
	}
	if len(normalized.ConstantName) == 0 {
		return Options{}, ErrConstantNameRequired
	}
	if normalized.KeyLength <= 0 {
		return Options{}, fmt.Errorf(keyLengthInvalidTemplateConstant, normalized.KeyLength)
	}
	if encodingError := normalized.Encoding.Validate(normalized.ShardCount); encodingError != nil {
		return Options{}, encodingError
	}
	policy, policyError := ParseShortfallPolicy(string(options.Shortfall))
	if policyError != nil {
		return Options{}, policyError
	}
	normalized.Shortfall = policy
	return normalized, nil
}
