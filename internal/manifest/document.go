// Package manifest reads, pins, and rewrites Cargo.toml dependency tables.
//
// The whole document is decoded with go-toml/v2 into a table tree, mutated,
// and re-encoded. Formatting and comments of the source file are not kept.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	dependenciesTableKeyConstant         = "dependencies"
	versionKeyConstant                   = "version"
	fileSystemMissingMessageConstant     = "manifest file system not configured"
	dependenciesNotTableTemplateConstant = "%s is a %T, not a table"
	moduleRequiredMessageConstant        = "module name must be provided"
	constraintRequiredMessageConstant    = "version constraint must be provided"
	encodeErrorTemplateConstant          = "failed to encode manifest: %w"
	tomlIndentSymbolConstant             = "    "
)

// ErrModuleNameRequired indicates Pin or Constraint received an empty module name.
var ErrModuleNameRequired = errors.New(moduleRequiredMessageConstant)

// ErrConstraintRequired indicates Pin received an empty constraint.
var ErrConstraintRequired = errors.New(constraintRequiredMessageConstant)

// MalformedDependenciesError reports a dependencies key that is not a table.
type MalformedDependenciesError struct {
	Value any
}

// Error describes the malformed table.
func (malformedError MalformedDependenciesError) Error() string {
	return fmt.Sprintf(dependenciesNotTableTemplateConstant, dependenciesTableKeyConstant, malformedError.Value)
}

// Document is a decoded manifest.
type Document struct {
	tables map[string]any
}

// Parse decodes TOML manifest contents.
func Parse(contents []byte) (*Document, error) {
	tables := map[string]any{}
	if unmarshalError := toml.Unmarshal(contents, &tables); unmarshalError != nil {
		return nil, unmarshalError
	}
	return &Document{tables: tables}, nil
}

// Pin sets the constraint of every module in dependencies, creating the table
// and entries as needed. Table-form entries keep their other keys and only
// have version replaced; any other form is replaced by the constraint string.
func (document *Document) Pin(modules []string, constraint string) error {
	trimmedConstraint := strings.TrimSpace(constraint)
	if len(trimmedConstraint) == 0 {
		return ErrConstraintRequired
	}

	dependencies, tableError := document.dependencies(true)
	if tableError != nil {
		return tableError
	}

	for _, module := range modules {
		trimmedModule := strings.TrimSpace(module)
		if len(trimmedModule) == 0 {
			return ErrModuleNameRequired
		}
		if entryTable, isTable := dependencies[trimmedModule].(map[string]any); isTable {
			entryTable[versionKeyConstant] = trimmedConstraint
			continue
		}
		dependencies[trimmedModule] = trimmedConstraint
	}
	return nil
}

// Constraint returns the version constraint declared for module, whether
// written as a plain string or as the version key of a table.
func (document *Document) Constraint(module string) (string, bool) {
	trimmedModule := strings.TrimSpace(module)
	if len(trimmedModule) == 0 {
		return "", false
	}
	dependencies, tableError := document.dependencies(false)
	if tableError != nil || dependencies == nil {
		return "", false
	}

	switch entry := dependencies[trimmedModule].(type) {
	case string:
		return entry, true
	case map[string]any:
		version, isString := entry[versionKeyConstant].(string)
		return version, isString
	default:
		return "", false
	}
}

// Encode renders the document as TOML.
func (document *Document) Encode() ([]byte, error) {
	var buffer bytes.Buffer
	encoder := toml.NewEncoder(&buffer)
	encoder.SetIndentSymbol(tomlIndentSymbolConstant)
	if encodeError := encoder.Encode(document.tables); encodeError != nil {
		return nil, fmt.Errorf(encodeErrorTemplateConstant, encodeError)
	}
	return buffer.Bytes(), nil
}

func (document *Document) dependencies(create bool) (map[string]any, error) {
	if document.tables == nil {
		document.tables = map[string]any{}
	}
	rawDependencies, exists := document.tables[dependenciesTableKeyConstant]
	if !exists {
		if !create {
			return nil, nil
		}
		dependencies := map[string]any{}
		document.tables[dependenciesTableKeyConstant] = dependencies
		return dependencies, nil
	}
	dependencies, isTable := rawDependencies.(map[string]any)
	if !isTable {
		return nil, MalformedDependenciesError{Value: rawDependencies}
	}
	return dependencies, nil
}
