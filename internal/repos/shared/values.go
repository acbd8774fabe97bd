package shared

import (
	"fmt"
	"strings"
)

const (
	valueRequiredMessageConstant           = "value must not be empty"
	valueContainsWhitespaceMessageConstant = "value must not contain whitespace"
	branchNameInvalidMessageConstant       = "not a valid git branch name"
	invalidValueTemplateConstant           = "invalid %s %q: %s"
	repositoryPathFieldNameConstant        = "repository path"
	branchNameFieldNameConstant            = "branch name"
	moduleNameFieldNameConstant            = "module name"
	branchForbiddenSequences               = "..|@{|//"
	branchForbiddenCharacters              = "~^:?*[\\"
	branchForbiddenSuffixLock              = ".lock"
)

// InvalidValueError reports a rejected domain value.
type InvalidValueError struct {
	Field   string
	Value   string
	Message string
}

// Error describes the rejected value.
func (invalidError InvalidValueError) Error() string {
	return fmt.Sprintf(invalidValueTemplateConstant, invalidError.Field, invalidError.Value, invalidError.Message)
}

// RepositoryPath is a trimmed, single-line filesystem path to a working tree.
type RepositoryPath string

// NewRepositoryPath validates and trims a repository path.
func NewRepositoryPath(raw string) (RepositoryPath, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", InvalidValueError{Field: repositoryPathFieldNameConstant, Value: raw, Message: valueRequiredMessageConstant}
	}
	if strings.ContainsAny(trimmed, "\r\n") {
		return "", InvalidValueError{Field: repositoryPathFieldNameConstant, Value: raw, Message: valueContainsWhitespaceMessageConstant}
	}
	return RepositoryPath(trimmed), nil
}

// String returns the path.
func (repositoryPath RepositoryPath) String() string {
	return string(repositoryPath)
}

// BranchName is a local branch name acceptable to git check-ref-format.
type BranchName string

// NewBranchName validates a branch name against the git ref naming rules that matter for local heads.
func NewBranchName(raw string) (BranchName, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", InvalidValueError{Field: branchNameFieldNameConstant, Value: raw, Message: valueRequiredMessageConstant}
	}
	if containsWhitespaceOrControl(trimmed) {
		return "", InvalidValueError{Field: branchNameFieldNameConstant, Value: raw, Message: valueContainsWhitespaceMessageConstant}
	}
	if !isValidBranchName(trimmed) {
		return "", InvalidValueError{Field: branchNameFieldNameConstant, Value: raw, Message: branchNameInvalidMessageConstant}
	}
	return BranchName(trimmed), nil
}

// String returns the branch name.
func (branchName BranchName) String() string {
	return string(branchName)
}

// ModuleName is a Cargo dependency key.
type ModuleName string

// NewModuleName validates a Cargo dependency key.
func NewModuleName(raw string) (ModuleName, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", InvalidValueError{Field: moduleNameFieldNameConstant, Value: raw, Message: valueRequiredMessageConstant}
	}
	if containsWhitespaceOrControl(trimmed) {
		return "", InvalidValueError{Field: moduleNameFieldNameConstant, Value: raw, Message: valueContainsWhitespaceMessageConstant}
	}
	return ModuleName(trimmed), nil
}

// String returns the module name.
func (moduleName ModuleName) String() string {
	return string(moduleName)
}

func containsWhitespaceOrControl(value string) bool {
	for _, character := range value {
		if character <= ' ' || character == 0x7f {
			return true
		}
	}
	return false
}

func isValidBranchName(value string) bool {
	if strings.HasPrefix(value, "-") || strings.HasPrefix(value, "/") || strings.HasSuffix(value, "/") {
		return false
	}
	if strings.HasSuffix(value, ".") || strings.HasSuffix(value, branchForbiddenSuffixLock) || value == "@" {
		return false
	}
	if strings.ContainsAny(value, branchForbiddenCharacters) {
		return false
	}
	for _, sequence := range strings.Split(branchForbiddenSequences, "|") {
		if strings.Contains(value, sequence) {
			return false
		}
	}
	for _, component := range strings.Split(value, "/") {
		if strings.HasPrefix(component, ".") {
			return false
		}
	}
	return true
}
