package sync

import "strings"

const (
	defaultBaseBranchConstant            = "main"
	defaultConstraintTemplateConstant    = "~" + BranchPlaceholderConstant
	defaultManifestPathConstant          = "Cargo.toml"
	defaultLockfilePathConstant          = "Cargo.lock"
	defaultCommitMessageTemplateConstant = "Create " + BranchPlaceholderConstant + " branch"
	defaultPushRemoteConstant            = "origin"
)

// PushConfiguration controls publishing newly created branches.
type PushConfiguration struct {
	Enabled bool   `mapstructure:"enabled"`
	Remote  string `mapstructure:"remote"`
}

// CommandConfiguration captures configuration values for branch-sync.
type CommandConfiguration struct {
	Repository            string            `mapstructure:"repository"`
	BaseBranch            string            `mapstructure:"base_branch"`
	Branches              []string          `mapstructure:"branches"`
	Modules               []string          `mapstructure:"modules"`
	ConstraintTemplate    string            `mapstructure:"constraint_template"`
	Manifest              string            `mapstructure:"manifest"`
	Lockfile              string            `mapstructure:"lockfile"`
	CommitMessageTemplate string            `mapstructure:"commit_message_template"`
	RequireClean          bool              `mapstructure:"require_clean"`
	DryRun                bool              `mapstructure:"dry_run"`
	Push                  PushConfiguration `mapstructure:"push"`
}

// DefaultCommandConfiguration provides baseline configuration values for branch-sync.
// Branch and module lists are empty; the embedded application configuration supplies them.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Repository:            ".",
		BaseBranch:            defaultBaseBranchConstant,
		ConstraintTemplate:    defaultConstraintTemplateConstant,
		Manifest:              defaultManifestPathConstant,
		Lockfile:              defaultLockfilePathConstant,
		CommitMessageTemplate: defaultCommitMessageTemplateConstant,
		RequireClean:          true,
		Push:                  PushConfiguration{Enabled: false, Remote: defaultPushRemoteConstant},
	}
}

// Sanitize trims configuration values and drops empty list entries without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Repository = strings.TrimSpace(configuration.Repository)
	sanitized.BaseBranch = strings.TrimSpace(configuration.BaseBranch)
	sanitized.Branches = sanitizeValues(configuration.Branches)
	sanitized.Modules = sanitizeValues(configuration.Modules)
	sanitized.ConstraintTemplate = strings.TrimSpace(configuration.ConstraintTemplate)
	sanitized.Manifest = strings.TrimSpace(configuration.Manifest)
	sanitized.Lockfile = strings.TrimSpace(configuration.Lockfile)
	sanitized.CommitMessageTemplate = strings.TrimSpace(configuration.CommitMessageTemplate)
	sanitized.Push.Remote = strings.TrimSpace(configuration.Push.Remote)

	return sanitized
}

func sanitizeValues(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}

// DefaultConfigurationValues returns the viper defaults for branch-sync under the given key prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + ".repository":              defaults.Repository,
		prefix + ".base_branch":             defaults.BaseBranch,
		prefix + ".branches":                []string{},
		prefix + ".modules":                 []string{},
		prefix + ".constraint_template":     defaults.ConstraintTemplate,
		prefix + ".manifest":                defaults.Manifest,
		prefix + ".lockfile":                defaults.Lockfile,
		prefix + ".commit_message_template": defaults.CommitMessageTemplate,
		prefix + ".require_clean":           defaults.RequireClean,
		prefix + ".dry_run":                 defaults.DryRun,
		prefix + ".push.enabled":            defaults.Push.Enabled,
		prefix + ".push.remote":             defaults.Push.Remote,
	}
}
