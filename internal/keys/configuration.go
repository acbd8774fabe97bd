package keys

import "strings"

// CommandConfiguration captures configuration values for keys-grind.
type CommandConfiguration struct {
	Directory        string   `mapstructure:"directory"`
	ShardCount       int      `mapstructure:"shard_count"`
	Sentinel         string   `mapstructure:"sentinel"`
	Suffix           string   `mapstructure:"suffix"`
	Width            int      `mapstructure:"width"`
	Placeholder      string   `mapstructure:"placeholder"`
	Extension        string   `mapstructure:"extension"`
	IncludeDirectory string   `mapstructure:"include_directory"`
	ConstantName     string   `mapstructure:"constant_name"`
	KeyLength        int      `mapstructure:"key_length"`
	Shortfall        string   `mapstructure:"shortfall"`
	SkipGrind        bool     `mapstructure:"skip_grind"`
	Output           string   `mapstructure:"output"`
	ExtraArguments   []string `mapstructure:"extra_arguments"`
}

// DefaultCommandConfiguration provides baseline configuration values for keys-grind.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Directory:        ".",
		ShardCount:       256,
		Sentinel:         "K",
		Suffix:           "",
		Width:            3,
		Placeholder:      "o",
		Extension:        ".json",
		IncludeDirectory: "keys",
		ConstantName:     "KEYPAIRS",
		KeyLength:        64,
		Shortfall:        string(ShortfallWarn),
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	sanitized.Sentinel = strings.TrimSpace(configuration.Sentinel)
	sanitized.Suffix = strings.TrimSpace(configuration.Suffix)
	sanitized.Placeholder = strings.TrimSpace(configuration.Placeholder)
	sanitized.Extension = strings.TrimSpace(configuration.Extension)
	sanitized.IncludeDirectory = strings.TrimSpace(configuration.IncludeDirectory)
	sanitized.ConstantName = strings.TrimSpace(configuration.ConstantName)
	sanitized.Shortfall = strings.ToLower(strings.TrimSpace(configuration.Shortfall))
	sanitized.Output = strings.TrimSpace(configuration.Output)

	extraArguments := make([]string, 0, len(configuration.ExtraArguments))
	for _, argument := range configuration.ExtraArguments {
		if trimmed := strings.TrimSpace(argument); len(trimmed) > 0 {
			extraArguments = append(extraArguments, trimmed)
		}
	}
	sanitized.ExtraArguments = extraArguments

	return sanitized
}

// Encoding returns the prefix encoding described by the configuration.
func (configuration CommandConfiguration) Encoding() Encoding {
	return Encoding{
		Sentinel:    configuration.Sentinel,
		Suffix:      configuration.Suffix,
		Placeholder: configuration.Placeholder,
		Width:       configuration.Width,
	}
}

// DefaultConfigurationValues returns the viper defaults for keys-grind under the given key prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + ".directory":         defaults.Directory,
		prefix + ".shard_count":       defaults.ShardCount,
		prefix + ".sentinel":          defaults.Sentinel,
		prefix + ".suffix":            defaults.Suffix,
		prefix + ".width":             defaults.Width,
		prefix + ".placeholder":       defaults.Placeholder,
		prefix + ".extension":         defaults.Extension,
		prefix + ".include_directory": defaults.IncludeDirectory,
		prefix + ".constant_name":     defaults.ConstantName,
		prefix + ".key_length":        defaults.KeyLength,
		prefix + ".shortfall":         defaults.Shortfall,
		prefix + ".skip_grind":        defaults.SkipGrind,
		prefix + ".output":            defaults.Output,
		prefix + ".extra_arguments":   []string{},
	}
}
