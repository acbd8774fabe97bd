package cli

import (
	_ "embed"

	branchsync "github.com/temirov/relkit/internal/branches/sync"
	"github.com/temirov/relkit/internal/keys"
	"github.com/temirov/relkit/internal/utils"
)

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a copy of the embedded default configuration and its type.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	duplicatedContent := make([]byte, len(embeddedDefaultConfigurationContent))
	copy(duplicatedContent, embeddedDefaultConfigurationContent)
	return duplicatedContent, configurationTypeConstant
}

// defaultConfigurationValues seeds every known configuration key so that
// environment overrides resolve even when no file mentions the key.
func defaultConfigurationValues() map[string]any {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for _, toolDefaults := range []map[string]any{
		branchsync.DefaultConfigurationValues(branchSyncConfigurationKeyConstant),
		keys.DefaultConfigurationValues(keyGrindConfigurationKeyConstant),
	} {
		for configurationKey, configurationValue := range toolDefaults {
			defaultValues[configurationKey] = configurationValue
		}
	}
	return defaultValues
}
