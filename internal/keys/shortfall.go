package keys

import (
	"fmt"
	"strings"
)

// ShortfallPolicy decides what happens when fewer key files than shards exist.
type ShortfallPolicy string

// Supported shortfall policies.
const (
	ShortfallError  ShortfallPolicy = "error"
	ShortfallWarn   ShortfallPolicy = "warn"
	ShortfallIgnore ShortfallPolicy = "ignore"
)

const (
	shortfallPolicyInvalidTemplateConstant = "unsupported shortfall policy %q"
	shardShortfallTemplateConstant         = "found %d key files for %d shards (missing %s)"
	missingIndexSeparatorConstant          = ", "
	missingIndexDisplayLimitConstant       = 16
	missingIndexOverflowTemplateConstant   = "%s and %d more"
)

// SupportedShortfallPolicies lists the accepted policy names.
func SupportedShortfallPolicies() []string {
	return []string{string(ShortfallError), string(ShortfallWarn), string(ShortfallIgnore)}
}

// ParseShortfallPolicy normalizes a policy name.
func ParseShortfallPolicy(raw string) (ShortfallPolicy, error) {
	normalized := ShortfallPolicy(strings.ToLower(strings.TrimSpace(raw)))
	switch normalized {
	case ShortfallError, ShortfallWarn, ShortfallIgnore:
		return normalized, nil
	case "":
		return ShortfallWarn, nil
	default:
		return "", fmt.Errorf(shortfallPolicyInvalidTemplateConstant, raw)
	}
}

// ShardShortfallError reports shards without a key file.
type ShardShortfallError struct {
	ShardCount     int
	FoundCount     int
	MissingIndices []int
}

// Error summarizes the missing shards.
func (shortfallError ShardShortfallError) Error() string {
	return fmt.Sprintf(shardShortfallTemplateConstant, shortfallError.FoundCount, shortfallError.ShardCount, formatMissingIndices(shortfallError.MissingIndices))
}

// missingShards returns the indices below shardCount that no key file covers.
func missingShards(files []KeyFile, shardCount int) []int {
	covered := make(map[int]struct{}, len(files))
	for _, file := range files {
		covered[file.Index] = struct{}{}
	}
	missing := make([]int, 0)
	for shardIndex := 0; shardIndex < shardCount; shardIndex++ {
		if _, found := covered[shardIndex]; !found {
			missing = append(missing, shardIndex)
		}
	}
	return missing
}

func formatMissingIndices(indices []int) string {
	displayed := indices
	if len(displayed) > missingIndexDisplayLimitConstant {
		displayed = displayed[:missingIndexDisplayLimitConstant]
	}
	parts := make([]string, 0, len(displayed))
	for _, index := range displayed {
		parts = append(parts, fmt.Sprint(index))
	}
	joined := strings.Join(parts, missingIndexSeparatorConstant)
	if hidden := len(indices) - len(displayed); hidden > 0 {
		return fmt.Sprintf(missingIndexOverflowTemplateConstant, joined, hidden)
	}
	return joined
}
