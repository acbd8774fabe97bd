package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderTemplate = "<%s>"
	choiceSeparatorLiteral    = "|"
	choiceUsageEmptyTemplate  = "`%s`"
	choiceUsageFullTemplate   = "`%s` %s"
	choiceInvalidTemplate     = "invalid --%s value %q (expected one of: %s)"
	choiceListSeparator       = ", "
)

// InvalidChoiceError reports a flag value outside the accepted set.
type InvalidChoiceError struct {
	FlagName string
	Value    string
	Choices  []string
}

func (invalidChoiceError InvalidChoiceError) Error() string {
	return fmt.Sprintf(choiceInvalidTemplate, invalidChoiceError.FlagName, invalidChoiceError.Value, strings.Join(invalidChoiceError.Choices, choiceListSeparator))
}

// ValidateChoice normalizes value to lower case and returns an
// InvalidChoiceError unless it is one of choices.
func ValidateChoice(flagName string, value string, choices []string) (string, error) {
	normalizedValue := normalizeChoice(value)
	for _, choice := range choices {
		if normalizeChoice(choice) == normalizedValue {
			return normalizedValue, nil
		}
	}
	return "", InvalidChoiceError{FlagName: flagName, Value: value, Choices: choices}
}

// FormatChoiceUsage renders choices as a placeholder such as `<error|WARN|ignore>`
// with the default upper-cased, followed by the description.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := normalizeChoice(defaultChoice)
	displayed := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		normalizedChoice := normalizeChoice(choice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, duplicate := seen[normalizedChoice]; duplicate {
			continue
		}
		seen[normalizedChoice] = struct{}{}

		displayValue := strings.TrimSpace(choice)
		if normalizedChoice == normalizedDefault {
			displayValue = strings.ToUpper(displayValue)
		}
		displayed = append(displayed, displayValue)
	}

	placeholder := fmt.Sprintf(choicePlaceholderTemplate, strings.Join(displayed, choiceSeparatorLiteral))
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

func normalizeChoice(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
