package keys

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	keysPerPrefixSuffixConstant       = ":1"
	decimalZeroConstant               = "0"
	sentinelRequiredMessageConstant   = "sentinel must not be empty"
	placeholderLengthMessageConstant  = "placeholder must be a single character"
	placeholderDigitMessageConstant   = "placeholder must not be a decimal digit"
	placeholderInSentinelMessage      = "sentinel must not contain the placeholder"
	widthTooSmallTemplateConstant     = "width %d cannot encode shard index %d"
	shardCountInvalidTemplateConstant = "shard count must be positive, got %d"
	indexOutOfRangeTemplateConstant   = "shard index %d is outside 0..%d"
	negativeIndexTemplateConstant     = "shard index %d is negative"
	invalidEncodingTemplateConstant   = "invalid key encoding: %s"
)

// EncodingError reports an encoding configuration that cannot produce injective prefixes.
type EncodingError struct {
	Message string
}

// Error describes the configuration problem.
func (encodingError EncodingError) Error() string {
	return fmt.Sprintf(invalidEncodingTemplateConstant, encodingError.Message)
}

// Encoding maps shard indices to public key prefixes and back.
//
// The decimal index has every zero replaced by Placeholder (zero is not a
// base58 digit) and is left-padded with Placeholder to Width characters,
// then wrapped in Sentinel and Suffix.
type Encoding struct {
	Sentinel    string
	Suffix      string
	Placeholder string
	Width       int
}

// Validate reports whether the encoding can represent every index below shardCount.
func (encoding Encoding) Validate(shardCount int) error {
	if shardCount <= 0 {
		return EncodingError{Message: fmt.Sprintf(shardCountInvalidTemplateConstant, shardCount)}
	}
	if len(encoding.Sentinel) == 0 {
		return EncodingError{Message: sentinelRequiredMessageConstant}
	}
	if utf8.RuneCountInString(encoding.Placeholder) != 1 {
		return EncodingError{Message: placeholderLengthMessageConstant}
	}
	if strings.ContainsAny(encoding.Placeholder, "0123456789") {
		return EncodingError{Message: placeholderDigitMessageConstant}
	}
	if strings.Contains(encoding.Sentinel, encoding.Placeholder) {
		return EncodingError{Message: placeholderInSentinelMessage}
	}
	highestIndex := shardCount - 1
	if len(strconv.Itoa(highestIndex)) > encoding.Width {
		return EncodingError{Message: fmt.Sprintf(widthTooSmallTemplateConstant, encoding.Width, highestIndex)}
	}
	return nil
}

// Encode returns the prefix for the shard index.
func (encoding Encoding) Encode(index int) (string, error) {
	if index < 0 {
		return "", EncodingError{Message: fmt.Sprintf(negativeIndexTemplateConstant, index)}
	}
	digits := strings.ReplaceAll(strconv.Itoa(index), decimalZeroConstant, encoding.Placeholder)
	if padding := encoding.Width - utf8.RuneCountInString(digits); padding > 0 {
		digits = strings.Repeat(encoding.Placeholder, padding) + digits
	}
	return encoding.Sentinel + digits + encoding.Suffix, nil
}

// DecodeFileName extracts the shard index from the fixed character range that
// follows the sentinel. The second return value is false when the name does not
// carry a well-formed index.
func (encoding Encoding) DecodeFileName(fileName string) (int, bool) {
	if !strings.HasPrefix(fileName, encoding.Sentinel) || encoding.Width <= 0 {
		return 0, false
	}
	remainder := []rune(strings.TrimPrefix(fileName, encoding.Sentinel))
	if len(remainder) < encoding.Width {
		return 0, false
	}

	digits := strings.ReplaceAll(string(remainder[:encoding.Width]), encoding.Placeholder, decimalZeroConstant)
	for _, digit := range digits {
		if digit < '0' || digit > '9' {
			return 0, false
		}
	}
	index, parseError := strconv.Atoi(digits)
	if parseError != nil {
		return 0, false
	}
	return index, true
}

// PrefixPattern renders the solana-keygen --starts-with value for the shard.
// The count is always one: the listing holds a single key file per shard.
func (encoding Encoding) PrefixPattern(index int) (string, error) {
	prefix, encodeError := encoding.Encode(index)
	if encodeError != nil {
		return "", encodeError
	}
	return prefix + keysPerPrefixSuffixConstant, nil
}

func checkIndexRange(index int, shardCount int) error {
	if index < 0 || index >= shardCount {
		return fmt.Errorf(indexOutOfRangeTemplateConstant, index, shardCount-1)
	}
	return nil
}
