package keys_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/relkit/internal/keys"
)

func defaultEncoding() keys.Encoding {
	return keys.Encoding{Sentinel: "K", Placeholder: "o", Width: 3}
}

func TestEncodeMatchesPrefixLayout(testInstance *testing.T) {
	testCases := []struct {
		index    int
		expected string
	}{
		{index: 0, expected: "Kooo"},
		{index: 7, expected: "Koo7"},
		{index: 10, expected: "Ko1o"},
		{index: 100, expected: "K1oo"},
		{index: 205, expected: "K2o5"},
		{index: 255, expected: "K255"},
	}

	for _, testCase := range testCases {
		encoded, encodeError := defaultEncoding().Encode(testCase.index)
		require.NoError(testInstance, encodeError)
		require.Equal(testInstance, testCase.expected, encoded)
	}
}

func TestEncodingRoundTripsAndIsInjective(testInstance *testing.T) {
	encoding := defaultEncoding()
	require.NoError(testInstance, encoding.Validate(256))

	seen := make(map[string]int, 256)
	for index := 0; index < 256; index++ {
		encoded, encodeError := encoding.Encode(index)
		require.NoError(testInstance, encodeError)
		require.NotContains(testInstance, encoded, "0")

		previous, duplicate := seen[encoded]
		require.False(testInstance, duplicate, "indices %d and %d share prefix %s", previous, index, encoded)
		seen[encoded] = index

		decoded, ok := encoding.DecodeFileName(encoded + "Xr9abc.json")
		require.True(testInstance, ok)
		require.Equal(testInstance, index, decoded)
	}
}

func TestPrefixPatternRequestsOneKey(testInstance *testing.T) {
	pattern, patternError := defaultEncoding().PrefixPattern(12)
	require.NoError(testInstance, patternError)
	require.Equal(testInstance, "Ko12:1", pattern)

	suffixed := keys.Encoding{Sentinel: "K", Suffix: "ey", Placeholder: "o", Width: 3}
	suffixedPattern, suffixedError := suffixed.PrefixPattern(3)
	require.NoError(testInstance, suffixedError)
	require.Equal(testInstance, "Koo3ey:1", suffixedPattern)
}

func TestDecodeFileNameRejectsMalformedNames(testInstance *testing.T) {
	for _, fileName := range []string{"Xooo.json", "K1.json", "Kab1.json", "keypair.json", "K"} {
		_, ok := defaultEncoding().DecodeFileName(fileName)
		require.False(testInstance, ok, fileName)
	}
}

func TestValidateRejectsUnusableEncodings(testInstance *testing.T) {
	testCases := []struct {
		name       string
		encoding   keys.Encoding
		shardCount int
	}{
		{name: "width_too_small", encoding: keys.Encoding{Sentinel: "K", Placeholder: "o", Width: 2}, shardCount: 256},
		{name: "zero_shards", encoding: defaultEncoding(), shardCount: 0},
		{name: "missing_sentinel", encoding: keys.Encoding{Placeholder: "o", Width: 3}, shardCount: 4},
		{name: "digit_placeholder", encoding: keys.Encoding{Sentinel: "K", Placeholder: "0", Width: 3}, shardCount: 4},
		{name: "long_placeholder", encoding: keys.Encoding{Sentinel: "K", Placeholder: "oo", Width: 3}, shardCount: 4},
		{name: "placeholder_in_sentinel", encoding: keys.Encoding{Sentinel: "Ko", Placeholder: "o", Width: 3}, shardCount: 4},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var encodingError keys.EncodingError
			require.ErrorAs(testInstance, testCase.encoding.Validate(testCase.shardCount), &encodingError)
		})
	}

	require.NoError(testInstance, keys.Encoding{Sentinel: "K", Placeholder: "o", Width: 4}.Validate(1000))
}

func TestBuildGrindArguments(testInstance *testing.T) {
	arguments, argumentsError := keys.BuildGrindArguments(defaultEncoding(), 3, []string{" --num-threads ", "4", ""})
	require.NoError(testInstance, argumentsError)
	require.Equal(testInstance, []string{
		"grind",
		"--starts-with", "Kooo:1",
		"--starts-with", "Koo1:1",
		"--starts-with", "Koo2:1",
		"--num-threads", "4",
	}, arguments)

	fullArguments, fullError := keys.BuildGrindArguments(defaultEncoding(), 256, nil)
	require.NoError(testInstance, fullError)
	require.Len(testInstance, fullArguments, 1+2*256)
	require.Equal(testInstance, "K255:1", fullArguments[len(fullArguments)-1])

	_, shardError := keys.BuildGrindArguments(defaultEncoding(), 0, nil)
	require.Error(testInstance, shardError)
}
