package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestAddToggleFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name            string
		defaultValue    bool
		arguments       []string
		expectedValue   bool
		expectedChanged bool
	}{
		{name: "DefaultFalse", arguments: []string{}, expectedValue: false, expectedChanged: false},
		{name: "DefaultTrue", defaultValue: true, arguments: []string{}, expectedValue: true, expectedChanged: false},
		{name: "ImplicitTrue", arguments: []string{"--toggle"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitYes", arguments: []string{"--toggle", "yes"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitTrueUppercase", arguments: []string{"--toggle", "TRUE"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitNo", defaultValue: true, arguments: []string{"--toggle", "no"}, expectedValue: false, expectedChanged: true},
		{name: "AssignedOff", defaultValue: true, arguments: []string{"--toggle=off"}, expectedValue: false, expectedChanged: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}

			var toggleValue bool
			AddToggleFlag(command.Flags(), &toggleValue, "toggle", testCase.defaultValue, "Toggle flag")

			parseError := command.ParseFlags(NormalizeToggleArguments(testCase.arguments))
			require.NoError(t, parseError)
			require.Equal(t, testCase.expectedValue, toggleValue)

			flag := command.Flags().Lookup("toggle")
			require.NotNil(t, flag)
			require.Equal(t, testCase.expectedChanged, flag.Changed)
		})
	}
}

func TestAddToggleFlagRejectsInvalidValues(t *testing.T) {
	command := &cobra.Command{}

	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "toggle", false, "Toggle flag")

	parseError := command.ParseFlags([]string{"--toggle=maybe"})
	require.Error(t, parseError)
	require.False(t, toggleValue)
}

func TestNormalizeToggleArgumentsLeavesPositionalArgumentsAlone(t *testing.T) {
	var toggleValue bool
	AddToggleFlag((&cobra.Command{}).Flags(), &toggleValue, "toggle", false, "Toggle flag")

	require.Equal(t, []string{"--toggle", "1.14"}, NormalizeToggleArguments([]string{"--toggle", "1.14"}))
	require.Equal(t, []string{"--toggle=no", "--", "--toggle", "yes"}, NormalizeToggleArguments([]string{"--toggle", "no", "--", "--toggle", "yes"}))
	require.Equal(t, []string{"--other", "yes"}, NormalizeToggleArguments([]string{"--other", "yes"}))
}

func TestFormatToggleUsageHighlightsDefault(t *testing.T) {
	require.Equal(t, "`<YES|no>` Require a clean worktree", formatToggleUsage("Require a clean worktree", true))
	require.Equal(t, "`<yes|NO>`", formatToggleUsage("  ", false))
}
