package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/relkit/internal/utils/path"
)

func TestResolverExpandHome(t *testing.T) {
	resolver := pathutils.NewResolverWithProvider(func() (string, error) { return "/home/builder", nil })

	require.Equal(t, "/home/builder", resolver.ExpandHome("~"))
	require.Equal(t, filepath.Join("/home/builder", "src", "programs"), resolver.ExpandHome("~/src/programs"))
	require.Equal(t, "~other/src", resolver.ExpandHome("~other/src"))
	require.Equal(t, "relative/keys", resolver.ExpandHome("relative/keys"))
}

func TestResolverResolve(t *testing.T) {
	resolver := pathutils.NewResolverWithProvider(func() (string, error) { return "/home/builder", nil })

	testCases := []struct {
		name          string
		baseDirectory string
		candidatePath string
		expectedPath  string
	}{
		{name: "empty_uses_base", baseDirectory: "/workspace/repo", candidatePath: " ", expectedPath: "/workspace/repo"},
		{name: "relative_joined", baseDirectory: "/workspace/repo", candidatePath: "keys", expectedPath: "/workspace/repo/keys"},
		{name: "absolute_kept", baseDirectory: "/workspace/repo", candidatePath: "/tmp/keys/", expectedPath: "/tmp/keys"},
		{name: "home_expanded", baseDirectory: "/workspace/repo", candidatePath: "~/keys", expectedPath: "/home/builder/keys"},
		{name: "no_base", baseDirectory: "", candidatePath: "./keys", expectedPath: "keys"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, filepath.FromSlash(testCase.expectedPath), resolver.Resolve(testCase.baseDirectory, testCase.candidatePath))
		})
	}
}

func TestResolverIgnoresHomeLookupFailure(t *testing.T) {
	resolver := pathutils.NewResolverWithProvider(func() (string, error) { return "", errors.New("no home") })

	require.Equal(t, "~/keys", resolver.ExpandHome("~/keys"))
}
