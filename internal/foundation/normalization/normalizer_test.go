package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testLocation string

const (
	locBuild testLocation = "build"
	locRoot  testLocation = "root"
)

func newLocationNormalizer() *Normalizer[testLocation] {
	return NewNormalizer(map[string]testLocation{
		"build": locBuild,
		"root":  locRoot,
	}, locBuild)
}

func TestNormalize_KnownValue_ReturnsEnum(t *testing.T) {
	n := newLocationNormalizer()

	require.Equal(t, locRoot, n.Normalize("root"))
	require.Equal(t, locRoot, n.Normalize("  ROOT "))
}

func TestNormalize_UnknownValue_ReturnsDefault(t *testing.T) {
	n := newLocationNormalizer()

	require.Equal(t, locBuild, n.Normalize("attic"))
	require.Equal(t, locBuild, n.Normalize(""))
}

func TestNormalizeWithError_UnknownValue_ReportsValidKeys(t *testing.T) {
	n := newLocationNormalizer()

	_, err := n.NormalizeWithError("attic")
	require.Error(t, err)
	require.Contains(t, err.Error(), "build")
	require.Contains(t, err.Error(), "root")
}

func TestValidKeys_Sorted(t *testing.T) {
	n := newLocationNormalizer()

	require.Equal(t, []string{"build", "root"}, n.ValidKeys())
}
