package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd_NewValue_ReportsAdded(t *testing.T) {
	s := New[string]()

	require.True(t, s.Add("lib/Foo.pm"))
	require.False(t, s.Add("lib/Foo.pm"))
	require.Equal(t, 1, s.Len())
}

func TestHas_AfterDelete_ReturnsFalse(t *testing.T) {
	s := New("a", "b")
	s.Delete("a")

	require.False(t, s.Has("a"))
	require.True(t, s.Has("b"))
}

func TestStrings_ReturnsSortedMembers(t *testing.T) {
	s := New("c", "a", "b")

	require.Equal(t, []string{"a", "b", "c"}, Strings(s))
}
