package foundation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOption_Some_IsPresent(t *testing.T) {
	o := Some("markdown")

	require.True(t, o.IsSome())
	require.False(t, o.IsNone())
	require.Equal(t, "markdown", o.Unwrap())
}

func TestOption_None_IsAbsent(t *testing.T) {
	o := None[string]()

	require.True(t, o.IsNone())
	require.Equal(t, "fallback", o.UnwrapOr("fallback"))
}

func TestOption_Unwrap_PanicsOnNone(t *testing.T) {
	require.Panics(t, func() { None[int]().Unwrap() })
}

func TestOption_Get_ReturnsOkFlag(t *testing.T) {
	v, ok := Some(42).Get()
	require.True(t, ok)
	require.Equal(t, 42, v)

	_, ok = None[int]().Get()
	require.False(t, ok)
}

func TestOption_String_RendersBothShapes(t *testing.T) {
	require.Equal(t, "Some(root)", Some("root").String())
	require.Equal(t, "None", None[string]().String())
}
