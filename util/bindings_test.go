package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBindings(t *testing.T) {
	l := NewBindings()
	l.Add("a", "1")
	require.False(t, l.Set("b", "2"))
	require.True(t, l.Set("a", "3"))

	v, ok := l.Get("a")
	require.True(t, ok)
	require.Equal(t, "3", v)
	require.True(t, l.Has("b", "2"))
	require.False(t, l.Has("b", "1"))

	other := NewBindings()
	other.Add("b", "x")
	other.Add("c", "y")

	merged := l.Merge(other)
	require.Equal(t, []Binding{{"a", "3"}, {"b", "x"}, {"c", "y"}}, merged.All())
	require.Equal(t, 3, merged.Len())
}
