package bftw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	assert.Equal(t, "DIR", EType.Dir().String())
	assert.Equal(t, "REG", EType.Reg().String())
	assert.Equal(t, "ERROR", EType.Error().String())
}

func TestFlagsContains(t *testing.T) {
	flags := STAT.Add(SORT)
	assert.True(t, flags.Contains(STAT))
	assert.True(t, flags.Contains(SORT))
	assert.False(t, flags.Contains(POST_ORDER))
	assert.True(t, flags.ContainsAny(POST_ORDER|SORT))

	flags = flags.Remove(STAT)
	assert.False(t, flags.Contains(STAT))
	assert.True(t, flags.Contains(SORT))
}

func TestStrategyString(t *testing.T) {
	require.Equal(t, "BFS", BFS.String())
	require.Equal(t, "DFS", DFS.String())
	require.Equal(t, "IDS", IDS.String())
	require.Equal(t, "EDS", EDS.String())
}
