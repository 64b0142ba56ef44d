package bftw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPath(t *testing.T) {
	root := newRootFile("/tmp/root")
	a := newChildFile(root, "a", EType.Dir())
	b := newChildFile(a, "b.txt", EType.Reg())

	p, err := buildPath(b)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/root/a/b.txt", p)
}

func TestPathBuilderReusesSharedAncestor(t *testing.T) {
	root := newRootFile("root")
	a := newChildFile(root, "a", EType.Dir())
	b1 := newChildFile(a, "b1", EType.Reg())
	b2 := newChildFile(a, "b2", EType.Reg())

	var pb pathBuilder
	first := pb.build(b1)
	assert.Equal(t, "root/a/b1", first)

	second := pb.build(b2)
	assert.Equal(t, "root/a/b2", second)
}

func TestPathFromAncestor(t *testing.T) {
	root := newRootFile("root")
	a := newChildFile(root, "a", EType.Dir())
	b := newChildFile(a, "b", EType.Dir())
	c := newChildFile(b, "c.txt", EType.Reg())

	rel, err := pathFrom(a, c)
	require.NoError(t, err)
	assert.Equal(t, "b/c.txt", rel)
}
