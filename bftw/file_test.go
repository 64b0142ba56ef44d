package bftw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileRefcounting(t *testing.T) {
	root := newRootFile("root")
	child := newChildFile(root, "child", EType.Reg())

	// newChildFile gives root one extra reference on behalf of child, in
	// addition to root's own starting reference.
	assert.False(t, root.unref()) // release child's reference on root
	assert.True(t, root.unref())  // release root's own reference -> garbage

	assert.True(t, child.unref()) // child's own single reference -> garbage
}

func TestFileIsDir(t *testing.T) {
	root := newRootFile("root")
	dir := newChildFile(root, "d", EType.Dir())
	reg := newChildFile(root, "f", EType.Reg())

	assert.True(t, dir.isDir())
	assert.False(t, reg.isDir())
}

func TestFileRootAncestor(t *testing.T) {
	root := newRootFile("root")
	a := newChildFile(root, "a", EType.Dir())
	b := newChildFile(a, "b", EType.Reg())

	assert.Same(t, root, b.rootAncestor())
}
