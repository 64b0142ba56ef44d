package bftw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathTrie(t *testing.T) {
	trie := newPathTrie()
	assert.False(t, trie.contains("/a/b"))

	trie.insert("/a/b")
	assert.True(t, trie.contains("/a/b"))
	assert.False(t, trie.contains("/a/c"))
}
