package bftw

// pathTrie is the set of paths pruned during one iterative/exponential
// deepening round, consulted on the next round so a directory the
// callback already asked to prune doesn't get re-descended just because
// the depth bound widened (spec.md §4.7, "pruned-path trie"). The
// original implementation uses a real trie keyed by path bytes; a Go map
// gives the same semantics with less code; and since depth-bounded
// drivers amortize full traversals rather than touching one at a time,
// the constant-factor difference doesn't matter here (see DESIGN.md).
type pathTrie struct {
	paths map[string]struct{}
}

func newPathTrie() *pathTrie {
	return &pathTrie{paths: make(map[string]struct{})}
}

func (t *pathTrie) insert(path string) {
	t.paths[path] = struct{}{}
}

func (t *pathTrie) contains(path string) bool {
	_, ok := t.paths[path]
	return ok
}
