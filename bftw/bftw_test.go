package bftw

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates a small synthetic directory tree under t.TempDir() and
// returns its root, grounded on the teacher's own pattern of exercising a
// filesystem crawler against a real tree instead of mocking the OS.
//
//	root/
//	  a/
//	    a1.txt
//	    a2.txt
//	  b/
//	    b1/
//	      deep.txt
//	  c.txt
func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b", "b1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "a1.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "a2.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b", "b1", "deep.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.txt"), []byte("x"), 0o644))
	return root
}

func collect(t *testing.T, args Args) []string {
	t.Helper()
	var got []string
	args.Callback = func(e *Entry) Action {
		require.NoError(t, e.Err)
		if e.Visit == EVisit.Pre() {
			got = append(got, e.Path)
		}
		return EAction.Continue()
	}
	if args.Threads == 0 {
		args.Threads = 2
	}
	if args.OpenFiles == 0 {
		args.OpenFiles = 8
	}
	require.NoError(t, Walk(args))
	sort.Strings(got)
	return got
}

func TestWalkBFSVisitsEveryEntry(t *testing.T) {
	root := buildTree(t)

	got := collect(t, Args{Paths: []string{root}, Strategy: BFS})

	want := []string{
		root,
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "a1.txt"),
		filepath.Join(root, "a", "a2.txt"),
		filepath.Join(root, "b"),
		filepath.Join(root, "b", "b1"),
		filepath.Join(root, "b", "b1", "deep.txt"),
		filepath.Join(root, "c.txt"),
	}
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestWalkBFSDepthNonDecreasing(t *testing.T) {
	root := buildTree(t)

	var depths []int
	err := Walk(Args{
		Paths:    []string{root},
		Strategy: BFS,
		Threads:  2,
		Callback: func(e *Entry) Action {
			depths = append(depths, e.Depth)
			return EAction.Continue()
		},
	})
	require.NoError(t, err)

	for i := 1; i < len(depths); i++ {
		assert.LessOrEqual(t, depths[i-1], depths[i], "BFS must deliver entries in non-decreasing depth order")
	}
}

func TestWalkDFSVisitsEveryEntry(t *testing.T) {
	root := buildTree(t)

	got := collect(t, Args{Paths: []string{root}, Strategy: DFS})

	assert.Len(t, got, 8)
	assert.Contains(t, got, filepath.Join(root, "b", "b1", "deep.txt"))
}

func TestWalkPruneSkipsDescendants(t *testing.T) {
	root := buildTree(t)

	var got []string
	err := Walk(Args{
		Paths:    []string{root},
		Strategy: BFS,
		Callback: func(e *Entry) Action {
			if e.Path == filepath.Join(root, "b") {
				return EAction.Prune()
			}
			got = append(got, e.Path)
			return EAction.Continue()
		},
	})
	require.NoError(t, err)

	assert.NotContains(t, got, filepath.Join(root, "b", "b1"))
	assert.NotContains(t, got, filepath.Join(root, "b", "b1", "deep.txt"))
}

func TestWalkStopEndsImmediately(t *testing.T) {
	root := buildTree(t)

	count := 0
	err := Walk(Args{
		Paths:    []string{root},
		Strategy: BFS,
		Callback: func(e *Entry) Action {
			count++
			return EAction.Stop()
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWalkPostOrderVisitsDirAfterChildren(t *testing.T) {
	root := buildTree(t)

	seen := make(map[string]bool)
	var order []string
	err := Walk(Args{
		Paths:    []string{root},
		Strategy: BFS,
		Flags:    POST_ORDER,
		Callback: func(e *Entry) Action {
			if e.Visit == EVisit.Post() {
				order = append(order, e.Path)
				seen[e.Path] = true
			} else if e.Type != EType.Dir() {
				seen[e.Path] = true
			}
			if e.Visit == EVisit.Post() && e.Path == filepath.Join(root, "a") {
				for _, child := range []string{"a1.txt", "a2.txt"} {
					p := filepath.Join(e.Path, child)
					assert.True(t, seen[p], "%s must be visited before its parent's POST event", p)
				}
			}
			return EAction.Continue()
		},
	})
	require.NoError(t, err)
	assert.Contains(t, order, filepath.Join(root, "a"))
	assert.Contains(t, order, filepath.Join(root, "b", "b1"))
	assert.Contains(t, order, root)

	// root must be the very last POST event, since every other directory
	// is its descendant.
	assert.Equal(t, root, order[len(order)-1])
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func TestWalkSortIsDeterministic(t *testing.T) {
	root := buildTree(t)

	got1 := collect(t, Args{Paths: []string{root}, Strategy: BFS, Flags: SORT})
	got2 := collect(t, Args{Paths: []string{root}, Strategy: BFS, Flags: SORT})
	assert.Equal(t, got1, got2)
}

func TestWalkDetectsCycle(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	loop := filepath.Join(sub, "loop")
	require.NoError(t, os.Symlink(root, loop))

	var loopErrs int
	var gotErr error
	err := Walk(Args{
		Paths:    []string{root},
		Strategy: BFS,
		Flags:    RECOVER.Add(DETECT_CYCLES).Add(FOLLOW_ALL),
		Callback: func(e *Entry) Action {
			if e.Err != nil && e.Path == loop {
				loopErrs++
				gotErr = e.Err
			}
			return EAction.Continue()
		},
	})
	require.NoError(t, err)
	require.NotNil(t, gotErr, "walking into %s must report an error", loop)
	assert.True(t, isELOOP(gotErr), "expected an ELOOP error, got %v", gotErr)
	assert.Equal(t, 1, loopErrs, "the cycle at %s must be reported exactly once", loop)
}

// TestWalkDFSOrderIsDepthFirst checks DFS property 6 directly against the
// raw visitation order Walk delivers, rather than through collect's sorted
// helper (which would hide any ordering bug).
func TestWalkDFSOrderIsDepthFirst(t *testing.T) {
	root := buildTree(t)

	var order []string
	err := Walk(Args{
		Paths:    []string{root},
		Strategy: DFS,
		Threads:  0,
		Callback: func(e *Entry) Action {
			order = append(order, e.Path)
			return EAction.Continue()
		},
	})
	require.NoError(t, err)
	require.Len(t, order, 8)

	// Under DFS, every descendant of a directory must appear contiguously
	// in the visitation order, immediately after the directory itself and
	// before any sibling subtree starts.
	for _, dir := range []string{filepath.Join(root, "a"), filepath.Join(root, "b"), filepath.Join(root, "b", "b1")} {
		dirIdx := -1
		for i, p := range order {
			if p == dir {
				dirIdx = i
				break
			}
		}
		require.GreaterOrEqual(t, dirIdx, 0, "%s must be visited", dir)

		run := dirIdx + 1
		for run < len(order) && strings.HasPrefix(order[run], dir+string(filepath.Separator)) {
			run++
		}
		for i := run; i < len(order); i++ {
			assert.False(t, strings.HasPrefix(order[i], dir+string(filepath.Separator)),
				"descendant %s of %s appears after a non-descendant broke the contiguous run", order[i], dir)
		}
	}
}
