package bftw

import "sync/atomic"

// file is one entry discovered during a walk: a directory, a leaf, or a
// walk root. Files form a tree via parent pointers; the tree is exactly
// the subset of the real directory tree that still has live references,
// which is what lets the path builder (bftw/path.go) and the garbage
// collector (release, in bftw/strategy.go) reconstruct paths and free memory
// without keeping the whole walk in memory at once.
//
// This mirrors struct bftw_file in the original implementation, with the
// intrusive cache/LRU linkage split out into cacheEntry (bftw/cache.go).
type file struct {
	parent *file

	// name is this file's name within its parent directory, or the root
	// path as originally passed to Walk if parent == nil.
	name string

	// nameoff is the offset of name within the full, reconstructed path.
	nameoff int

	// depth is the number of directory components between this file and
	// its walk root, inclusive of the root itself being depth 0.
	depth int

	// typ is the best type information known for this file: typeUnknown
	// until materializeStat fills it in from a stat call (children are
	// listed with readdirnames, which reports no d_type).
	typ Type

	// refcount is the number of outstanding references: one for each
	// child file still alive, plus one while this file itself is
	// in-flight through the visit pipeline. When it reaches zero the
	// file is garbage and its post-order callback (if requested) fires.
	refcount int32

	// cache links this file into the open-directory LRU when it has an
	// open directory handle; nil otherwise. See bftw/cache.go.
	cache *cacheEntry

	// dev and ino identify this file once it has been statted; DETECT_CYCLES
	// compares them against the ancestors' (spec.md §8 property 7). root
	// marks a walk root.
	dev  uint64
	ino  uint64
	root bool
}

func newRootFile(path string) *file {
	return &file{name: path, nameoff: 0, depth: 0, root: true, refcount: 1}
}

func newChildFile(parent *file, name string, typ Type) *file {
	nameoff := parent.pathLen()
	if n := len(parent.name); n == 0 || parent.name[n-1] != '/' {
		nameoff++ // joinSegments adds a separator only in this case
	}
	child := &file{
		parent:   parent,
		name:     name,
		depth:    parent.depth + 1,
		typ:      typ,
		nameoff:  nameoff,
		refcount: 1,
	}
	parent.ref()
	return child
}

// pathLen is the length of f's own reconstructed path: the offset of its
// name plus the name's length. Used to compute a child's nameoff without
// rebuilding the full path string, mirroring the name-offset arithmetic in
// the original implementation's bftw_file_open.
func (f *file) pathLen() int {
	return f.nameoff + len(f.name)
}

// ref increments f's refcount. Safe to call concurrently; the walk only
// ever touches a given file's refcount from the goroutine(s) that also
// touch its parent, but async I/O completions race with the main driver
// loop, so this is atomic rather than driver-loop-only.
func (f *file) ref() {
	atomic.AddInt32(&f.refcount, 1)
}

// unref decrements f's refcount and reports whether it reached zero, i.e.
// whether f is now garbage and should be reclaimed by the GC pass
// (release, in bftw/strategy.go).
func (f *file) unref() bool {
	return atomic.AddInt32(&f.refcount, -1) == 0
}

// isDir reports whether f's type is known to be a directory. Unknown type
// is treated as "maybe a directory" by callers that need to decide whether
// to attempt to open it.
func (f *file) isDir() bool {
	return f.typ == EType.Dir()
}

// root ancestor walks up the parent chain to find the file representing
// the walk root that f descends from.
func (f *file) rootAncestor() *file {
	cur := f
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}
