// Package bftw implements a breadth-first (and depth-first, and
// depth-bounded) file tree walker with a bounded file-descriptor budget,
// asynchronous directory I/O, and cycle/mount-point detection.
//
// It has no concept of predicates, actions, or output formatting: Walk
// takes a callback and delivers one Entry per file discovered, in an
// order determined by the chosen Strategy. Everything else is left to the
// caller.
package bftw

import (
	"fmt"
	"os"

	"github.com/intelfx/bfs/internal/logx"
)

// Entry is the information delivered to a Callback for one file (spec.md
// §6.2). Error is non-nil when some syscall needed to produce this entry
// failed; Type is then Error and the other fields are filled in on a
// best-effort basis.
type Entry struct {
	// Path is this entry's full path, relative to however its walk root
	// was named.
	Path string
	// Root is the walk root this entry descends from (one of the paths
	// passed to Walk).
	Root string
	// Depth is the number of directory components below Root; Root
	// itself is depth 0.
	Depth int
	// NameOff is the byte offset of this entry's own name within Path,
	// i.e. Path[NameOff:] is the name and Path[:NameOff] is its parent's
	// path plus a trailing separator (or NameOff == 0 at a walk root).
	NameOff int
	// Visit is Pre or Post; Post only occurs when Flags has POST_ORDER
	// set, and only for directories.
	Visit Visit
	// Type is this entry's file type, or Error if Err is non-nil.
	Type Type
	// Err is set when some syscall needed to produce this entry failed.
	Err error

	// AtFD is an open directory descriptor (or AT_FDCWD) that AtPath is
	// relative to: the nearest ancestor directory still held open by the
	// cache, so that openat(AtFD, AtPath, ...) reaches this entry without
	// racing a rename of anything above AtFD. In the common case AtFD is
	// this entry's immediate parent and AtPath is just its own name (no
	// longer than NAME_MAX); only once that parent's fd has been evicted
	// does AtPath grow to a multi-component path back to whichever
	// ancestor is still open.
	AtFD int
	// AtPath is this entry's path relative to AtFD. See AtFD.
	AtPath string
}

// StatInfo is the subset of stat(2) information this package materializes
// for a file while walking: enough to identify it (Dev, Ino) and classify
// it (Mode), without pulling in a full os.FileInfo-shaped struct the
// engine itself never needs.
type StatInfo struct {
	Dev, Ino uint64
	Mode     uint32
}

// LStat stats the entry itself, never following a trailing symlink. It
// uses the entry's AtFD/AtPath pair, so it costs exactly one syscall and
// cannot race a rename of anything above the entry's immediate open
// ancestor.
func (e *Entry) LStat() (StatInfo, error) {
	return e.statWith(statNoFollow)
}

// Stat stats the entry, following a trailing symlink if it is one. See
// LStat.
func (e *Entry) Stat() (StatInfo, error) {
	return e.statWith(statFollow)
}

func (e *Entry) statWith(flag statFlag) (StatInfo, error) {
	st, err := statAt(e.AtFD, e.AtPath, flag)
	if err != nil {
		return StatInfo{}, wrapErr("stat", e.Path, err)
	}
	return StatInfo{Dev: st.dev, Ino: st.ino, Mode: st.mode}, nil
}

// Open opens the entry itself for reading, using its AtFD/AtPath pair with
// O_NOFOLLOW so the open can't be tricked into following a symlink swapped
// in after the walk observed this entry's type.
func (e *Entry) Open() (*os.File, error) {
	fd, err := openatFile(e.AtFD, e.AtPath, false)
	if err != nil {
		return nil, wrapErr("open", e.Path, err)
	}
	return os.NewFile(uintptr(fd), e.Path), nil
}

// Callback is invoked once per Entry. Its return value steers the walk:
// Continue proceeds normally, Prune skips this entry's descendants (or,
// for a non-directory, is equivalent to Continue), and Stop ends the walk
// immediately.
type Callback func(*Entry) Action

// Args configures a single Walk call.
type Args struct {
	// Paths are the walk roots, visited in order.
	Paths []string
	// Callback is invoked for every discovered entry.
	Callback Callback
	// Flags are the behavior flags described in bftw/enums.go.
	Flags Flags
	// Strategy selects BFS, DFS, IDS, or EDS. The zero value is BFS.
	Strategy Strategy
	// Threads is the number of worker goroutines servicing asynchronous
	// directory/stat operations. 0 disables the async I/O pool entirely
	// (every directory open and stat is serviced synchronously on the
	// driver goroutine); negative values are treated as 0.
	Threads int
	// OpenFiles caps the number of simultaneously open file descriptors
	// this walk may hold (spec.md §4.1). Values below 1 are treated as 1.
	OpenFiles int
	// Logger receives diagnostic log lines; nil discards them.
	Logger logx.Logger
}

// Walk traverses every root in args.Paths according to args.Strategy,
// invoking args.Callback once per discovered entry (twice, for
// directories, when POST_ORDER is set). It returns the first fatal error
// encountered outside of per-entry errors (which are instead delivered
// through Entry.Err when RECOVER is set, or otherwise abort the walk with
// that same error returned here).
func Walk(args Args) error {
	if args.Callback == nil {
		return fmt.Errorf("bftw: Callback is required")
	}
	if len(args.Paths) == 0 {
		return nil
	}

	switch args.Strategy {
	case BFS, DFS:
		return walkOnce(args)
	case IDS:
		return walkIDS(args)
	case EDS:
		return walkEDS(args)
	default:
		return fmt.Errorf("bftw: unknown strategy %v", args.Strategy)
	}
}
