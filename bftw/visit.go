package bftw

import (
	"sort"

	"github.com/intelfx/bfs/internal/logx"
)

// dirReadChunk is how many names each Readdirnames call requests from a
// directory stream. readdirnames keeps calling until EOF, so a directory
// is still listed in full before the walk moves on. Mirrors the chunked
// readdir() loop in common/parallel/FileSystemCrawler.go
// (enumerateOneFileSystemDirectory), adapted here to read names via
// os.File.Readdirnames since this engine manages raw fds itself rather
// than going through os.ReadDir.
const dirReadChunk = 4096

// openDir materializes f's directory fd, consulting and updating the
// cache, and reports the fd to use as the openat(2) base for f's
// children. f must have Type Dir (or Unknown, about to be confirmed as a
// directory).
func openDir(s *state, f *file) (int, error) {
	if f.cache != nil && f.cache.fd >= 0 {
		return f.cache.fd, nil
	}

	if err := s.cache.reserve(); err != nil {
		return -1, err
	}

	fd, err := materializeOpenDir(s, f)
	if err != nil {
		return -1, wrapErr("open", pathHint(f), err)
	}

	f.cache = &cacheEntry{fd: fd}
	if err := s.cache.add(f); err != nil {
		return -1, err
	}
	return fd, nil
}

// materializeOpenDir opens f's directory, routing the syscall through the
// async I/O pool when the balance heuristic (spec.md §5) prefers it —
// the same dispatch/fallback shape materializeStat uses for stats. Roots
// are always opened synchronously from AT_FDCWD, same as statFile's
// treatment of roots.
func materializeOpenDir(s *state, f *file) (int, error) {
	if f.root {
		s.queue.recordSync()
		return openatDir(atFDCWD, f.name)
	}

	if s.io == nil || s.queue.preferSync() {
		s.queue.recordSync()
		return openRelativeDir(f)
	}

	resultCh := make(chan ioResult, 1)
	if !s.io.trySubmit(ioOp{f: f, kind: ioOpenDir, result: resultCh}) {
		s.queue.recordSync()
		return openRelativeDir(f)
	}
	s.queue.recordAsync()
	s.queue.pushWaiting(f)

	res := <-resultCh
	s.queue.popWaiting(f)
	return res.fd, res.err
}

// closeDir closes f's open directory fd, routing the actual close(2)
// syscall through the async I/O pool when the balance heuristic prefers
// it. The cache bookkeeping (LRU detachment, capacity accounting) always
// happens synchronously and immediately, so a concurrent openDir can
// reuse the freed capacity before the close syscall itself has completed.
func closeDir(s *state, f *file) {
	if s.io == nil || s.queue.preferSync() {
		s.queue.recordSync()
		s.cache.closeEntry(f)
		return
	}

	fd := s.cache.detachForAsyncClose(f)
	resultCh := make(chan ioResult, 1)
	if !s.io.trySubmit(ioOp{f: f, kind: ioClose, fd: fd, result: resultCh}) {
		s.queue.recordSync()
		closeFd(fd) //nolint:errcheck // best effort, f is already detached from the cache
		return
	}
	s.queue.recordAsync()
	s.queue.pushWaiting(f)
	<-resultCh
	s.queue.popWaiting(f)
}

// readChildren reads f's directory (which must already be open) and
// returns one *file per entry, sorted if SORT is set. It does not stat
// any of them: every child starts with Type Unknown, and its type is
// filled in by materializeStat when visitOne reaches it.
func readChildren(s *state, f *file) ([]*file, error) {
	fd, err := openDir(s, f)
	if err != nil {
		return nil, err
	}

	// Pin f for the duration of the listing so the LRU can't evict it out
	// from under a concurrent openat() against it (spec.md §4.1, §5).
	s.cache.pin(f)
	names, err := readdirnames(fd)
	s.cache.unpin(f)
	if err != nil {
		return nil, wrapErr("readdir", pathHint(f), err)
	}

	if s.args.Flags.Contains(SORT) {
		sort.Strings(names)
	}

	children := make([]*file, 0, len(names))
	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}
		children = append(children, newChildFile(f, name, EType.Unknown()))
	}
	return children, nil
}

// statFile materializes f's (dev, ino, type) by statting it relative to
// its parent's open fd, honoring the follow-symlink policy implied by
// args.Flags and f's depth (spec.md §4.4, FOLLOW_ROOTS vs FOLLOW_ALL).
func statFile(s *state, f *file) error {
	if f.dev != 0 || f.ino != 0 || f.typ == EType.Wht() {
		return nil // already materialized
	}

	flag := statNoFollow
	if f.root {
		if s.args.Flags.ContainsAny(FOLLOW_ROOTS | FOLLOW_ALL) {
			flag = statTryFollow
		}
	} else if s.args.Flags.Contains(FOLLOW_ALL) {
		flag = statTryFollow
	}

	var st statResult
	var err error
	if f.root {
		st, err = statAt(atFDCWD, f.name, flag)
	} else {
		base, baseFd, perr := nearestOpenAncestor(f)
		if perr != nil {
			return perr
		}
		rel, perr := pathFrom(base, f)
		if perr != nil {
			return perr
		}
		st, err = statAt(baseFd, rel, flag)
	}
	if err != nil {
		if s.args.Flags.Contains(WHITEOUTS) && isENOENT(err) {
			// A name readdir reported that stat can no longer see: on
			// overlay/union filesystems without d_type support, that's
			// exactly how a whiteout marker presents (spec.md §12).
			f.typ = EType.Wht()
			return nil
		}
		return wrapErr("stat", pathHint(f), err)
	}

	f.dev = st.dev
	f.ino = st.ino
	f.typ = typeFromMode(st.mode)
	return nil
}

// materializeStat is the entry point visitOne uses to get f's (dev, ino,
// type): it consults the queue's balance heuristic (spec.md §5) to decide
// whether to dispatch the stat to the async I/O pool or service it
// synchronously on the driver goroutine, recording the decision back into
// the balance counter either way. Root files, and any file whose stat
// must follow symlinks (FOLLOW_ALL — the async path only ever performs a
// non-following stat, matching the common case), are always serviced
// synchronously.
func materializeStat(s *state, f *file) error {
	if f.dev != 0 || f.ino != 0 || f.typ == EType.Wht() {
		return nil
	}
	if f.root || s.args.Flags.Contains(FOLLOW_ALL) || s.io == nil {
		s.queue.recordSync()
		return statFile(s, f)
	}

	if s.queue.preferSync() {
		s.queue.recordSync()
		return statFile(s, f)
	}

	resultCh := make(chan ioResult, 1)
	if !s.io.trySubmit(ioOp{f: f, kind: ioStat, result: resultCh}) {
		s.queue.recordSync()
		return statFile(s, f)
	}
	s.queue.recordAsync()
	s.queue.pushWaiting(f)

	res := <-resultCh
	s.queue.popWaiting(f)
	if res.err != nil {
		return wrapErr("stat", pathHint(f), res.err)
	}
	if res.whiteout {
		f.typ = EType.Wht()
		return nil
	}
	f.dev = res.st.dev
	f.ino = res.st.ino
	f.typ = typeFromMode(res.st.mode)
	return nil
}

// detectCycle reports whether f, a directory, shares (dev, ino) with one
// of its own proper ancestors — spec.md §8 property 7, ported from the
// original's ancestor walk in bftw_check_cycle.
func detectCycle(f *file) bool {
	for anc := f.parent; anc != nil; anc = anc.parent {
		if anc.dev == f.dev && anc.ino == f.ino {
			return true
		}
	}
	return false
}

// buildEntry constructs the Entry passed to the user callback for f at
// the given visit (Pre or Post), with err set if some prerequisite
// syscall failed.
func buildEntry(s *state, f *file, visit Visit, err error) *Entry {
	typ := f.typ
	if err != nil {
		typ = EType.Error()
	}

	// AtFD/AtPath let the callback (or Entry.Stat/LStat/Open) reach this
	// entry relative to its nearest still-open ancestor instead of
	// reopening from AT_FDCWD with a full path every time (spec.md §6.2).
	// In the common case that ancestor is f's immediate parent and AtPath
	// is just f's own name.
	atFD := atFDCWD
	atPath := pathHint(f)
	if base, baseFD, perr := nearestOpenAncestor(f); perr == nil {
		if rel, perr := pathFrom(base, f); perr == nil {
			atFD = baseFD
			atPath = rel
		}
	}

	return &Entry{
		Path:    s.builder.build(f),
		Root:    f.rootAncestor().name,
		Depth:   f.depth,
		NameOff: f.nameoff,
		Visit:   visit,
		Type:    typ,
		Err:     err,
		AtFD:    atFD,
		AtPath:  atPath,
	}
}

// dispatch invokes the user callback for f at the given visit and
// interprets RECOVER: when set, a per-entry error is delivered to the
// callback rather than aborting the walk, and the callback's own verdict
// is honored even for error entries (defaulting to Prune, as the original
// does, since descending into an entry bftw couldn't identify is rarely
// useful).
func dispatch(s *state, f *file, visit Visit, prereqErr error) Action {
	if prereqErr != nil {
		if !s.args.Flags.Contains(RECOVER) {
			s.err = prereqErr
			return EAction.Stop()
		}
		s.logger.Logf(logx.LogWarning, "error visiting %s: %v", pathHint(f), prereqErr)
	}

	entry := buildEntry(s, f, visit, prereqErr)
	action := s.args.Callback(entry)
	if prereqErr != nil && action == EAction.Continue() {
		// Don't try to descend into something we couldn't even stat.
		return EAction.Prune()
	}
	return action
}
