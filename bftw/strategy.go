package bftw

import (
	"syscall"

	"github.com/intelfx/bfs/internal/logx"
)

// walkOnce runs a single BFS or DFS pass over args.Paths to completion.
// Both strategies share this driver (bftw_walk in the original); the only
// difference is the queue's LIFO/FIFO discipline, set up in newState.
func walkOnce(args Args) error {
	s := newState(args)
	defer s.close()

	roots := make([]*file, 0, len(args.Paths))
	for _, p := range args.Paths {
		roots = append(roots, newRootFile(p))
	}
	s.queue.pushChildren(roots)

	driveQueue(s)

	if s.err != nil {
		return s.err
	}
	return nil
}

// driveQueue pops files off s.queue until it's empty, the callback
// requests Stop, or a fatal error occurs.
func driveQueue(s *state) {
	for !s.stopped {
		f := s.queue.popReady()
		if f == nil {
			return
		}
		visitOne(s, f)
	}
}

// visitOne runs the full visit pipeline for a single file: materialize
// its type, apply mount/cycle policy, invoke the PRE callback, descend
// into it if it's a directory the callback didn't prune, and release its
// reference once there's nothing left to do with it directly (spec.md
// §4.4).
func visitOne(s *state, f *file) {
	err := materializeStat(s, f)

	if f.root && err == nil && s.rootDev == 0 {
		s.rootDev = f.dev
		s.logger.Logf(logx.LogDebug, "walk root %s on dev=%d", pathHint(f), f.dev)
	}

	if err != nil && isELOOP(err) {
		s.logger.Logf(logx.LogDebug, "kernel reported symlink loop at %s", pathHint(f))
	}

	crossesMount := err == nil && f.parent != nil && s.mounts.crossesMount(f.parent.dev, f.dev)
	if crossesMount && !s.mounts.wasCrossed(f.dev) {
		s.mounts.recordCrossing(f.dev)
		s.logger.Logf(logx.LogDebug, "crossed mount onto dev=%d at %s", f.dev, pathHint(f))
	}
	if err == nil && crossesMount && s.args.Flags.Contains(SKIP_MOUNTS) {
		release(s, f)
		return
	}

	cycle := false
	if err == nil && f.typ == EType.Dir() && s.args.Flags.Contains(DETECT_CYCLES) && detectCycle(f) {
		cycle = true
		err = wrapErr("stat", pathHint(f), syscall.ELOOP)
	}

	action := dispatch(s, f, EVisit.Pre(), err)
	if action == EAction.Stop() {
		s.stopped = true
		release(s, f)
		return
	}

	descend := err == nil && !cycle && f.typ == EType.Dir() && action != EAction.Prune()
	if descend && crossesMount && s.args.Flags.Contains(PRUNE_MOUNTS) {
		descend = false
	}

	if descend {
		children, rerr := readChildren(s, f)
		if rerr != nil {
			if s.args.Flags.Contains(RECOVER) {
				s.logger.Logf(logx.LogWarning, "error reading %s: %v", pathHint(f), rerr)
			} else {
				s.err = rerr
				s.stopped = true
			}
		} else {
			s.queue.pushChildren(children)
		}
	}

	release(s, f)
}

// release drops f's processing reference and, once its refcount reaches
// zero (no pending children and no longer being visited), fires its POST
// callback if applicable and recurses up to its parent — the garbage
// collection pass described in spec.md §4.6.
func release(s *state, f *file) {
	if !f.unref() {
		return
	}

	if f.typ == EType.Dir() && s.args.Flags.Contains(POST_ORDER) && !s.stopped {
		action := dispatch(s, f, EVisit.Post(), nil)
		if action == EAction.Stop() {
			s.stopped = true
		}
	}

	if f.cache != nil && f.cache.fd >= 0 {
		closeDir(s, f)
	}

	if f.parent != nil {
		release(s, f.parent)
	}
}
