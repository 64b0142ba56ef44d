package bftw

import (
	"github.com/google/uuid"

	"github.com/intelfx/bfs/internal/logx"
)

// state is the traversal state shared by the strategy drivers and the
// visit pipeline for a single Walk call: the open-dir cache, the
// multi-stage queue, the async I/O pool, and the bookkeeping needed for
// cycle/mount detection. One state exists per Walk invocation (and one
// nested state per round, for IDS/EDS); it is never shared across
// concurrent Walk calls. Grounded on struct bftw_state in the original
// implementation.
type state struct {
	args Args

	runID string // uuid.New().String(), tags every log line for this walk

	cache   *cache
	queue   *queue
	io      *ioQueue
	mounts  *mountTable
	pruned  *pathTrie // allocated for IDS/EDS rounds; the drivers in ids.go keep their own set
	builder pathBuilder

	rootDev uint64 // device of the first walk root, logged at debug level

	logger logx.Logger

	// stopped is set once the callback has returned Stop, so the driver
	// loop can unwind without visiting any more files.
	stopped bool

	// err is the first fatal error encountered (I/O queue failure, GC
	// bookkeeping failure); once set, the walk unwinds.
	err error
}

func newState(args Args) *state {
	runID := uuid.New().String()

	logger := args.Logger
	if logger == nil {
		logger = logx.Nop
	}

	qflags := qflagBalance
	if args.Flags.Contains(SORT) || args.Flags.Contains(POST_ORDER) || args.Flags.Contains(BUFFER) {
		qflags |= qflagBuffer
	}
	if args.Strategy == DFS {
		qflags |= qflagLIFO
	}

	workers := args.Threads
	if workers < 0 {
		workers = 0
	}

	var io *ioQueue
	if workers > 0 {
		io = newIOQueue(workers, workers*4, args.Flags)
	}

	s := &state{
		args:   args,
		runID:  runID,
		cache:  newCache(args.OpenFiles),
		queue:  newQueue(qflags),
		io:     io,
		mounts: newMountTable(),
		logger: logger,
	}
	if args.Strategy == IDS || args.Strategy == EDS {
		s.pruned = newPathTrie()
	}
	s.logger.Logf(logx.LogDebug, "starting walk run=%s strategy=%s threads=%d", runID, args.Strategy, workers)
	return s
}

func (s *state) close() {
	if s.io != nil {
		if err := s.io.close(); err != nil && s.err == nil {
			s.err = err
		}
	}
	if n := s.queue.waitingLen(); n > 0 {
		// Every async dispatch is awaited before the driver moves on
		// (see materializeStat), so the waiting stage should always be
		// drained by the time a walk finishes; a nonzero count here
		// means the driver unwound early (Stop, or a fatal error) while
		// an op was still in flight.
		s.logger.Logf(logx.LogDebug, "run=%s finished with %d op(s) still waiting", s.runID, n)
	}
	s.logger.Logf(logx.LogDebug, "finished walk run=%s", s.runID)
}
