package bftw

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ioOp is one unit of asynchronous work: open a directory, stat a file,
// or close a directory, submitted by the driver loop and serviced by one
// of ioQueue's worker goroutines. This is the Go realization of spec.md
// §4.3's async I/O queue interface, grounded on
// common/parallel/dirReader.go's linuxDirReader (a channel of work items
// serviced by a fixed pool of goroutines, results delivered on a
// per-request channel).
type ioOp struct {
	f *file
	// fd is the descriptor to close, for an ioClose op. Passed explicitly
	// rather than read from f.cache.fd at service time, since the caller
	// detaches f from the cache (clearing f.cache.fd) before submitting,
	// so the freed capacity is available to other callers immediately
	// rather than only once the close syscall itself has run.
	fd     int
	kind   ioKind
	result chan<- ioResult
}

type ioKind uint8

const (
	ioOpenDir ioKind = iota
	ioStat
	ioClose
)

type ioResult struct {
	f    *file
	kind ioKind
	fd   int
	st   statResult
	// whiteout reports that an ioStat op found ENOENT where WHITEOUTS
	// classification applies; st/err are both zero in that case.
	whiteout bool
	err      error
}

// ioQueue is a bounded pool of worker goroutines performing blocking
// directory/stat syscalls off the driver's hot path, so a single slow NFS
// mount doesn't stall the whole walk. golang.org/x/sync/errgroup
// supervises the pool and propagates the first fatal worker error (a
// worker only ever fails fatally on a logic bug, since syscall errors are
// reported through ioResult, not returned); golang.org/x/sync/semaphore
// throttles the number of in-flight submissions to queueDepth so the
// driver can't runaway-queue more work than the pool can absorb.
type ioQueue struct {
	group   *errgroup.Group
	ctx     context.Context
	cancel  context.CancelFunc
	sem     *semaphore.Weighted
	ops     chan ioOp
	workers int
	flags   Flags
}

// newIOQueue starts workers goroutines, each pulling ioOps off a shared
// channel until it's closed. queueDepth bounds the number of submissions
// allowed to be in flight at once (spec.md §5's "bounded concurrency").
func newIOQueue(workers, queueDepth int, flags Flags) *ioQueue {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < workers {
		queueDepth = workers
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)

	q := &ioQueue{
		group:   group,
		ctx:     gctx,
		cancel:  cancel,
		sem:     semaphore.NewWeighted(int64(queueDepth)),
		ops:     make(chan ioOp),
		workers: workers,
		flags:   flags,
	}

	for i := 0; i < workers; i++ {
		group.Go(q.workerLoop)
	}

	return q
}

func (q *ioQueue) workerLoop() error {
	for {
		select {
		case <-q.ctx.Done():
			return nil
		case op, ok := <-q.ops:
			if !ok {
				return nil
			}
			q.service(op)
		}
	}
}

func (q *ioQueue) service(op ioOp) {
	defer q.sem.Release(1)

	var res ioResult
	res.f = op.f
	res.kind = op.kind

	switch op.kind {
	case ioOpenDir:
		fd, err := openRelativeDir(op.f)
		res.fd, res.err = fd, err
	case ioStat:
		parent, parentFd, err := nearestOpenAncestor(op.f)
		if err != nil {
			res.err = err
			break
		}
		rel, err := pathFrom(parent, op.f)
		if err != nil {
			res.err = err
			break
		}
		st, err := statAt(parentFd, rel, statNoFollow)
		if err != nil && q.flags.Contains(WHITEOUTS) && isENOENT(err) {
			res.whiteout = true
			err = nil
		}
		res.st, res.err = st, err
	case ioClose:
		res.err = closeFd(op.fd)
	}

	select {
	case op.result <- res:
	case <-q.ctx.Done():
	}
}

// submit enqueues op for async service, blocking until a queue slot is
// available. It returns an error only if the queue's context has been
// canceled (Close was called, or a worker died fatally).
func (q *ioQueue) submit(op ioOp) error {
	if err := q.sem.Acquire(q.ctx, 1); err != nil {
		return err
	}
	select {
	case q.ops <- op:
		return nil
	case <-q.ctx.Done():
		q.sem.Release(1)
		return q.ctx.Err()
	}
}

// trySubmit enqueues op only if a queue slot is immediately available,
// used by the driver loop's balance heuristic (spec.md §5) to decide
// whether async dispatch would actually help right now or just queue up
// behind a full pool. It reports false, without blocking, if the pool is
// saturated.
func (q *ioQueue) trySubmit(op ioOp) bool {
	if !q.sem.TryAcquire(1) {
		return false
	}
	select {
	case q.ops <- op:
		return true
	case <-q.ctx.Done():
		q.sem.Release(1)
		return false
	}
}

// close stops accepting new work and waits for in-flight operations to
// drain.
func (q *ioQueue) close() error {
	close(q.ops)
	q.cancel()
	return q.group.Wait()
}
