package bftw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFOOrder(t *testing.T) {
	q := newQueue(0)
	root := newRootFile("root")
	a := newChildFile(root, "a", EType.Reg())
	b := newChildFile(root, "b", EType.Reg())

	q.pushChildren([]*file{a, b})

	require.Equal(t, a, q.popReady())
	require.Equal(t, b, q.popReady())
	assert.Nil(t, q.popReady())
}

func TestQueueLIFOOrderPreservesSiblingOrder(t *testing.T) {
	q := newQueue(qflagLIFO)
	root := newRootFile("root")
	a := newChildFile(root, "a", EType.Reg())
	b := newChildFile(root, "b", EType.Reg())
	c := newChildFile(root, "c", EType.Reg())

	q.pushChildren([]*file{a, b, c})

	// Even though the ready stage is a stack, pushChildren compensates so
	// that popping still yields the original a, b, c order.
	require.Equal(t, a, q.popReady())
	require.Equal(t, b, q.popReady())
	require.Equal(t, c, q.popReady())
}

func TestQueueBufferStagesUntilDrained(t *testing.T) {
	q := newQueue(qflagBuffer)
	root := newRootFile("root")
	a := newChildFile(root, "a", EType.Reg())
	b := newChildFile(root, "b", EType.Reg())

	// pushChildren under qflagBuffer routes through the buffer stage and
	// drains it immediately, since readChildren always has the whole
	// directory (sorted, if SORT is set) in hand before calling it.
	q.pushChildren([]*file{a, b})

	assert.Equal(t, 0, q.bufferLen(), "pushChildren must drain the buffer stage, not leave entries staged")
	require.Equal(t, a, q.popReady())
	require.Equal(t, b, q.popReady())
}

func TestQueueBufferLIFOPreservesSiblingOrder(t *testing.T) {
	q := newQueue(qflagBuffer | qflagLIFO)
	root := newRootFile("root")
	a := newChildFile(root, "a", EType.Reg())
	b := newChildFile(root, "b", EType.Reg())
	c := newChildFile(root, "c", EType.Reg())

	q.pushChildren([]*file{a, b, c})

	require.Equal(t, a, q.popReady())
	require.Equal(t, b, q.popReady())
	require.Equal(t, c, q.popReady())
}

func TestQueueWaitingTracksInFlightOps(t *testing.T) {
	q := newQueue(0)
	root := newRootFile("root")
	a := newChildFile(root, "a", EType.Dir())
	b := newChildFile(root, "b", EType.Dir())

	assert.Equal(t, 0, q.waitingLen())

	q.pushWaiting(a)
	q.pushWaiting(b)
	assert.Equal(t, 2, q.waitingLen())

	q.popWaiting(a)
	assert.Equal(t, 1, q.waitingLen())

	q.popWaiting(b)
	assert.Equal(t, 0, q.waitingLen())
}

func TestQueueBalanceHeuristic(t *testing.T) {
	q := newQueue(qflagBalance)
	assert.False(t, q.preferSync())

	q.recordAsync()
	q.recordAsync()
	assert.True(t, q.preferSync())

	q.recordSync()
	q.recordSync()
	assert.False(t, q.preferSync())
}
