package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushFillsPoolThenReportsFull(t *testing.T) {
	q := New(2, 64)
	ok, oversized := q.Push(1, 0, []byte{0xAA}, false, false)
	require.True(t, ok)
	require.False(t, oversized)

	ok, oversized = q.Push(2, 0, []byte{0xBB}, false, false)
	require.True(t, ok)
	require.False(t, oversized)
	assert.True(t, q.IsFull())

	ok, oversized = q.Push(3, 0, []byte{0xCC}, false, false)
	assert.False(t, ok)
	assert.False(t, oversized, "a full pool is QUEUE_FULL, not OVERSIZED_PAYLOAD")
}

func TestPushOversizedLeavesPoolUnchanged(t *testing.T) {
	q := New(2, 4) // tiny buffer: nothing will fit once COBS+CRC overhead is added
	free := q.FreeCount()

	ok, oversized := q.Push(1, 0, []byte{1, 2, 3, 4, 5, 6, 7, 8}, false, false)
	assert.False(t, ok)
	assert.True(t, oversized)
	assert.Equal(t, free, q.FreeCount(), "oversized push must not consume a node")
}

func TestNormalFIFOOrdering(t *testing.T) {
	q := New(4, 64)
	q.Push(1, 0, nil, false, false)
	q.Push(2, 0, nil, false, false)
	q.Push(3, 0, nil, false, false)

	e, ok := q.PeekNormal()
	require.True(t, ok)
	assert.EqualValues(t, 1, e.ID)

	q.Pop(false)
	e, ok = q.PeekNormal()
	require.True(t, ok)
	assert.EqualValues(t, 2, e.ID)
}

func TestPriorityDrainsBeforeNormal(t *testing.T) {
	q := New(4, 64)
	q.Push(1, 0, nil, false, false) // normal
	q.Push(2, 0, nil, true, false)  // priority

	_, normalOK := q.PeekNormal()
	pe, priorityOK := q.PeekPriority()
	require.True(t, normalOK)
	require.True(t, priorityOK)
	assert.EqualValues(t, 2, pe.ID, "priority entries are drained independently and ahead of normal")
}

func TestFastPrependsPriorityFIFO(t *testing.T) {
	q := New(4, 64)
	q.Push(1, 0, nil, true, false)  // priority, appended
	q.Push(2, 0, nil, false, true)  // fast, prepended
	q.Push(3, 0, nil, false, false) // normal

	pe, ok := q.PeekPriority()
	require.True(t, ok)
	assert.EqualValues(t, 2, pe.ID, "fast scheduling jumps ahead of the priority FIFO")

	q.Pop(true)
	pe, ok = q.PeekPriority()
	require.True(t, ok)
	assert.EqualValues(t, 1, pe.ID)
}

func TestRescheduleMovesHeadToTailPreservingFlag(t *testing.T) {
	q := New(4, 64)
	q.Push(1, 0, nil, false, false)
	q.Push(2, 0, nil, false, false)

	q.MarkHeadRescheduled(false)
	q.Reschedule(false)

	e, ok := q.PeekNormal()
	require.True(t, ok)
	assert.EqualValues(t, 2, e.ID, "task 1 moved to the back")

	q.Pop(false)
	e, ok = q.PeekNormal()
	require.True(t, ok)
	assert.EqualValues(t, 1, e.ID)
	assert.True(t, e.Rescheduled, "rescheduled flag survives the move")
}

func TestPrioritizeNormalMovesHeadAndClearsFlag(t *testing.T) {
	q := New(4, 64)
	q.Push(1, 0, nil, false, false)
	q.MarkHeadRescheduled(false)

	moved := q.PrioritizeNormal()
	require.True(t, moved)
	assert.True(t, q.IsNormalEmpty())

	pe, ok := q.PeekPriority()
	require.True(t, ok)
	assert.EqualValues(t, 1, pe.ID)
	assert.False(t, pe.Rescheduled, "prioritize_normal clears rescheduled on the move to the fire-and-forget FIFO")
}

func TestContainsScansBothFIFOs(t *testing.T) {
	q := New(4, 64)
	q.Push(1, 0, nil, false, false)
	q.Push(2, 0, nil, true, false)

	assert.True(t, q.Contains(1))
	assert.True(t, q.Contains(2))
	assert.False(t, q.Contains(9))
}

func TestPopReturnsNodeToFreeList(t *testing.T) {
	q := New(1, 64)
	q.Push(1, 0, nil, false, false)
	require.True(t, q.IsFull())

	q.Pop(false)
	assert.False(t, q.IsFull())
	assert.Equal(t, 1, q.FreeCount())
	assert.False(t, q.Contains(1))
}
