// Package queue implements the scheduler's intrusive node pool and the
// dual-priority (normal / priority) scheduling FIFOs built on top of it.
//
// The source keeps a contiguous memory-pool array of queue entries linked
// by raw next-pointers into three lists (free, normal, priority); nodes are
// never freed, only relinked. This port keeps the same arena-of-nodes
// shape but represents "pointers" as indices into a single []node slice,
// which is the idiomatic Go encoding of an intrusive list for a
// GC-managed language: one allocation at construction, zero after.
package queue

import (
	"encoding/binary"

	"github.com/YousefSalaman/serial-task-scheduler/internal/codec"
	"github.com/YousefSalaman/serial-task-scheduler/internal/constants"
)

const none = -1

// Entry is a read-only view of a queue node's scheduling state, handed back
// by Peek; Frame aliases the node's backing buffer and must not be
// retained past the next queue mutation.
type Entry struct {
	ID          uint8
	Rescheduled bool
	Frame       []byte
}

type node struct {
	id          int16
	rescheduled bool
	buf         []byte
	bufLen      int
	next        int
}

// Queues holds the fixed node arena and the three lists built over it:
// the unscheduled free stack, the normal FIFO, and the priority FIFO.
type Queues struct {
	arena          []node
	maxEncodedSize int

	unscheduled int

	normalHead, normalTail     int
	priorityHead, priorityTail int

	free int
}

// New allocates an arena of poolSize nodes, each owning a maxEncodedSize
// byte frame buffer, and links them all onto the free list. No further
// allocation of node storage occurs after this call.
func New(poolSize, maxEncodedSize int) *Queues {
	arena := make([]node, poolSize)
	for i := range arena {
		arena[i] = node{
			id:   constants.NoTaskID,
			buf:  make([]byte, maxEncodedSize),
			next: i + 1,
		}
	}
	head := 0
	if poolSize == 0 {
		head = none
	} else {
		arena[poolSize-1].next = none
	}
	return &Queues{
		arena:          arena,
		maxEncodedSize: maxEncodedSize,
		unscheduled:    head,
		normalHead:     none,
		normalTail:     none,
		priorityHead:   none,
		priorityTail:   none,
		free:           poolSize,
	}
}

// PoolSize returns the total number of arena nodes.
func (q *Queues) PoolSize() int { return len(q.arena) }

// FreeCount returns the number of nodes currently on the free list.
func (q *Queues) FreeCount() int { return q.free }

// IsFull reports whether the free list is exhausted.
func (q *Queues) IsFull() bool { return q.unscheduled == none }

// IsNormalEmpty reports whether the normal FIFO has no entries.
func (q *Queues) IsNormalEmpty() bool { return q.normalHead == none }

// IsPriorityEmpty reports whether the priority FIFO has no entries.
func (q *Queues) IsPriorityEmpty() bool { return q.priorityHead == none }

// IsEmpty reports whether both FIFOs are empty.
func (q *Queues) IsEmpty() bool { return q.IsNormalEmpty() && q.IsPriorityEmpty() }

func (q *Queues) popFree() int {
	idx := q.unscheduled
	q.unscheduled = q.arena[idx].next
	q.free--
	return idx
}

func (q *Queues) pushFree(idx int) {
	q.arena[idx].next = q.unscheduled
	q.unscheduled = idx
	q.free++
}

func (q *Queues) linkBack(priority bool, idx int) {
	q.arena[idx].next = none
	if priority {
		if q.priorityTail == none {
			q.priorityHead = idx
		} else {
			q.arena[q.priorityTail].next = idx
		}
		q.priorityTail = idx
		return
	}
	if q.normalTail == none {
		q.normalHead = idx
	} else {
		q.arena[q.normalTail].next = idx
	}
	q.normalTail = idx
}

func (q *Queues) linkFront(priority bool, idx int) {
	if priority {
		q.arena[idx].next = q.priorityHead
		q.priorityHead = idx
		if q.priorityTail == none {
			q.priorityTail = idx
		}
		return
	}
	q.arena[idx].next = q.normalHead
	q.normalHead = idx
	if q.normalTail == none {
		q.normalTail = idx
	}
}

// buildDecoded assembles the 4-byte header plus payload and stamps the
// CRC16 checksum into the first two bytes.
func buildDecoded(id, taskType uint8, payload []byte) []byte {
	decoded := make([]byte, constants.DecodedHeaderSize+len(payload))
	decoded[2] = id
	decoded[3] = taskType
	copy(decoded[constants.DecodedHeaderSize:], payload)
	crc := codec.CRC16(decoded[2:])
	binary.LittleEndian.PutUint16(decoded[0:2], crc)
	return decoded
}

// Push encodes a frame for (id, taskType, payload) and places it on the
// requested FIFO. fast prepends to the priority FIFO for immediate send;
// priority (without fast) appends to the priority FIFO; neither appends to
// the normal FIFO. ok is false if the pool has no free node; oversized is
// true if the encoded frame would not fit in the fixed per-node buffer
// (checked before any free node is consumed, so the pool is left
// unchanged in that case).
func (q *Queues) Push(id, taskType uint8, payload []byte, priority, fast bool) (ok, oversized bool) {
	if q.IsFull() {
		return false, false
	}
	encoded := codec.Encode(buildDecoded(id, taskType, payload))
	if len(encoded) > q.maxEncodedSize {
		return false, true
	}

	idx := q.popFree()
	n := &q.arena[idx]
	n.id = int16(id)
	n.rescheduled = false
	n.bufLen = copy(n.buf, encoded)

	switch {
	case fast:
		q.linkFront(true, idx)
	case priority:
		q.linkBack(true, idx)
	default:
		q.linkBack(false, idx)
	}
	return true, false
}

// Pop detaches the head of the requested FIFO, resets its scheduling
// state, and returns it to the free list. A no-op if that FIFO is empty.
func (q *Queues) Pop(priority bool) {
	headPtr, tailPtr := q.headTail(priority)
	idx := *headPtr
	if idx == none {
		return
	}
	next := q.arena[idx].next
	*headPtr = next
	if next == none {
		*tailPtr = none
	}
	q.arena[idx].id = constants.NoTaskID
	q.arena[idx].rescheduled = false
	q.arena[idx].bufLen = 0
	q.pushFree(idx)
}

// Reschedule moves the current head of the requested FIFO to its tail,
// preserving the node's rescheduled flag. A no-op if that FIFO is empty.
func (q *Queues) Reschedule(priority bool) {
	headPtr, tailPtr := q.headTail(priority)
	idx := *headPtr
	if idx == none {
		return
	}
	next := q.arena[idx].next
	*headPtr = next
	if next == none {
		*tailPtr = none
	}
	q.linkBack(priority, idx)
}

// MarkHeadRescheduled sets the rescheduled flag on the current head of the
// requested FIFO. A no-op if that FIFO is empty.
func (q *Queues) MarkHeadRescheduled(priority bool) {
	headPtr, _ := q.headTail(priority)
	if *headPtr != none {
		q.arena[*headPtr].rescheduled = true
	}
}

// PrioritizeNormal moves the current normal-FIFO head to the front of the
// priority FIFO, clearing its rescheduled flag (the FIFO it joins is
// fire-and-forget, so the flag has no meaning there). Returns false if the
// normal FIFO is empty.
func (q *Queues) PrioritizeNormal() bool {
	idx := q.normalHead
	if idx == none {
		return false
	}
	next := q.arena[idx].next
	q.normalHead = next
	if next == none {
		q.normalTail = none
	}
	q.arena[idx].rescheduled = false
	q.linkFront(true, idx)
	return true
}

// PeekNormal returns the current normal-FIFO head, if any.
func (q *Queues) PeekNormal() (Entry, bool) { return q.peek(q.normalHead) }

// PeekPriority returns the current priority-FIFO head, if any.
func (q *Queues) PeekPriority() (Entry, bool) { return q.peek(q.priorityHead) }

func (q *Queues) peek(idx int) (Entry, bool) {
	if idx == none {
		return Entry{}, false
	}
	n := &q.arena[idx]
	return Entry{ID: uint8(n.id), Rescheduled: n.rescheduled, Frame: n.buf[:n.bufLen]}, true
}

// Contains reports whether id is pending in either FIFO.
func (q *Queues) Contains(id uint8) bool {
	for _, head := range [2]int{q.normalHead, q.priorityHead} {
		for i := head; i != none; i = q.arena[i].next {
			if q.arena[i].id == int16(id) {
				return true
			}
		}
	}
	return false
}

func (q *Queues) headTail(priority bool) (*int, *int) {
	if priority {
		return &q.priorityHead, &q.priorityTail
	}
	return &q.normalHead, &q.normalTail
}
