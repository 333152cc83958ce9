// Package table implements the task lookup table: a fixed-size array of
// hash-chain heads mapping a one-byte task id to a registered handler.
package table

// Handler is the application-supplied procedure bound to a task id. The
// scheduler's rx-dispatch callback receives this value along with the
// inbound payload and performs whatever shape-specific invocation the
// handler requires; the table itself never inspects it.
type Handler any

// Entry is one registered task: the handler, the task id it answers to,
// and the expected decoded payload length (negative disables the check).
// Entries chain by id hash collision.
type Entry struct {
	ID          uint8
	Handler     Handler
	ExpectedLen int16 // negative: do not check payload length
	next        *Entry
}

// Table is the hash-chained task lookup table. Size is fixed at
// construction; Register/Lookup never allocate past that point except for
// the one *Entry per registered task id.
type Table struct {
	slots []*Entry
}

// New creates a table with size hash-chain slots.
func New(size int) *Table {
	return &Table{slots: make([]*Entry, size)}
}

func (t *Table) slot(id uint8) int {
	return int(id) % len(t.slots)
}

// Lookup walks the chain at id's slot and returns the matching entry, or
// nil if id was never registered.
func (t *Table) Lookup(id uint8) *Entry {
	for e := t.slots[t.slot(id)]; e != nil; e = e.next {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Register inserts a new entry for id unless one already exists, in which
// case it silently refuses — the first registration for a given id always
// wins, matching the source's register_task.
func (t *Table) Register(id uint8, expectedLen int16, handler Handler) {
	if t.Lookup(id) != nil {
		return
	}
	s := t.slot(id)
	t.slots[s] = &Entry{
		ID:          id,
		Handler:     handler,
		ExpectedLen: expectedLen,
		next:        t.slots[s],
	}
}

// Deinit releases every chain so the entries can be garbage collected.
func (t *Table) Deinit() {
	for i := range t.slots {
		t.slots[i] = nil
	}
}
