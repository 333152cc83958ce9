// Package serialio provides the external byte-in/byte-out collaborator the
// scheduler core deliberately does not own: a minimal Transport interface,
// a real POSIX tty implementation, and an in-memory implementation for
// tests and the command-line demo. The core never imports this package;
// application code wires a Transport's bytes into Scheduler.IngestByte
// and Scheduler's outbound frames into a Transport's Write.
package serialio

import (
	"io"
	"sync"
)

// Transport is the minimal shape the scheduler's IngestByte/TxFunc
// callbacks are driven by. Implementations must make ReadByte and Write
// safe to call from different goroutines (one pumping reads into
// IngestByte, another calling Write from SendTask's tx callback).
type Transport interface {
	ReadByte() (byte, error)
	Write(encoded []byte) error
	Close() error
}

// PipeTransport is an in-memory Transport backed by io.Pipe, used by this
// package's tests and by the cmd/ demo, which runs two schedulers against
// each other without real hardware.
type PipeTransport struct {
	r *io.PipeReader
	w *io.PipeWriter

	mu     sync.Mutex
	closed bool
}

// NewPipePair returns two PipeTransports wired so that writes to one are
// readable from the other, emulating a full-duplex serial link between
// two schedulers in the same process.
func NewPipePair() (a, b *PipeTransport) {
	r1, w1 := io.Pipe()
	r2, w2 := io.Pipe()
	return &PipeTransport{r: r1, w: w2}, &PipeTransport{r: r2, w: w1}
}

// ReadByte blocks until one byte is available or the pipe is closed.
func (p *PipeTransport) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(p.r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Write sends encoded to the peer transport.
func (p *PipeTransport) Write(encoded []byte) error {
	_, err := p.w.Write(encoded)
	return err
}

// Close closes both ends of this transport's pipe halves.
func (p *PipeTransport) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	_ = p.r.Close()
	return p.w.Close()
}
