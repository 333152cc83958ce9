package scheduler

import "sync/atomic"

// statCounters holds the scheduler's bounded, allocation-free operational
// counters: one per error kind in the taxonomy plus a few protocol
// counters, each an atomic.Uint64 snapshot-able without locking. There is
// no device I/O to measure here, only protocol outcomes.
type statCounters struct {
	framesEncoded atomic.Uint64
	framesDecoded atomic.Uint64

	shortHeader         atomic.Uint64
	checksumFail        atomic.Uint64
	taskNotRegistered   atomic.Uint64
	payloadSizeMismatch atomic.Uint64
	queueFull           atomic.Uint64
	oversizedPayload    atomic.Uint64
	retries             atomic.Uint64
	peerNonresponsive   atomic.Uint64
}

// Stats is a point-in-time snapshot of statCounters.
type Stats struct {
	FramesEncoded uint64
	FramesDecoded uint64

	ShortHeader         uint64
	ChecksumFail        uint64
	TaskNotRegistered   uint64
	PayloadSizeMismatch uint64
	QueueFull           uint64
	OversizedPayload    uint64
	Retries             uint64
	PeerNonresponsive   uint64
}

func (c *statCounters) snapshot() Stats {
	return Stats{
		FramesEncoded:       c.framesEncoded.Load(),
		FramesDecoded:       c.framesDecoded.Load(),
		ShortHeader:         c.shortHeader.Load(),
		ChecksumFail:        c.checksumFail.Load(),
		TaskNotRegistered:   c.taskNotRegistered.Load(),
		PayloadSizeMismatch: c.payloadSizeMismatch.Load(),
		QueueFull:           c.queueFull.Load(),
		OversizedPayload:    c.oversizedPayload.Load(),
		Retries:             c.retries.Load(),
		PeerNonresponsive:   c.peerNonresponsive.Load(),
	}
}

// Stats returns a point-in-time snapshot of the scheduler's counters.
func (s *Scheduler) Stats() Stats {
	return s.stats.snapshot()
}
