// Package scheduler implements the microcontroller side of a reliable
// request/response pipeline over a byte-oriented serial link: frame
// codec, task lookup table, dual-priority scheduling queues, and the
// single-outstanding-request retry protocol that ties them together.
package scheduler

import (
	"encoding/binary"

	"github.com/YousefSalaman/serial-task-scheduler/internal/codec"
	"github.com/YousefSalaman/serial-task-scheduler/internal/constants"
	"github.com/YousefSalaman/serial-task-scheduler/internal/logging"
	"github.com/YousefSalaman/serial-task-scheduler/internal/queue"
	"github.com/YousefSalaman/serial-task-scheduler/internal/table"
)

// TaskType distinguishes internal control messages from application tasks.
type TaskType uint8

const (
	Internal TaskType = 0
	External TaskType = 1
)

// Handler is the application-supplied procedure bound to a task id; the
// scheduler never inspects it, only hands it to RxDispatchFunc.
type Handler = table.Handler

// RxDispatchFunc interprets a registered handler's shape against an
// inbound payload and returns zero for success, or a non-zero application
// error code requesting the peer retry.
type RxDispatchFunc func(id uint8, handler Handler, payload []byte) uint8

// TxFunc transmits one already-encoded frame. The scheduler does not reuse
// the buffer until the call returns, and treats a non-nil error as a
// local, non-fatal transport hiccup (logged, not propagated).
type TxFunc func(encoded []byte) error

// ClockFunc returns a free-running, wraparound-tolerant time value in
// caller-defined units (only differences against small constants are
// ever compared).
type ClockFunc func() uint32

// Config holds the scheduler's init-time tuning values, mirroring
// scheduler_config.h's compile-time constants as a runtime struct.
type Config struct {
	TableSize      int    // task table hash-chain slots
	QueueSize      int    // pool entries shared by both FIFOs
	MaxPayloadSize int    // largest decoded payload a frame may carry
	ShortTimer     uint32 // first retry window, clock-callback units
	LongTimer      uint32 // second, final retry window
}

// DefaultConfig returns the scheduler's default tuning values.
func DefaultConfig() Config {
	return Config{
		TableSize:      constants.DefaultTableSize,
		QueueSize:      constants.DefaultQueueSize,
		MaxPayloadSize: constants.DefaultMaxPayloadSize,
		ShortTimer:     constants.DefaultShortTimer,
		LongTimer:      constants.DefaultLongTimer,
	}
}

func (c Config) validate() error {
	if c.TableSize <= 0 {
		return NewError("New", CodeInvalidConfig, "TableSize must be positive")
	}
	if c.QueueSize <= 0 {
		return NewError("New", CodeInvalidConfig, "QueueSize must be positive")
	}
	if c.MaxPayloadSize < 0 {
		return NewError("New", CodeInvalidConfig, "MaxPayloadSize must not be negative")
	}
	return nil
}

const noTask int32 = -1

// Scheduler is the singleton protocol core: the task table, the dual-
// priority queues, the inbound frame assembly buffer, and the two-stage
// retry timer for the normal FIFO head. Not safe for concurrent use; the
// supported usage is a single main-loop goroutine alternately calling
// IngestByte and SendTask, matching the source's single-core assumption.
type Scheduler struct {
	cfg Config

	table  *table.Table
	queues *queue.Queues

	rxBuf []byte
	rxLen int

	prevTask  int32
	startTime uint32

	rxDispatch RxDispatchFunc
	tx         TxFunc
	clock      ClockFunc

	stats  statCounters
	logger *logging.Logger
}

// New allocates the task table and queue pool per cfg and returns a ready
// Scheduler. Returns an error if cfg is invalid; the caller must treat a
// failed New as unusable (nothing is partially retained).
func New(cfg Config, rxDispatch RxDispatchFunc, tx TxFunc, clock ClockFunc) (*Scheduler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxDecoded := constants.DecodedHeaderSize + cfg.MaxPayloadSize
	maxEncoded := codec.MaxEncodedLen(maxDecoded)

	return &Scheduler{
		cfg:        cfg,
		table:      table.New(cfg.TableSize),
		queues:     queue.New(cfg.QueueSize, maxEncoded),
		rxBuf:      make([]byte, maxEncoded),
		prevTask:   noTask,
		rxDispatch: rxDispatch,
		tx:         tx,
		clock:      clock,
		logger:     logging.Default(),
	}, nil
}

// Close releases the task table's chains. Queue and rx-buffer storage is
// plain Go memory reclaimed by the garbage collector; Deinit is kept for
// symmetry with the source's explicit teardown call.
func (s *Scheduler) Close() error {
	s.table.Deinit()
	s.rxLen = 0
	return nil
}

// Deinit is an alias for Close, matching the source's naming.
func (s *Scheduler) Deinit() error { return s.Close() }

// RegisterTask binds handler to id with an optional expected payload
// length (negative disables the check). Silently refuses a duplicate id,
// matching the task table's idempotent registration.
func (s *Scheduler) RegisterTask(id uint8, expectedLen int16, handler Handler) error {
	s.table.Register(id, expectedLen, handler)
	return nil
}

// IngestByte feeds one inbound byte into the frame assembly buffer. A
// zero byte is the frame terminator: it triggers processInbound over the
// bytes accumulated so far, then resets the buffer. A full buffer with no
// terminator in sight is overwritten from position zero (frame resync).
func (s *Scheduler) IngestByte(b byte) {
	if b == 0 {
		if s.rxLen > 0 {
			s.processInbound(s.rxBuf[:s.rxLen])
		}
		s.rxLen = 0
		return
	}
	if s.rxLen >= len(s.rxBuf) {
		s.rxLen = 0
	}
	s.rxBuf[s.rxLen] = b
	s.rxLen++
}

func (s *Scheduler) processInbound(encoded []byte) {
	if len(encoded) < constants.MinEncodedHeaderSize {
		s.stats.shortHeader.Add(1)
		s.logger.Debug("short packet header", "len", len(encoded))
		return
	}

	decoded := codec.Decode(encoded)
	if decoded == nil || len(decoded) < constants.DecodedHeaderSize {
		s.stats.shortHeader.Add(1)
		s.logger.Debug("frame decode failed")
		return
	}

	want := binary.LittleEndian.Uint16(decoded[0:2])
	if codec.CRC16(decoded[2:]) != want {
		s.stats.checksumFail.Add(1)
		s.logger.Debug("checksum verification failed")
		return
	}
	s.stats.framesDecoded.Add(1)

	taskID := decoded[2]
	taskType := TaskType(decoded[3])
	payload := decoded[constants.DecodedHeaderSize:]

	if taskType == Internal {
		s.handleInternal(taskID, payload)
		return
	}

	entry := s.table.Lookup(taskID)
	if entry == nil {
		s.stats.taskNotRegistered.Add(1)
		s.logger.WithTask(taskID).Warn("task not registered")
		return
	}
	if entry.ExpectedLen >= 0 && int(entry.ExpectedLen) != len(payload) {
		s.stats.payloadSizeMismatch.Add(1)
		s.logger.WithTask(taskID).Warn("incorrect payload size", "expected", entry.ExpectedLen, "got", len(payload))
		return
	}

	returnCode := s.rxDispatch(taskID, entry.Handler, payload)
	if err := s.AlertTaskCompletion(taskID, returnCode); err != nil {
		s.logger.WithTask(taskID).WithError(err).Warn("failed to alert task completion")
	}
}

// handleInternal routes an inbound internal control message.
func (s *Scheduler) handleInternal(id uint8, payload []byte) {
	switch id {
	case AlertSystem, UnscheduleTask:
		if len(payload) < 2 {
			return
		}
		s.onAlert(payload[0], payload[1])
	case PrintMessage:
		s.logger.Warn("peer print message", "payload", payload)
	case ModifyTaskVal:
		s.logger.Debug("peer modify task val", "payload", payload)
	default:
		s.logger.Debug("unhandled internal message", "id", id)
	}
}

// onAlert applies an ALERT_SYSTEM/UNSCHEDULE_TASK reply to the normal
// FIFO head, if it is the one being acknowledged.
func (s *Scheduler) onAlert(targetID uint8, returnCode uint8) {
	head, ok := s.queues.PeekNormal()
	if !ok || head.ID != targetID {
		return
	}
	if returnCode != 0 && !head.Rescheduled {
		s.queues.MarkHeadRescheduled(false)
		s.queues.Reschedule(false)
	} else {
		s.queues.Pop(false)
	}
	s.prevTask = noTask
}

// SendTask drains one outbound frame per call: the priority FIFO head if
// non-empty (fire-and-forget), otherwise the normal FIFO head subject to
// the two-stage retry timer. Call once per main-loop iteration.
func (s *Scheduler) SendTask() {
	if s.queues.IsEmpty() {
		return
	}

	if !s.queues.IsPriorityEmpty() {
		head, _ := s.queues.PeekPriority()
		s.send(head.Frame)
		s.queues.Pop(true)
		return
	}

	head, ok := s.queues.PeekNormal()
	if !ok {
		return
	}

	now := s.clock()
	if int32(head.ID) != s.prevTask {
		s.prevTask = int32(head.ID)
		s.startTime = now
		s.send(head.Frame)
	}

	window := s.cfg.ShortTimer
	if head.Rescheduled {
		window = s.cfg.LongTimer
	}

	if now-s.startTime >= window {
		if head.Rescheduled {
			s.stats.peerNonresponsive.Add(1)
			s.logger.WithTask(head.ID).WithQueue("normal").Debug("peer nonresponsive")
			s.queues.Pop(false)
		} else {
			s.queues.MarkHeadRescheduled(false)
			s.queues.Reschedule(false)
			s.stats.retries.Add(1)
		}
		s.prevTask = noTask
	}
}

func (s *Scheduler) send(frame []byte) {
	if err := s.tx(frame); err != nil {
		s.logger.WithError(err).Warn("transmit failed")
	}
}

// Schedule requests that a frame for (id, taskType, payload) be sent.
// Deduplicates against an already-pending id (silent no-op). If the pool
// is full, frees one slot via prioritizeNormal + a forced SendTask before
// giving up with CodeQueuesFull.
func (s *Scheduler) Schedule(id uint8, taskType TaskType, payload []byte, priority, fast bool) error {
	if s.queues.Contains(id) {
		return nil
	}

	if s.queues.IsFull() {
		if s.queues.IsPriorityEmpty() && s.queues.PrioritizeNormal() {
			s.prevTask = noTask
		}
		s.SendTask()
		if s.queues.IsFull() {
			s.stats.queueFull.Add(1)
			return NewTaskError("Schedule", id, CodeQueuesFull, "queues full")
		}
	}

	ok, oversized := s.queues.Push(id, uint8(taskType), payload, priority, fast)
	if !ok {
		if oversized {
			s.stats.oversizedPayload.Add(1)
			return NewTaskError("Schedule", id, CodeOversizedPayload, "oversized payload")
		}
		s.stats.queueFull.Add(1)
		return NewTaskError("Schedule", id, CodeQueuesFull, "queues full")
	}
	s.stats.framesEncoded.Add(1)

	if fast {
		s.SendTask()
	}
	return nil
}

// ScheduleNormal schedules a replyable external task subject to the
// two-stage retry timer.
func (s *Scheduler) ScheduleNormal(id uint8, payload []byte) error {
	return s.Schedule(id, External, payload, false, false)
}

// SchedulePriority schedules a fire-and-forget task appended to the
// priority FIFO.
func (s *Scheduler) SchedulePriority(id uint8, taskType TaskType, payload []byte) error {
	return s.Schedule(id, taskType, payload, true, false)
}

// ScheduleFast schedules a fire-and-forget task prepended to the priority
// FIFO for immediate send.
func (s *Scheduler) ScheduleFast(id uint8, taskType TaskType, payload []byte) error {
	return s.Schedule(id, taskType, payload, true, true)
}

// AlertTaskCompletion sends the ALERT_SYSTEM control message correlating
// a finished handler invocation back to whichever side scheduled id.
func (s *Scheduler) AlertTaskCompletion(id uint8, returnCode uint8) error {
	return s.ScheduleFast(AlertSystem, Internal, []byte{id, returnCode})
}
