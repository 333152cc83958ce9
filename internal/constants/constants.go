// Package constants holds the default tuning values for the task scheduler.
package constants

// Default scheduler tuning constants. These mirror scheduler_config.h from
// the microcontroller source: a task table sized for the device roster, a
// small fixed queue pool, and a two-stage retry timer expressed in whatever
// units the caller's clock callback returns (typically milliseconds).
const (
	// DefaultTableSize is the number of hash-chain slots in the task table.
	DefaultTableSize = 23

	// DefaultQueueSize is the number of pre-allocated queue-entry nodes
	// shared by the normal and priority FIFOs.
	DefaultQueueSize = 5

	// DefaultMaxPayloadSize is the largest decoded payload a frame may carry.
	DefaultMaxPayloadSize = 25

	// DefaultShortTimer is the first retry window for an un-acknowledged
	// normal task, in clock-callback units.
	DefaultShortTimer = 350

	// DefaultLongTimer is the second, final retry window. A normal task
	// that misses both windows is dropped.
	DefaultLongTimer = 500
)

// DecodedHeaderSize is the fixed decoded-frame header: 2 checksum bytes,
// 1 task id byte, 1 task-type byte.
const DecodedHeaderSize = 4

// MinEncodedHeaderSize is the minimum plausible encoded byte count for a
// frame whose decoded form could carry at least the header. Anything
// shorter is rejected before decode is attempted.
const MinEncodedHeaderSize = DecodedHeaderSize + 1

// NoTaskID is the sentinel "unused" task id stored in a free queue entry
// and in prevTask before any normal task has ever been sent.
const NoTaskID int16 = -1
