package scheduler

import "github.com/YousefSalaman/serial-task-scheduler/internal/constants"

// Re-export defaults for the public API.
const (
	DefaultTableSize      = constants.DefaultTableSize
	DefaultQueueSize      = constants.DefaultQueueSize
	DefaultMaxPayloadSize = constants.DefaultMaxPayloadSize
	DefaultShortTimer     = constants.DefaultShortTimer
	DefaultLongTimer      = constants.DefaultLongTimer
)

// Reserved internal control-message task ids (task_type == Internal).
const (
	AlertSystem    uint8 = 0
	PrintMessage   uint8 = 1
	UnscheduleTask uint8 = 2
	ModifyTaskVal  uint8 = 3
	PktDecode      uint8 = 4
	PktEncode      uint8 = 5
	TaskLookup     uint8 = 6
	TaskRegister   uint8 = 7
)
