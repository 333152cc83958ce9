package scheduler

import (
	"errors"
	"fmt"
)

// Error represents a structured scheduler error with task/queue context.
type Error struct {
	Op     string // Operation that failed (e.g., "Schedule", "processInbound")
	TaskID int32  // Task id involved (-1 if not applicable)
	Queue  string // "normal", "priority", or "" if not applicable
	Code   Code   // High-level error category
	Msg    string // Human-readable message
	Inner  error  // Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	if e.TaskID >= 0 {
		parts = append(parts, fmt.Sprintf("task=%d", e.TaskID))
	}

	if e.Queue != "" {
		parts = append(parts, fmt.Sprintf("queue=%s", e.Queue))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("scheduler: %s (%s)", msg, parts[0])
	}
	return fmt.Sprintf("scheduler: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support between structured errors with the same code.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// Code represents the closed taxonomy of scheduler error categories.
type Code string

const (
	CodeShortPktHdr       Code = "short packet header"
	CodeCRCChecksumFail   Code = "checksum verification failed"
	CodeTaskNotRegistered Code = "task not registered"
	CodeIncorrectPayload  Code = "incorrect payload size"
	CodeQueuesFull        Code = "queues full"
	CodeOversizedPayload  Code = "oversized payload"
	CodePeerNonresponsive Code = "peer nonresponsive"
	CodeInvalidConfig     Code = "invalid configuration"
)

// NewError creates a new structured error with no task/queue context.
func NewError(op string, code Code, msg string) *Error {
	return &Error{Op: op, TaskID: -1, Code: code, Msg: msg}
}

// NewTaskError creates a new structured error scoped to a task id.
func NewTaskError(op string, taskID uint8, code Code, msg string) *Error {
	return &Error{Op: op, TaskID: int32(taskID), Code: code, Msg: msg}
}

// NewQueueError creates a new structured error scoped to a task id and the
// FIFO it was pending in.
func NewQueueError(op string, taskID uint8, queue string, code Code, msg string) *Error {
	return &Error{Op: op, TaskID: int32(taskID), Queue: queue, Code: code, Msg: msg}
}

// WrapError wraps an existing error with scheduler context.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if se, ok := inner.(*Error); ok {
		return &Error{Op: op, TaskID: se.TaskID, Queue: se.Queue, Code: se.Code, Msg: se.Msg, Inner: se.Inner}
	}
	return &Error{Op: op, TaskID: -1, Msg: inner.Error(), Inner: inner}
}

// IsCode checks whether err matches a specific error code.
func IsCode(err error, code Code) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
