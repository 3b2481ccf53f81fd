// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logscan

import (
	"errors"

	"code.hybscloud.com/iox"
)

var (
	// ErrCanceled is returned by blocking Buffer operations once the run's
	// Cancel has been set. An Enqueue that returns ErrCanceled did not insert
	// its item.
	ErrCanceled = errors.New("logscan: canceled")

	// ErrInvalidCapacity is returned when a buffer capacity is not positive.
	ErrInvalidCapacity = errors.New("logscan: capacity must be > 0")

	// ErrCapacityTooLarge is returned when a buffer capacity exceeds
	// MaxCapacity. Slot storage for such a buffer is not allocated.
	ErrCapacityTooLarge = errors.New("logscan: capacity exceeds MaxCapacity")

	// ErrInvalidParties is returned when a barrier party count is not positive.
	ErrInvalidParties = errors.New("logscan: barrier parties must be > 0")

	// ErrInvalidConsumers is returned when a run is configured with fewer
	// than one consumer.
	ErrInvalidConsumers = errors.New("logscan: consumers must be > 0")

	// ErrInterrupted may be returned by a LineSource whose read was
	// interrupted before any data arrived. The producer retries it.
	ErrInterrupted = errors.New("logscan: read interrupted")

	// ErrRunFinished is returned by Execute on a Run that already executed.
	ErrRunFinished = errors.New("logscan: run already executed")
)

// ErrWouldBlock indicates a non-blocking operation cannot proceed.
//
// For TryEnqueue: the buffer is full
// For TryDequeue: the buffer is empty
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

// IsCanceled reports whether err is or wraps ErrCanceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}
