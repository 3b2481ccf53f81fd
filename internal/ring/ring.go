// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring provides the many-writers one-reader event ring that carries
// match events from scan workers to the printer.
//
// Writers claim positions with compare-and-swap and publish a slot by
// bumping its cycle; the single reader consumes slots strictly in claim order. A
// writer's own events therefore stay in the order it pushed them.
//
// Neither side blocks. Push and Pop return [iox.ErrWouldBlock] when the
// ring is full or empty, and callers pace retries with [iox.Backoff].
package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// Ring is a bounded multi-writer single-reader FIFO.
//
// Capacity n rounds up to a power of two and uses 2n physical slots. The
// slot cycle tells a writer whether the reader has released the slot.
type Ring[T any] struct {
	_      pad
	head   atomix.Uint64 // Reader position; written by the reader only
	_      pad
	tail   atomix.Uint64 // Next position to claim
	_      pad
	closed atomix.Bool // No further pushes
	_      pad
	slots  []slot[T]
	n      uint64 // usable capacity
	size   uint64 // physical slots, 2n
	mask   uint64 // size - 1
}

type slot[T any] struct {
	cycle atomix.Uint64
	val   T
	_     padShort
}

// New creates a ring holding at least capacity events.
// Panics if capacity < 2.
func New[T any](capacity int) *Ring[T] {
	if capacity < 2 {
		panic("ring: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	size := n * 2
	r := &Ring[T]{
		slots: make([]slot[T], size),
		n:     n,
		size:  size,
		mask:  size - 1,
	}
	for i := range size {
		r.slots[i].cycle.StoreRelaxed(i / n)
	}
	return r
}

// Push appends v. Safe for concurrent writers.
// Returns iox.ErrWouldBlock if the ring is full.
//
// A position is claimed only while it lies within n of the reader, so a
// claimed slot is always one the reader has already released and is never
// abandoned.
func (r *Ring[T]) Push(v *T) error {
	sw := spin.Wait{}
	for {
		tail := r.tail.LoadAcquire()
		if tail >= r.head.LoadAcquire()+r.n {
			return iox.ErrWouldBlock
		}
		if !r.tail.CompareAndSwapAcqRel(tail, tail+1) {
			sw.Once()
			continue
		}

		s := &r.slots[tail&r.mask]
		want := tail / r.n
		for s.cycle.LoadAcquire() != want {
			sw.Once()
		}
		s.val = *v
		s.cycle.StoreRelease(want + 1)
		return nil
	}
}

// Pop removes the oldest event. Reader only.
// Returns (zero, iox.ErrWouldBlock) if the ring is empty.
func (r *Ring[T]) Pop() (T, error) {
	var zero T
	head := r.head.LoadRelaxed()
	s := &r.slots[head&r.mask]

	if s.cycle.LoadAcquire() != head/r.n+1 {
		return zero, iox.ErrWouldBlock
	}

	v := s.val
	s.val = zero
	s.cycle.StoreRelease((head + r.size) / r.n)
	r.head.StoreRelaxed(head + 1)
	return v, nil
}

// Close records that writers are done. The reader keeps popping until
// the ring reports empty; Closed tells it when that emptiness is final.
func (r *Ring[T]) Close() {
	r.closed.StoreRelease(true)
}

// Closed reports whether Close has been called.
func (r *Ring[T]) Closed() bool {
	return r.closed.LoadAcquire()
}

// Cap returns the usable capacity.
func (r *Ring[T]) Cap() int {
	return int(r.n)
}

func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad keeps hot indices on separate cache lines.
type pad [64]byte

// padShort fills the rest of a cache line after an 8-byte cycle.
type padShort [64 - 8]byte
