// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logscan

import "sync"

// MaxCapacity is the largest capacity NewBuffer accepts.
const MaxCapacity = 1 << 24

// Buffer is a fixed-capacity blocking FIFO of Items.
//
// Based on a circular array guarded by a single mutex with two condition
// variables (not-full for producers, not-empty for consumers). Every wait
// loop re-checks both its size predicate and the Cancel, so spurious
// wakeups are harmless and a Cancel.Set is never lost: Set stores the flag
// before WakeAll takes the mutex, and a waiter checks the flag while holding
// it.
//
// The buffer owns an Item from a successful Enqueue until the Dequeue that
// returns it. Capacity is exact; it is not rounded.
//
// Memory: capacity slots of 24 bytes each
type Buffer struct {
	mu       sync.Mutex
	notFull  sync.Cond
	notEmpty sync.Cond
	cancel   *Cancel
	slots    []Item
	head     int // Index of the oldest item
	tail     int // Index of the next free slot
	size     int
	dropped  int // Enqueues rejected by cancellation
	closed   bool
}

// NewBuffer creates a Buffer with the given capacity bound to c.
//
// Returns ErrInvalidCapacity if capacity < 1 and ErrCapacityTooLarge if
// capacity > MaxCapacity. A nil c yields a buffer that can never be
// canceled.
func NewBuffer(capacity int, c *Cancel) (*Buffer, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if capacity > MaxCapacity {
		return nil, ErrCapacityTooLarge
	}
	if c == nil {
		c = NewCancel()
	}

	b := &Buffer{
		cancel: c,
		slots:  make([]Item, capacity),
	}
	b.notFull.L = &b.mu
	b.notEmpty.L = &b.mu
	c.register(b)
	return b, nil
}

// Enqueue adds it at the tail, blocking while the buffer is full.
//
// Returns ErrCanceled if the Cancel is set before it could be inserted.
// The item is then dropped and must not be expected by any consumer.
func (b *Buffer) Enqueue(it Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.size == len(b.slots) && !b.cancel.Canceled() {
		b.notFull.Wait()
	}
	if b.cancel.Canceled() {
		b.dropped++
		return ErrCanceled
	}

	b.push(it)
	return nil
}

// TryEnqueue adds it at the tail without blocking.
// Returns ErrWouldBlock if the buffer is full, ErrCanceled if canceled.
func (b *Buffer) TryEnqueue(it Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel.Canceled() {
		b.dropped++
		return ErrCanceled
	}
	if b.size == len(b.slots) {
		return ErrWouldBlock
	}

	b.push(it)
	return nil
}

// Dequeue removes and returns the item at the head, blocking while the
// buffer is empty.
//
// Returns (Item{}, ErrCanceled) once the Cancel is set, even if items
// remain; those are released by Close.
func (b *Buffer) Dequeue() (Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.size == 0 && !b.cancel.Canceled() {
		b.notEmpty.Wait()
	}
	if b.cancel.Canceled() {
		return Item{}, ErrCanceled
	}

	return b.pop(), nil
}

// TryDequeue removes and returns the item at the head without blocking.
// Returns (Item{}, ErrWouldBlock) if empty, (Item{}, ErrCanceled) if canceled.
func (b *Buffer) TryDequeue() (Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel.Canceled() {
		return Item{}, ErrCanceled
	}
	if b.size == 0 {
		return Item{}, ErrWouldBlock
	}

	return b.pop(), nil
}

// push requires b.mu and a free slot.
func (b *Buffer) push(it Item) {
	b.slots[b.tail] = it
	b.tail = (b.tail + 1) % len(b.slots)
	b.size++
	b.notEmpty.Signal()
}

// pop requires b.mu and a resident item.
func (b *Buffer) pop() Item {
	it := b.slots[b.head]
	b.slots[b.head] = Item{}
	b.head = (b.head + 1) % len(b.slots)
	b.size--
	b.notFull.Signal()
	return it
}

// WakeAll broadcasts both conditions so every blocked goroutine re-checks
// its predicate. Safe to call at any time from any goroutine.
func (b *Buffer) WakeAll() {
	b.mu.Lock()
	b.notFull.Broadcast()
	b.notEmpty.Broadcast()
	b.mu.Unlock()
}

// Len returns the number of resident items.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return len(b.slots)
}

// Dropped returns how many enqueues were rejected by cancellation.
func (b *Buffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close releases every resident item and detaches the buffer from its
// Cancel. It returns the number of items released.
//
// Close must not be called while any goroutine may still be blocked in
// Enqueue or Dequeue. Calling Close more than once returns 0.
func (b *Buffer) Close() int {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0
	}
	b.closed = true
	n := b.size
	for i := 0; i < n; i++ {
		b.slots[(b.head+i)%len(b.slots)] = Item{}
	}
	b.head, b.tail, b.size = 0, 0, 0
	b.mu.Unlock()

	b.cancel.unregister(b)
	return n
}
