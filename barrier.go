// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logscan

import "sync"

// Barrier is an N-party rendezvous.
//
// Each party calls Wait; no call returns until all N parties of the current
// generation have arrived. The generation counter makes the barrier reusable
// and keeps a woken waiter from mistaking a spurious wakeup for release.
//
// A Barrier deadlocks if fewer than N parties ever call Wait, so the caller
// must not start any party until it can start all of them.
type Barrier struct {
	mu      sync.Mutex
	cond    sync.Cond
	parties int
	arrived int
	gen     uint64
}

// NewBarrier creates a barrier for n parties.
// Returns ErrInvalidParties if n < 1.
func NewBarrier(n int) (*Barrier, error) {
	if n < 1 {
		return nil, ErrInvalidParties
	}
	b := &Barrier{parties: n}
	b.cond.L = &b.mu
	return b, nil
}

// Wait blocks until every party of the current generation has called Wait.
// It returns true to exactly one caller per generation, the last to arrive.
func (b *Barrier) Wait() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.gen
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.gen++
		b.cond.Broadcast()
		return true
	}

	for gen == b.gen {
		b.cond.Wait()
	}
	return false
}

// Parties returns N.
func (b *Barrier) Parties() int {
	return b.parties
}
