// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logscan

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// Waker is anything that parks goroutines on a predicate involving a Cancel
// and can be told to re-check it.
type Waker interface {
	WakeAll()
}

// Cancel is a run-wide cooperative cancellation flag.
//
// The flag moves from false to true at most once and is never cleared.
// Every Buffer created with a Cancel registers itself as a Waker; Set
// stores the flag and then broadcasts to every registered Waker, so a
// goroutine blocked in Enqueue or Dequeue observes cancellation within one
// wake cycle instead of waiting for capacity to change.
//
// Set must be called from an ordinary goroutine. For OS signals, receive
// them with os/signal (or signal.NotifyContext) and call Set from the
// receiving goroutine.
type Cancel struct {
	flag   atomix.Bool
	mu     sync.Mutex
	wakers []Waker
}

// NewCancel returns an unset Cancel.
func NewCancel() *Cancel {
	return &Cancel{}
}

// Canceled reports whether Set has been called.
func (c *Cancel) Canceled() bool {
	return c.flag.LoadAcquire()
}

// Set marks the run canceled and wakes every registered Waker.
// It reports whether this call performed the transition.
// Calling Set again wakes the Wakers again and returns false.
func (c *Cancel) Set() bool {
	c.mu.Lock()
	first := !c.flag.LoadAcquire()
	c.flag.StoreRelease(true)
	wakers := make([]Waker, len(c.wakers))
	copy(wakers, c.wakers)
	c.mu.Unlock()

	for _, w := range wakers {
		w.WakeAll()
	}
	return first
}

func (c *Cancel) register(w Waker) {
	c.mu.Lock()
	c.wakers = append(c.wakers, w)
	c.mu.Unlock()
}

func (c *Cancel) unregister(w Waker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, x := range c.wakers {
		if x == w {
			c.wakers = append(c.wakers[:i], c.wakers[i+1:]...)
			return
		}
	}
}
