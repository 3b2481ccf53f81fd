// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logscan

import (
	"errors"
	"io"
	"strings"
	"syscall"

	"code.hybscloud.com/iox"
	"github.com/rs/zerolog"
)

// Feeder is the producer loop. It streams lines from a LineSource into a
// Producer and then hands out one sentinel per consumer.
type Feeder struct {
	q         Producer
	cancel    *Cancel
	consumers int
	log       zerolog.Logger
}

// NewFeeder creates a Feeder that enqueues into q and distributes
// consumers sentinels when it stops.
func NewFeeder(q Producer, c *Cancel, consumers int, log zerolog.Logger) *Feeder {
	if c == nil {
		c = NewCancel()
	}
	return &Feeder{q: q, cancel: c, consumers: consumers, log: log}
}

// Run reads src until clean end of input, a hard read error, or
// cancellation, and then enqueues exactly one sentinel per consumer.
//
// Transient read errors are retried. A hard error ends production and is
// recorded in Stats.Err; it does not cancel the run, so consumers drain what
// was already enqueued.
func (f *Feeder) Run(src LineSource) Stats {
	var st Stats
	backoff := iox.Backoff{}

	for !f.cancel.Canceled() {
		line, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if line != "" {
					f.put(&st, line)
				}
				break
			}
			if isTransient(err) {
				backoff.Wait()
				continue
			}
			st.Err = err
			f.log.Error().Err(err).Int("lines", st.Lines).Msg("read failed")
			break
		}
		backoff.Reset()
		if !f.put(&st, line) {
			break
		}
	}

	f.distribute(&st)
	f.log.Debug().
		Int("lines", st.Lines).
		Int("discarded", st.Discarded).
		Int("sentinels", st.Sentinels).
		Bool("canceled", f.cancel.Canceled()).
		Msg("producer finished")
	return st
}

// RunUnavailable handles input that could not be opened. It sets
// cancellation before handing out the sentinels, so worker 0 can never pass
// the barrier while the flag is still clear and publish an empty summary.
func (f *Feeder) RunUnavailable(err error) Stats {
	st := Stats{Err: err}
	f.log.Error().Err(err).Msg("input unavailable")
	f.cancel.Set()
	f.distribute(&st)
	return st
}

func (f *Feeder) put(st *Stats, line string) bool {
	if err := f.q.Enqueue(Line(trimEOL(line))); err != nil {
		st.Discarded++
		return false
	}
	st.Lines++
	return true
}

// distribute attempts one sentinel per consumer. Under cancellation each
// attempt returns immediately; consumers then stop on ErrCanceled instead.
func (f *Feeder) distribute(st *Stats) {
	for range f.consumers {
		st.Sentinels++
		_ = f.q.Enqueue(End())
	}
}

func isTransient(err error) bool {
	return errors.Is(err, ErrInterrupted) ||
		errors.Is(err, syscall.EINTR) ||
		iox.IsWouldBlock(err)
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
