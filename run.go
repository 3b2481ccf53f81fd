// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logscan

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Opener opens the run's input. It is called once, on the producer
// goroutine. If the returned LineSource implements io.Closer it is closed
// when production ends.
type Opener func() (LineSource, error)

// Result is the outcome of Execute.
type Result struct {
	Report   *Report // Published summary; nil when the run was canceled
	Stats    Stats   // Producer counters
	Canceled bool    // Cancellation was set at any point
	Released int     // Items still resident when the buffer was closed
}

// Run is the state of one scan: the buffer, the cancellation flag, the
// completion barrier and one result slot per worker. It is created by
// Builder.Build and executed once.
type Run struct {
	opts    Options
	cancel  *Cancel
	buf     *Buffer
	barrier *Barrier
	results []WorkerResult
	log     zerolog.Logger

	once sync.Once
}

// Interrupt cancels the run and wakes every goroutine blocked in the
// buffer. Safe to call from any goroutine, any number of times, before,
// during or after Execute.
func (r *Run) Interrupt() {
	if r.cancel.Set() {
		r.log.Info().Msg("interrupted")
	}
}

// Canceled reports whether the run has been canceled.
func (r *Run) Canceled() bool {
	return r.cancel.Canceled()
}

// Execute starts the workers and the producer, waits for all of them, and
// tears the buffer down.
//
// Cancellation of ctx is equivalent to calling Interrupt. Every worker
// reaches the completion barrier whether the run ends normally or not,
// so Execute always returns once the producer stops and the buffer wakes.
func (r *Run) Execute(ctx context.Context, open Opener) (Result, error) {
	err := ErrRunFinished
	var res Result
	r.once.Do(func() {
		res = r.execute(ctx, open)
		err = nil
	})
	return res, err
}

func (r *Run) execute(ctx context.Context, open Opener) Result {
	if ctx.Err() != nil {
		r.Interrupt()
	}
	stopWatch := context.AfterFunc(ctx, r.Interrupt)
	defer stopWatch()

	n := r.opts.consumers
	reports := make([]*Report, n)
	var g errgroup.Group

	for i := range n {
		w := &Worker{
			id:      i,
			q:       r.buf,
			cancel:  r.cancel,
			term:    r.opts.term,
			barrier: r.barrier,
			results: r.results,
			sink:    r.opts.sink,
			log:     r.log,
		}
		g.Go(func() error {
			reports[i] = w.Run()
			return nil
		})
	}

	var st Stats
	g.Go(func() error {
		st = r.produce(open)
		return nil
	})

	_ = g.Wait()

	res := Result{
		Report:   reports[0],
		Stats:    st,
		Canceled: r.cancel.Canceled(),
		Released: r.buf.Close(),
	}
	r.log.Debug().
		Bool("canceled", res.Canceled).
		Int("released", res.Released).
		Msg("run finished")
	return res
}

func (r *Run) produce(open Opener) Stats {
	f := NewFeeder(r.buf, r.cancel, r.opts.consumers, r.log)

	src, err := open()
	if err != nil {
		return f.RunUnavailable(err)
	}
	if c, ok := src.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				r.log.Warn().Err(err).Msg("close input")
			}
		}()
	}
	return f.Run(src)
}
