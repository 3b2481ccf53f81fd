// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logscan

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Options configures a Run.
type Options struct {
	capacity  int    // Buffer slots
	consumers int    // Worker goroutines and barrier parties
	term      string // Case-sensitive substring to count
	sink      Sink
	log       zerolog.Logger
}

// Builder creates runs with fluent configuration.
//
// Example:
//
//	run, err := logscan.New(10).
//	    Consumers(4).
//	    Term("ERROR").
//	    Sink(printer).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	res, err := run.Execute(ctx, func() (logscan.LineSource, error) {
//	    return lines.Open(path)
//	})
type Builder struct {
	opts Options
}

// New creates a run builder with the given buffer capacity.
// Defaults: one consumer, empty term, discarding sink, no logging.
// Capacity is validated by Build.
func New(capacity int) *Builder {
	return &Builder{opts: Options{
		capacity:  capacity,
		consumers: 1,
		sink:      discardSink{},
		log:       zerolog.Nop(),
	}}
}

// Consumers sets the number of workers.
func (b *Builder) Consumers(n int) *Builder {
	b.opts.consumers = n
	return b
}

// Term sets the search term.
func (b *Builder) Term(s string) *Builder {
	b.opts.term = s
	return b
}

// Sink sets where matches and the summary go. A nil sink discards them.
func (b *Builder) Sink(s Sink) *Builder {
	if s == nil {
		s = discardSink{}
	}
	b.opts.sink = s
	return b
}

// Logger sets the diagnostic logger.
func (b *Builder) Logger(l zerolog.Logger) *Builder {
	b.opts.log = l
	return b
}

// Build validates the options and allocates the run's buffer, barrier and
// result slots. Nothing is started until Execute.
func (b *Builder) Build() (*Run, error) {
	o := b.opts
	if o.consumers < 1 {
		return nil, ErrInvalidConsumers
	}

	c := NewCancel()
	buf, err := NewBuffer(o.capacity, c)
	if err != nil {
		return nil, fmt.Errorf("logscan: create buffer: %w", err)
	}
	bar, err := NewBarrier(o.consumers)
	if err != nil {
		buf.Close()
		return nil, fmt.Errorf("logscan: create barrier: %w", err)
	}

	return &Run{
		opts:    o,
		cancel:  c,
		buf:     buf,
		barrier: bar,
		results: make([]WorkerResult, o.consumers),
		log: o.log.With().
			Int("capacity", o.capacity).
			Int("consumers", o.consumers).
			Logger(),
	}, nil
}
